package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tagteamprinting/printquote/internal/customers"
	"github.com/tagteamprinting/printquote/internal/httpx"
	"github.com/tagteamprinting/printquote/internal/quotes"
)

// QuoteGetter loads stored quotes; the quotes service satisfies it.
type QuoteGetter interface {
	Get(ctx context.Context, id int64) (*quotes.Quote, error)
}

// CustomerGetter loads customer records; the customers repository satisfies it.
type CustomerGetter interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

type Service struct {
	repo      *Repository
	quotes    QuoteGetter
	customers CustomerGetter
}

func NewService(repo *Repository, quotes QuoteGetter, customers CustomerGetter) *Service {
	return &Service{repo: repo, quotes: quotes, customers: customers}
}

// Create turns a stored quote into an order for a customer, snapshotting the
// quoted totals and the rush flag.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	quote, err := s.quotes.Get(ctx, req.QuoteID)
	if err != nil {
		return nil, fmt.Errorf("load quote: %w", err)
	}
	if !quote.Result.Valid {
		return nil, fmt.Errorf("quote %d was rejected and cannot be ordered: %w", req.QuoteID, httpx.ErrValidation)
	}
	if _, err := s.customers.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	order := &Order{
		Reference:    uuid.NewString(),
		QuoteID:      quote.ID,
		CustomerID:   req.CustomerID,
		Status:       StatusNew,
		RushOrder:    quote.Job.RushOrder,
		Subtotal:     quote.Result.Subtotal,
		TotalWithTax: quote.Result.TotalWithTax,
		Notes:        req.Notes,
	}

	id, err := s.repo.Insert(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status) ([]Order, error) {
	return s.repo.List(ctx, status)
}

// UpdateStatus advances an order; only the production transitions defined in
// validTransitions are allowed.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, status) {
		return nil, fmt.Errorf("cannot move order from %s to %s: %w", order.Status, status, httpx.ErrValidation)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// MarkHubSynced stamps the order as relayed to the external order-management
// backend. Stamping twice just refreshes the timestamp.
func (s *Service) MarkHubSynced(ctx context.Context, id int64) (*Order, error) {
	if err := s.repo.MarkHubSynced(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
