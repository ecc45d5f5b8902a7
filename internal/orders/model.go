package orders

// Status is the production state of an order.
type Status string

const (
	StatusNew          Status = "new"
	StatusInProduction Status = "in_production"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

// validTransitions lists the allowed status moves.
var validTransitions = map[Status][]Status{
	StatusNew:          {StatusInProduction, StatusCancelled},
	StatusInProduction: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order is a submitted print job: a quote snapshot bound to a customer.
// Totals are copied from the quote at submission time; hub_synced_at is the
// integration point for the external order-management backend.
type Order struct {
	ID           int64   `json:"id"`
	Reference    string  `json:"reference"`
	QuoteID      int64   `json:"quote_id"`
	CustomerID   int64   `json:"customer_id"`
	Status       Status  `json:"status"`
	RushOrder    bool    `json:"rush_order"`
	Subtotal     float64 `json:"subtotal"`
	TotalWithTax float64 `json:"total_with_tax"`
	Notes        string  `json:"notes,omitempty"`
	HubSyncedAt  *string `json:"hub_synced_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// CreateOrderRequest converts a stored quote into an order.
type CreateOrderRequest struct {
	QuoteID    int64  `json:"quote_id" validate:"required,gt=0"`
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// UpdateStatusRequest advances an order through production.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=new in_production completed cancelled"`
}
