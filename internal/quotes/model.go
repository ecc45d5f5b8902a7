package quotes

import "github.com/tagteamprinting/printquote/internal/pricing"

// Quote is a stored quote: the job as submitted plus the result computed at
// submission time. Reads return the snapshot, never a recalculation, so a
// later pricebook change cannot silently reprice an issued quote.
type Quote struct {
	ID        int64               `json:"id"`
	Reference string              `json:"reference"`
	CreatedAt string              `json:"created_at"`
	Title     string              `json:"title,omitempty"`
	Notes     string              `json:"notes,omitempty"`
	Job       pricing.JobSpec     `json:"job"`
	Result    pricing.QuoteResult `json:"result"`
}

// ListItem is the compact row returned by quote listings.
type ListItem struct {
	ID        int64   `json:"id"`
	Reference string  `json:"reference"`
	CreatedAt string  `json:"created_at"`
	Title     string  `json:"title,omitempty"`
	Total     float64 `json:"total"`
}
