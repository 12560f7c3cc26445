package expense

import "time"

// Status tracks whether a receipt has been relayed to the configured form.
// A record starts pending and only ever moves to submitted; it never reverts.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
)

// CategoryOther is the sentinel every unrecognized category collapses to.
const CategoryOther = "Other"

// Categories is the closed set of expense categories. Every record carries
// exactly one of these labels.
var Categories = []string{
	"Food & Dining",
	"Shopping",
	"Transport",
	"Bills & Utilities",
	"Entertainment",
	"Health & Wellness",
	"Business",
	"Travel",
	CategoryOther,
}

// Receipt represents a captured expense record
type Receipt struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Date        string    `json:"date"` // YYYY-MM-DD, no time component
	Vendor      string    `json:"vendor"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"` // data-URL of the originating image
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CoerceCategory maps a value into the closed category set. Members of the
// set pass through unchanged, everything else becomes Other.
func CoerceCategory(category string) string {
	for _, c := range Categories {
		if c == category {
			return c
		}
	}
	return CategoryOther
}

// TotalSpend sums the amounts of all records.
func TotalSpend(receipts []Receipt) float64 {
	var total float64
	for _, r := range receipts {
		total += r.Amount
	}
	return total
}

// SpendByCategory sums amounts grouped by category. Every category in the
// closed set is present in the result, zero-valued when no record matches.
func SpendByCategory(receipts []Receipt) map[string]float64 {
	stats := make(map[string]float64, len(Categories))
	for _, c := range Categories {
		stats[c] = 0
	}
	for _, r := range receipts {
		stats[CoerceCategory(r.Category)] += r.Amount
	}
	return stats
}
