package extraction

import "errors"

// ErrExtraction marks a failed extraction call: an empty response or one
// that does not conform to the declared output schema. Callers are expected
// to substitute a zero-valued draft rather than block the workflow.
var ErrExtraction = errors.New("extraction failed")

// ReceiptFields contains the structured data extracted from a receipt image.
type ReceiptFields struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Vendor      string  `json:"vendor"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// FieldMapping contains the form field identifiers inferred from an external
// form's HTML source, one per logical receipt field.
type FieldMapping struct {
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Vendor      string `json:"vendor"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Gateway defines the interface to the external AI extraction service. Both
// operations are single-shot and non-retrying.
type Gateway interface {
	// AnalyzeReceipt extracts structured fields from a receipt image.
	AnalyzeReceipt(imageData []byte, contentType string) (*ReceiptFields, error)

	// ExtractFormFields infers which form field identifiers in the given
	// HTML source correspond to the five logical receipt fields.
	ExtractFormFields(html string) (*FieldMapping, error)

	// Close closes the gateway and releases resources.
	Close() error
}

// maxFormHTMLLen bounds how much of the form's HTML source is sent to the
// service.
const maxFormHTMLLen = 15000

func truncateHTML(html string) string {
	if len(html) > maxFormHTMLLen {
		return html[:maxFormHTMLLen]
	}
	return html
}
