package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// extractJSONObject strips markdown fences and surrounding prose, returning
// just the JSON object text.
func extractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return "", fmt.Errorf("%w: no JSON object found in response", ErrExtraction)
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return "", fmt.Errorf("%w: invalid JSON object in response", ErrExtraction)
	}

	return text[startIdx : endIdx+1], nil
}

// parseReceiptJSON parses and validates a receipt extraction response.
func parseReceiptJSON(text string) (*ReceiptFields, error) {
	jsonText, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstSchema(receiptSchema(), []byte(jsonText)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var fields ReceiptFields
	if err := json.Unmarshal([]byte(jsonText), &fields); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling json: %v", ErrExtraction, err)
	}

	fields.Date = normalizeDate(fields.Date)
	fields.Vendor = strings.TrimSpace(fields.Vendor)
	fields.Currency = strings.ToUpper(strings.TrimSpace(fields.Currency))
	fields.Description = strings.TrimSpace(fields.Description)

	return &fields, nil
}

// parseFormFieldsJSON parses and validates a form field mapping response.
func parseFormFieldsJSON(text string) (*FieldMapping, error) {
	jsonText, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstSchema(formFieldsSchema(), []byte(jsonText)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var mapping FieldMapping
	if err := json.Unmarshal([]byte(jsonText), &mapping); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling json: %v", ErrExtraction, err)
	}

	return &mapping, nil
}

// normalizeDate coerces a date string into YYYY-MM-DD, falling back to
// today's date when the value cannot be parsed.
func normalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now().Format("2006-01-02")
	}

	if d, err := time.Parse("2006-01-02", date); err == nil {
		return d.Format("2006-01-02")
	}

	// Try other common formats
	formats := []string{
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
	}
	for _, format := range formats {
		if d, err := time.Parse(format, date); err == nil {
			return d.Format("2006-01-02")
		}
	}

	return time.Now().Format("2006-01-02")
}
