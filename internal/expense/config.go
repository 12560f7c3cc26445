package expense

// FieldMapping holds the external form's field identifiers for the five
// logical receipt fields.
type FieldMapping struct {
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Vendor      string `json:"vendor"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// FormConfig is the submission relay configuration: the external form URL
// plus the field identifier mapping.
type FormConfig struct {
	FormURL string       `json:"formUrl"`
	Fields  FieldMapping `json:"fields"`
}

// DefaultFormConfig returns the configuration used before the user has set
// anything up: no form URL and placeholder field identifiers.
func DefaultFormConfig() FormConfig {
	return FormConfig{
		Fields: FieldMapping{
			Amount:      "entry.1",
			Date:        "entry.2",
			Vendor:      "entry.3",
			Category:    "entry.4",
			Description: "entry.5",
		},
	}
}

// Normalize fills any blank field identifier with its default so all five
// keys are always present.
func (c FormConfig) Normalize() FormConfig {
	defaults := DefaultFormConfig().Fields
	if c.Fields.Amount == "" {
		c.Fields.Amount = defaults.Amount
	}
	if c.Fields.Date == "" {
		c.Fields.Date = defaults.Date
	}
	if c.Fields.Vendor == "" {
		c.Fields.Vendor = defaults.Vendor
	}
	if c.Fields.Category == "" {
		c.Fields.Category = defaults.Category
	}
	if c.Fields.Description == "" {
		c.Fields.Description = defaults.Description
	}
	return c
}
