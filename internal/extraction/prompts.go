package extraction

import "fmt"

// analyzeReceiptPrompt is the shared instruction used by all providers when
// extracting structured data from a receipt image.
const analyzeReceiptPrompt = `Analyze this receipt or payment confirmation image.
Extract the following details accurately:
1. Total amount paid (numeric value only, e.g. 42.75)
2. Currency (ISO code, e.g. INR, USD, EUR)
3. Date of transaction (YYYY-MM-DD)
4. Vendor or business name
5. Category (one of: Food & Dining, Shopping, Transport, Bills & Utilities, Entertainment, Health & Wellness, Business, Travel, Other)
6. A brief 1-sentence description of the purchase.

If details are missing, provide your best guess based on the context.

Return ONLY valid JSON in this exact format:
{
  "amount": 0.00,
  "currency": "XXX",
  "date": "YYYY-MM-DD",
  "vendor": "Business Name",
  "category": "Other",
  "description": "Brief description"
}

Do not include any text before or after the JSON.
Do not use markdown code blocks.`

// formFieldsPromptTemplate is the shared instruction used when inferring
// which form field identifiers correspond to the five receipt fields.
const formFieldsPromptTemplate = `I have the HTML source of a web form. Please identify the field identifiers (for Google Forms these look like entry.12345678) that most likely correspond to these payment tracking fields:
1. Amount (Total price)
2. Date (Transaction date)
3. Vendor (Merchant/Business name)
4. Category (Type of expense)
5. Description (Notes)

Return ONLY valid JSON in this exact format:
{
  "amount": "entry.0",
  "date": "entry.0",
  "vendor": "entry.0",
  "category": "entry.0",
  "description": "entry.0"
}

Do not include any text before or after the JSON.
Do not use markdown code blocks.

HTML Snippet:
%s`

func formFieldsPrompt(html string) string {
	return fmt.Sprintf(formFieldsPromptTemplate, truncateHTML(html))
}
