package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini implements the Gateway interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Gateway instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Ask for compact JSON rather than prose; the lenient parser still
	// guards against fenced or decorated output.
	model.ResponseMIMEType = "application/json"

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// generate runs a single completion and returns the concatenated text parts.
func (g *Gemini) generate(parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no response from gemini", ErrExtraction)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	return responseText.String(), nil
}

// AnalyzeReceipt extracts structured fields from a receipt image
func (g *Gemini) AnalyzeReceipt(imageData []byte, contentType string) (*ReceiptFields, error) {
	// Prepare image data (convert to PNG if needed)
	finalImageData, _, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return nil, err
	}

	// genai.ImageData expects just the format suffix (e.g., "png"), not the
	// full MIME type. After prepareImageData, everything is PNG.
	text, err := g.generate(
		genai.ImageData("png", finalImageData),
		genai.Text(analyzeReceiptPrompt),
	)
	if err != nil {
		return nil, err
	}

	fields, err := parseReceiptJSON(text)
	if err != nil {
		return nil, fmt.Errorf("parsing receipt data: %w", err)
	}

	return fields, nil
}

// ExtractFormFields infers form field identifiers from HTML source
func (g *Gemini) ExtractFormFields(html string) (*FieldMapping, error) {
	text, err := g.generate(genai.Text(formFieldsPrompt(html)))
	if err != nil {
		return nil, err
	}

	mapping, err := parseFormFieldsJSON(text)
	if err != nil {
		return nil, fmt.Errorf("parsing form fields: %w", err)
	}

	return mapping, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
