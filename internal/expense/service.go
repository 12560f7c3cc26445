package expense

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paysnap/paysnap/internal/extraction"
)

// ErrFormNotConfigured is returned by Submit when no form URL has been set.
// The service redirects the view to settings instead of issuing a call.
var ErrFormNotConfigured = errors.New("form URL is not configured")

// ErrNoDraft is returned by draft commands when no capture is in progress.
var ErrNoDraft = errors.New("no draft in progress")

// fallbackCurrency is used when extraction fails and the draft has to be
// filled with zero values.
const fallbackCurrency = "INR"

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service owns the application state: the current view, the in-flight draft,
// and the receipt list. All mutation goes through its named commands, and
// commands are serialized by a single mutex, mirroring the one-at-a-time
// event model the workflow assumes.
type Service struct {
	store       Store
	gateway     extraction.Gateway
	relay       *Relay
	idGenerator IDGenerator
	timeSource  TimeSource

	mu         sync.Mutex
	view       View
	draft      *Receipt
	receipts   []Receipt
	analyzing  bool
	captureGen int
}

// NewService creates a new Service with default ID generator and time source
func NewService(store Store, gateway extraction.Gateway, relay *Relay) *Service {
	return NewServiceWithDeps(store, gateway, relay, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for
// testing
func NewServiceWithDeps(store Store, gateway extraction.Gateway, relay *Relay, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		store:       store,
		gateway:     gateway,
		relay:       relay,
		idGenerator: idGen,
		timeSource:  timeSrc,
		view:        ViewDashboard,
		receipts:    store.LoadReceipts(),
	}
}

// View returns the current view.
func (s *Service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Navigate switches to the given view.
func (s *Service) Navigate(view View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
}

// Back returns to the dashboard. There is no history stack.
func (s *Service) Back() {
	s.Navigate(ViewDashboard)
}

// Analyzing reports whether an extraction call is in flight.
func (s *Service) Analyzing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzing
}

// Receipts returns a copy of the receipt list, newest first.
func (s *Service) Receipts() []Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	receipts := make([]Receipt, len(s.receipts))
	copy(receipts, s.receipts)
	return receipts
}

// Draft returns the in-flight draft, or nil when none exists.
func (s *Service) Draft() *Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	draft := *s.draft
	return &draft
}

// Capture runs the capture pipeline: switch to the review view, analyze the
// image, and install the resulting draft. Extraction failure is absorbed
// into a zero-valued draft so the review flow is never blocked.
//
// The extraction call runs without the state lock held. If a newer capture
// starts in the meantime, this call's result is discarded.
func (s *Service) Capture(imageDataURL string) *Receipt {
	s.mu.Lock()
	s.captureGen++
	gen := s.captureGen
	s.analyzing = true
	s.view = ViewReview
	s.draft = nil
	s.mu.Unlock()

	fields, err := s.analyze(imageDataURL)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.captureGen {
		// A newer capture superseded this one; drop the result.
		return nil
	}
	s.analyzing = false

	now := s.timeSource.Now()
	draft := Receipt{
		ID:        s.idGenerator.Generate(),
		ImageURL:  imageDataURL,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err != nil {
		slog.Error("Failed to analyze receipt", "error", err)
		draft.Amount = 0
		draft.Currency = fallbackCurrency
		draft.Date = now.Format("2006-01-02")
		draft.Category = CategoryOther
	} else {
		draft.Amount = fields.Amount
		draft.Currency = fields.Currency
		draft.Date = fields.Date
		draft.Vendor = fields.Vendor
		draft.Category = CoerceCategory(fields.Category)
		draft.Description = fields.Description
	}

	s.draft = &draft
	result := draft
	return &result
}

func (s *Service) analyze(imageDataURL string) (*extraction.ReceiptFields, error) {
	data, mimeType, err := extraction.DecodeDataURL(imageDataURL)
	if err != nil {
		return nil, fmt.Errorf("decoding captured image: %w", err)
	}
	return s.gateway.AnalyzeReceipt(data, mimeType)
}

// EditDraftField replaces a single field of the draft. The only validation
// is numeric parsing for amount and category coercion.
func (s *Service) EditDraftField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrNoDraft
	}

	switch field {
	case "amount":
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			amount = 0
		}
		s.draft.Amount = amount
	case "currency":
		s.draft.Currency = value
	case "date":
		s.draft.Date = value
	case "vendor":
		s.draft.Vendor = value
	case "category":
		s.draft.Category = CoerceCategory(value)
	case "description":
		s.draft.Description = value
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	s.draft.UpdatedAt = s.timeSource.Now()
	return nil
}

// ConfirmDraft prepends the draft to the receipt list, persists it, and
// returns to the dashboard.
func (s *Service) ConfirmDraft() (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil, ErrNoDraft
	}

	confirmed := *s.draft
	s.receipts = append([]Receipt{confirmed}, s.receipts...)
	s.store.SaveReceipts(s.receipts)
	s.draft = nil
	s.view = ViewDashboard
	return &confirmed, nil
}

// DiscardDraft drops the in-flight draft and returns to the dashboard.
func (s *Service) DiscardDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	s.view = ViewDashboard
}

// DeleteReceipt removes exactly the record with the given ID, leaving all
// others and their relative order unchanged.
func (s *Service) DeleteReceipt(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]Receipt, 0, len(s.receipts))
	for _, r := range s.receipts {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.receipts = kept
	s.store.SaveReceipts(s.receipts)
}

// ClearHistory erases all records.
func (s *Service) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = []Receipt{}
	s.store.SaveReceipts(s.receipts)
}

// Submit relays the record with the given ID to the configured form. When no
// form URL is set the view switches to settings and no call is issued. A
// transport failure leaves the record pending; otherwise the record flips to
// submitted. Success is best-effort: the relay cannot observe the true
// server-side outcome.
func (s *Service) Submit(id string) error {
	s.mu.Lock()
	config := s.store.LoadFormConfig()
	if config.FormURL == "" {
		s.view = ViewSettings
		s.mu.Unlock()
		return ErrFormNotConfigured
	}

	var target *Receipt
	for i := range s.receipts {
		if s.receipts[i].ID == id {
			target = &s.receipts[i]
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return fmt.Errorf("receipt not found: %s", id)
	}
	if target.Status == StatusSubmitted {
		s.mu.Unlock()
		return nil
	}
	receipt := *target
	s.mu.Unlock()

	if err := s.relay.Send(config, receipt); err != nil {
		return fmt.Errorf("submitting receipt: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.receipts {
		if s.receipts[i].ID == id {
			s.receipts[i].Status = StatusSubmitted
			s.receipts[i].UpdatedAt = s.timeSource.Now()
			break
		}
	}
	s.store.SaveReceipts(s.receipts)
	return nil
}

// ExtractFormFields asks the gateway to map the form's HTML onto the five
// field identifiers and persists the result into the configuration.
func (s *Service) ExtractFormFields(html string) (*FieldMapping, error) {
	fields, err := s.gateway.ExtractFormFields(html)
	if err != nil {
		return nil, fmt.Errorf("extracting form fields: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	config := s.store.LoadFormConfig()
	config.Fields = FieldMapping{
		Amount:      fields.Amount,
		Date:        fields.Date,
		Vendor:      fields.Vendor,
		Category:    fields.Category,
		Description: fields.Description,
	}
	config = config.Normalize()
	s.store.SaveFormConfig(config)
	mapping := config.Fields
	return &mapping, nil
}

// FormConfig returns the current form configuration.
func (s *Service) FormConfig() FormConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadFormConfig()
}

// SetFormConfig replaces the form configuration.
func (s *Service) SetFormConfig(config FormConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SaveFormConfig(config.Normalize())
}

// Theme returns the display mode.
func (s *Service) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadTheme()
}

// SetTheme sets the display mode. Anything but "dark" is treated as "light".
func (s *Service) SetTheme(theme string) {
	if theme != "dark" {
		theme = "light"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SaveTheme(theme)
}

// TotalSpend returns the sum of all record amounts.
func (s *Service) TotalSpend() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalSpend(s.receipts)
}

// StatsByCategory returns per-category spend with every category present.
func (s *Service) StatsByCategory() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SpendByCategory(s.receipts)
}
