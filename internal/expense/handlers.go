package expense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeJSONError writes a JSON error body
func writeJSONError(w http.ResponseWriter, code int, message string) {
	setCORSHeaders(w)
	writeJSON(w, code, map[string]string{"error": message})
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleStaticCSS serves the stylesheet
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(appCSS)
}

// handleStaticJS serves the application script
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}

// handleListReceipts returns the persisted receipt list
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Receipts())
}

// handleDeleteReceipt removes a single record
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	s.service.DeleteReceipt(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleClearHistory erases all records
func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.service.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmitReceipt relays a record to the configured form
func (s *Server) handleSubmitReceipt(w http.ResponseWriter, r *http.Request) {
	err := s.service.Submit(r.PathValue("id"))
	if errors.Is(err, ErrFormNotConfigured) {
		// Not an error the user can act on here; the view has been switched
		// to settings.
		writeJSON(w, http.StatusOK, map[string]string{"view": string(s.service.View())})
		return
	}
	if err != nil {
		slog.Error("Error submitting receipt", "error", err)
		writeJSONError(w, http.StatusBadGateway, "Submission failed. Please check your form URL in settings.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"view": string(s.service.View())})
}

type captureRequest struct {
	Image string `json:"image"`
}

// handleCapture runs the capture pipeline on a data-URL image
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		writeJSONError(w, http.StatusBadRequest, "No image provided")
		return
	}

	draft := s.service.Capture(req.Image)
	if draft == nil {
		// Superseded by a newer capture.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

// handleGetDraft returns the in-flight draft
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft := s.service.Draft()
	if draft == nil {
		corsError(w, "No draft in progress", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

type editDraftRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// handleEditDraft replaces a single draft field
func (s *Server) handleEditDraft(w http.ResponseWriter, r *http.Request) {
	var req editDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.service.EditDraftField(req.Field, req.Value); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.service.Draft())
}

// handleConfirmDraft appends the draft to the ledger
func (s *Server) handleConfirmDraft(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.service.ConfirmDraft()
	if err != nil {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// handleDiscardDraft drops the in-flight draft
func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	s.service.DiscardDraft()
	w.WriteHeader(http.StatusNoContent)
}

type statsResponse struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
}

// handleStats returns the derived aggregates
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Total:      s.service.TotalSpend(),
		ByCategory: s.service.StatsByCategory(),
	})
}

// handleExport streams the ledger as an XLSX workbook
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := ExportXLSX(s.service.Receipts())
	if err != nil {
		slog.Error("Error exporting receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	w.Write(data)
}

// handleGetConfig returns the form configuration
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.FormConfig())
}

// handleSetConfig replaces the form configuration
func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var config FormConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.service.SetFormConfig(config)
	writeJSON(w, http.StatusOK, s.service.FormConfig())
}

type extractFieldsRequest struct {
	HTML string `json:"html"`
}

// handleExtractFields maps a form's HTML source onto the five field
// identifiers
func (s *Server) handleExtractFields(w http.ResponseWriter, r *http.Request) {
	var req extractFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HTML == "" {
		writeJSONError(w, http.StatusBadRequest, "No HTML provided")
		return
	}
	mapping, err := s.service.ExtractFormFields(req.HTML)
	if err != nil {
		slog.Error("Error extracting form fields", "error", err)
		writeJSONError(w, http.StatusBadGateway, "Mapping failed.")
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

// handleGetTheme returns the display mode
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": s.service.Theme()})
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// handleSetTheme sets the display mode
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.service.SetTheme(req.Theme)
	writeJSON(w, http.StatusOK, map[string]string{"theme": s.service.Theme()})
}

// handleGetView returns the current view
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"view":      s.service.View(),
		"analyzing": s.service.Analyzing(),
	})
}

type viewRequest struct {
	View string `json:"view"`
}

// handleSetView navigates to a view
func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.service.Navigate(ParseView(req.View))
	writeJSON(w, http.StatusOK, map[string]string{"view": string(s.service.View())})
}
