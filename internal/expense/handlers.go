package expense

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// maxBodySize bounds inbound request bodies; phone photos encoded as data
// URLs can be large.
const maxBodySize = 50 << 20 // 50MB

type successResponse struct {
	Success bool     `json:"success"`
	Expense *Expense `json:"expense"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeExpense(w http.ResponseWriter, code int, expense *Expense) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(successResponse{Success: true, Expense: expense}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(failureResponse{Success: false, Error: message})
}

// handleIndex serves the embedded HTML interface.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleCreateExpense accepts both entry paths, distinguished by the
// "manual" flag in the body. Manual entries skip extraction but still pass
// through normalization and validation; scan entries carry a data-URL image
// that runs the full pipeline.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		slog.Error("Error decoding request body", "error", err)
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	manual, _ := fields["manual"].(bool)

	if manual {
		record, err := s.service.CreateManualExpense(r.Context(), fields)
		if err != nil {
			slog.Error("Error creating manual expense", "error", err)
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeExpense(w, http.StatusCreated, record)
		return
	}

	payload, _ := fields["image"].(string)
	if payload == "" {
		writeFailure(w, http.StatusBadRequest, "An image is required to scan a receipt")
		return
	}

	imageData, contentType, err := decodeImagePayload(payload)
	if err != nil {
		slog.Error("Error decoding image payload", "error", err)
		writeFailure(w, http.StatusBadRequest, "Invalid image data")
		return
	}

	record, err := s.service.ScanExpense(r.Context(), imageData, contentType)
	if err != nil {
		slog.Error("Error scanning receipt", "error", err)
		writeFailure(w, http.StatusBadGateway, err.Error())
		return
	}

	writeExpense(w, http.StatusCreated, record)
}

// decodeImagePayload strips an optional data-URL prefix and base64-decodes
// the image bytes. The MIME type comes from the prefix when present.
func decodeImagePayload(payload string) ([]byte, string, error) {
	contentType := "image/jpeg"

	if strings.HasPrefix(payload, "data:") {
		meta, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", errors.New("malformed data URL")
		}
		meta = strings.TrimPrefix(meta, "data:")
		// A degenerate "data:;base64," prefix has no type; keep the default
		if mt, _, _ := strings.Cut(meta, ";"); mt != "" {
			contentType = mt
		}
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

// handleListExpenses returns all expenses, newest date first.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.service.ListExpenses()
	if err != nil {
		slog.Error("Error listing expenses", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(expenses); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetExpense returns a single expense.
func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	expense, err := s.service.GetExpense(id)
	if err != nil {
		writeFailure(w, http.StatusNotFound, "Expense not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(expense); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetExpenseImage returns the stored receipt image for an expense.
func (s *Server) handleGetExpenseImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, contentType, err := s.service.GetExpenseImage(id)
	if err != nil {
		writeFailure(w, http.StatusNotFound, "Image not found")
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteExpense deletes an expense.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.DeleteExpense(id); err != nil {
		writeFailure(w, http.StatusNotFound, "Expense not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSummary returns spend aggregates for reporting.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summarize()
	if err != nil {
		slog.Error("Error summarizing expenses", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
