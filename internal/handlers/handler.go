package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"table-gateway/internal/logger"
	"table-gateway/internal/middleware"
	"table-gateway/internal/models"
	"table-gateway/internal/services"
)

const maxBodyBytes = 1 << 20

// Handler holds service dependencies
type Handler struct {
	schemaService *services.SchemaService
	recordService *services.RecordService
	syncService   *services.SchemaSyncService
	allowZeroID   bool
}

// NewHandler creates a new handler
func NewHandler(schemaService *services.SchemaService, recordService *services.RecordService, syncService *services.SchemaSyncService, allowZeroID bool) *Handler {
	return &Handler{
		schemaService: schemaService,
		recordService: recordService,
		syncService:   syncService,
		allowZeroID:   allowZeroID,
	}
}

// Response is the JSON envelope of every reply.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// HealthHandler reports whether the database answers a ping.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.schemaService.Ping(r.Context()); err != nil {
		logger.Error("Health check failed: %v", err)
		sendErrorResponse(w, "Database unavailable", http.StatusServiceUnavailable)
		return
	}

	sendSuccessResponse(w, "Service is running", nil)
}

// RootHandler lists the available endpoints.
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"health":         "GET /health",
		"createTable":    "POST /{collection}",
		"ensureTable":    "PUT /{collection}",
		"fetchRecord":    "GET /{collection}/{id}",
		"upsertRecord":   "POST|PUT /{collection}/{id}",
		"deleteRecord":   "DELETE /{collection}/{id}",
		"schemaSync":     "POST /_schema/sync",
		"schemaStatus":   "GET /_schema/status",
		"startSchemaJob": "POST /_schema/sync/start",
		"stopSchemaJob":  "POST /_schema/sync/stop",
		"schemaConfig":   "PUT /_schema/config",
	}

	sendResponse(w, http.StatusOK, "REST table gateway", map[string]interface{}{"endpoints": endpoints})
}

// writeServiceError maps service errors onto HTTP statuses. Database
// detail is logged, never returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		sendErrorResponse(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		sendErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrTableExists):
		sendErrorResponse(w, err.Error(), http.StatusInternalServerError)
	default:
		logger.Error("[%s] %s %s failed: %v", middleware.RequestIDFromContext(r.Context()), r.Method, r.URL.Path, err)
		sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &services.ValidationError{Message: "Request body is required"}
		}
		return &services.ValidationError{Message: "Invalid request body"}
	}
	return nil
}

// decodeRecord reads a flat JSON object. Integral numbers become int64,
// other numbers float64.
func decodeRecord(w http.ResponseWriter, r *http.Request) (models.Record, error) {
	var raw map[string]interface{}
	if err := decodeJSON(w, r, &raw); err != nil {
		return nil, err
	}

	record := make(models.Record, len(raw))
	for k, v := range raw {
		num, ok := v.(json.Number)
		if !ok {
			record[k] = v
			continue
		}

		if i, err := num.Int64(); err == nil {
			record[k] = i
		} else if f, err := num.Float64(); err == nil {
			record[k] = f
		} else {
			return nil, &services.ValidationError{Fields: []string{k}, Message: "Invalid number for field " + k}
		}
	}

	return record, nil
}

func sendSuccessResponse(w http.ResponseWriter, message string, data interface{}) {
	sendResponse(w, http.StatusOK, message, data)
}

func sendResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	response := Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
