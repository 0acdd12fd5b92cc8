package handlers

import (
	"net/http"

	"table-gateway/internal/models"
	"table-gateway/internal/services"
)

// CreateTableHandler creates a collection that must not exist yet.
func (h *Handler) CreateTableHandler(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	var schema models.TableSchema
	if err := decodeJSON(w, r, &schema); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.schemaService.CreateTable(r.Context(), collection, schema); err != nil {
		writeServiceError(w, r, err)
		return
	}

	sendResponse(w, http.StatusCreated, "Table '"+collection+"' created", nil)
}

// EnsureTableHandler creates the collection or adds the columns it lacks.
func (h *Handler) EnsureTableHandler(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	var schema models.TableSchema
	if err := decodeJSON(w, r, &schema); err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.schemaService.EnsureTable(r.Context(), collection, schema)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sendSuccessResponse(w, "Table '"+collection+"' "+result.Action, result)
}

// GetRecordHandler returns one record by id.
func (h *Handler) GetRecordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(r.PathValue("id"), h.allowZeroID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	record, err := h.recordService.Fetch(r.Context(), r.PathValue("collection"), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sendSuccessResponse(w, "", record)
}

// UpsertRecordHandler inserts or updates the record at id.
func (h *Handler) UpsertRecordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(r.PathValue("id"), h.allowZeroID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	fields, err := decodeRecord(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.recordService.Upsert(r.Context(), r.PathValue("collection"), id, fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	message := "Record updated"
	if result.Created {
		message = "Record created"
	}
	sendSuccessResponse(w, message, result.Record)
}

// DeleteRecordHandler deletes the record at id.
func (h *Handler) DeleteRecordHandler(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(r.PathValue("id"), h.allowZeroID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	deleted, err := h.recordService.Remove(r.Context(), r.PathValue("collection"), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sendSuccessResponse(w, "Record deleted", map[string]int64{"deleted": deleted})
}
