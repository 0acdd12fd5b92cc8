package handlers

import (
	"net/http"
)

// ConfigRequest is the body of PUT /_schema/config.
type ConfigRequest struct {
	CronSchedule string `json:"cronSchedule"`
}

// StartSyncHandler starts the schema sync schedule
func (h *Handler) StartSyncHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.StartSync(); err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	sendSuccessResponse(w, "Schema sync schedule started", h.syncService.GetStatus())
}

// StopSyncHandler stops the schema sync schedule
func (h *Handler) StopSyncHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.StopSync(); err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	sendSuccessResponse(w, "Schema sync schedule stopped", nil)
}

// StatusHandler returns the schema sync status
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	sendSuccessResponse(w, "", h.syncService.GetStatus())
}

// ConfigHandler updates the cron schedule
func (h *Handler) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	var configReq ConfigRequest
	if err := decodeJSON(w, r, &configReq); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.syncService.UpdateSchedule(configReq.CronSchedule); err != nil {
		writeServiceError(w, r, err)
		return
	}

	sendSuccessResponse(w, "Configuration updated", h.syncService.GetStatus())
}

// SchemaSyncHandler applies the schema file now
func (h *Handler) SchemaSyncHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.TriggerSync(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	sendSuccessResponse(w, "Schema synchronization completed", h.syncService.GetStatus())
}
