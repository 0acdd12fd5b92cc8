package handlers

import "net/http"

// NewRouter registers every route. Method mismatches get 405 from the mux.
func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.RootHandler)
	mux.HandleFunc("GET /health", h.HealthHandler)

	mux.HandleFunc("POST /_schema/sync", h.SchemaSyncHandler)
	mux.HandleFunc("POST /_schema/sync/start", h.StartSyncHandler)
	mux.HandleFunc("POST /_schema/sync/stop", h.StopSyncHandler)
	mux.HandleFunc("GET /_schema/status", h.StatusHandler)
	mux.HandleFunc("PUT /_schema/config", h.ConfigHandler)

	mux.HandleFunc("POST /{collection}", h.CreateTableHandler)
	mux.HandleFunc("PUT /{collection}", h.EnsureTableHandler)

	mux.HandleFunc("GET /{collection}/{id}", h.GetRecordHandler)
	mux.HandleFunc("POST /{collection}/{id}", h.UpsertRecordHandler)
	mux.HandleFunc("PUT /{collection}/{id}", h.UpsertRecordHandler)
	mux.HandleFunc("DELETE /{collection}/{id}", h.DeleteRecordHandler)

	return mux
}
