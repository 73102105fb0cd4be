// Package httpapi exposes internal/service over REST. It exists purely so
// the pipeline is runnable end to end; the wire shapes here are this
// collaborator's own concern, not part of the core pipeline design.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"chonkit/internal/apperr"
	"chonkit/internal/logger"
	"chonkit/internal/service"
)

// Register wires every route onto mux.
func Register(mux *http.ServeMux, svc *service.Service) {
	mux.HandleFunc("POST /documents", handleUpload(svc))
	mux.HandleFunc("GET /documents/{id}", handleGetDocument(svc))
	mux.HandleFunc("DELETE /documents/{id}", handleDeleteDocument(svc))
	mux.HandleFunc("PUT /documents/{id}/parser", handleConfigureParser(svc))
	mux.HandleFunc("PUT /documents/{id}/chunker", handleConfigureChunker(svc))
	mux.HandleFunc("POST /documents/{id}/preview", handlePreview(svc))
	mux.HandleFunc("POST /documents/{id}/embed", handleEmbed(svc))

	mux.HandleFunc("POST /collections", handleCreateCollection(svc))
	mux.HandleFunc("GET /collections", handleListCollections(svc))
	mux.HandleFunc("DELETE /collections/{id}", handleDeleteCollection(svc))
	mux.HandleFunc("POST /collections/{id}/search", handleSearch(svc))

	mux.HandleFunc("GET /healthz", handleHealthz)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.FromContext(ctx).Error().Err(err).Msg("encode response")
		}
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		logger.FromContext(ctx).Error().Err(err).Msg("unclassified error")
		writeJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.AlreadyExists, apperr.Conflict:
		status = http.StatusConflict
	case apperr.ConfigError, apperr.ParseError:
		status = http.StatusBadRequest
	case apperr.Cancelled:
		status = http.StatusRequestTimeout
	case apperr.EmbedError, apperr.VectorStoreError:
		status = http.StatusBadGateway
	case apperr.Inconsistent:
		logger.FromContext(ctx).Error().Err(err).Msg("inconsistent state, operator action required")
		status = http.StatusInternalServerError
	}
	writeJSON(ctx, w, status, map[string]string{"error": string(kind), "detail": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
