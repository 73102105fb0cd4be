package httpapi

import (
	"io"
	"net/http"

	"chonkit/internal/service"
)

func handleUpload(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		path := r.URL.Query().Get("path")
		if path == "" {
			writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "path query param required"})
			return
		}
		src := r.URL.Query().Get("src")
		if src == "" {
			src = "upload"
		}
		label := r.URL.Query().Get("label")

		data, err := io.ReadAll(io.LimitReader(r.Body, 64<<20))
		if err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
			return
		}

		doc, err := svc.Upload(ctx, src, path, data, label, nil)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, doc)
	}
}

func handleGetDocument(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		doc, err := svc.Documents.Get(ctx, r.PathValue("id"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, doc)
	}
}

func handleDeleteDocument(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := svc.DeleteDocument(ctx, r.PathValue("id")); err != nil {
			writeError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleConfigureParser(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
			return
		}
		cfg, err := svc.ConfigureParser(ctx, r.PathValue("id"), raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, cfg)
	}
}

func handleConfigureChunker(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
			return
		}
		cfg, err := svc.ConfigureChunker(ctx, r.PathValue("id"), raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, cfg)
	}
}

type previewRequest struct {
	ParseConfig []byte `json:"parse_config"`
	ChunkConfig []byte `json:"chunk_config"`
}

func handlePreview(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docID := r.PathValue("id")
		doc, err := svc.Documents.Get(ctx, docID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		data, err := svc.DocStore.Read(ctx, doc.StoragePath)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		var req previewRequest
		if r.ContentLength > 0 {
			if err := decodeJSON(r, &req); err != nil {
				writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
		}

		chunks, err := svc.Preview(ctx, doc.Path, data, req.ParseConfig, req.ChunkConfig)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, map[string]any{"chunks": chunks})
	}
}

type embedRequest struct {
	CollectionID string `json:"collection_id"`
}

func handleEmbed(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req embedRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := svc.Embed(ctx, r.PathValue("id"), req.CollectionID); err != nil {
			writeError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
