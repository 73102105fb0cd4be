package httpapi

import (
	"net/http"

	"chonkit/internal/repository"
	"chonkit/internal/service"
)

type createCollectionRequest struct {
	Name     string `json:"name"`
	Model    string `json:"model"`
	Embedder string `json:"embedder"`
	Provider string `json:"provider"`
}

func handleCreateCollection(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req createCollectionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		col, err := svc.Collections.Insert(ctx, repository.Collection{
			Name: req.Name, Model: req.Model, Embedder: req.Embedder, Provider: req.Provider,
		})
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, col)
	}
}

func handleListCollections(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cols, err := svc.Collections.List(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, cols)
	}
}

func handleDeleteCollection(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := svc.DeleteCollection(ctx, r.PathValue("id")); err != nil {
			writeError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

func handleSearch(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req searchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.K <= 0 {
			req.K = 10
		}
		hits, err := svc.Search(ctx, r.PathValue("id"), req.Query, req.K)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, map[string]any{"hits": hits})
	}
}
