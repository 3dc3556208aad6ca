package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/blob"
	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/model"
)

func registerStorageRoutes(r chi.Router, s *Server) {
	r.Get("/storage", s.handleListStorage)
	r.Get("/storage/{ref}", s.handleGetStorage)
	r.Put("/storage/{ref}", s.handlePutStorage)
	r.Delete("/storage/{ref}", s.handleDeleteStorage)
	r.Get("/storage/{ref}/content", s.handleGetStorageContent)
}

func (s *Server) handleListStorage(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	rows, err := ac.Store.ListStorage()
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) decodeStorageRef(w http.ResponseWriter, r *http.Request) (model.StorageKey, bool) {
	ref := model.StorageRef(chi.URLParam(r, "ref"))
	key, err := ref.Decode()
	if err != nil {
		writeError(w, apperr.BadRequest("malformed storage ref: %v", err))
		return "", false
	}
	return key, true
}

func (s *Server) handleGetStorage(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	key, ok := s.decodeStorageRef(w, r)
	if !ok {
		return
	}
	entry, err := ac.Store.GetStorage(key)
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Storage", key.String()))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handlePutStorage(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	key, ok := s.decodeStorageRef(w, r)
	if !ok {
		return
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperr.BadRequest("read body: %v", err))
		return
	}
	compressed, err := blob.Compress(raw)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	payload := model.StorageSet{
		Key:             key,
		Description:     r.Header.Get("X-Storage-Description"),
		Hash:            blob.ComputeHash(raw),
		CompressedBytes: compressed,
		OriginalSize:    len(raw),
	}
	if _, _, err := s.appendEvent(ac, model.EventStorageSet, payload); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, model.StorageEntry{Key: key, Description: payload.Description, Hash: payload.Hash})
}

func (s *Server) handleDeleteStorage(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	key, ok := s.decodeStorageRef(w, r)
	if !ok {
		return
	}
	payload := model.StorageRemoved{Key: key}
	if _, _, err := s.appendEvent(ac, model.EventStorageRemoved, payload); err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetStorageContent(w http.ResponseWriter, r *http.Request) {
	ac, _ := authFromContext(r.Context())
	key, ok := s.decodeStorageRef(w, r)
	if !ok {
		return
	}
	entry, err := ac.Store.GetStorage(key)
	if err == brain.ErrNotFound {
		writeError(w, apperr.NotFound("Storage", key.String()))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	compressed, _, ok2, err := ac.Store.GetBlob(entry.Hash)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if !ok2 {
		writeError(w, apperr.DataIntegrity("blob missing for hash %s", entry.Hash))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(compressed)
}
