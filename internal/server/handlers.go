package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/mundap/internal/models"
	"github.com/hyperjump/mundap/internal/storage"
)

// maxUploadBytes bounds multipart uploads.
const maxUploadBytes = 64 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	// The form may pin the document id; otherwise the original filename is
	// used, and an empty filename gets a generated id.
	id := r.FormValue("id")
	if id == "" {
		id = filepath.Base(header.Filename)
		if id == "." || id == "/" {
			id = ""
		}
	}

	s.logger.Debug("upload request", zap.String("id", id), zap.Int("bytes", len(content)))
	result, err := s.service.Ingest(r.Context(), id, content, filepath.Ext(header.Filename))
	if err != nil {
		s.logger.Error("ingest failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.service.List(r.Context())
	if err != nil {
		s.logger.Error("list failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []models.DocumentInfo{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	text, err := s.service.Content(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("content failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"document_id": id, "content": text})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if err := s.service.Remove(r.Context(), id); err != nil {
		s.logger.Error("deletion failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == "" || req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "document_id and question are required")
		return
	}
	s.logger.Debug("chat request",
		zap.String("document_id", req.DocumentID),
		zap.String("style", req.Style))
	ans, err := s.service.Ask(r.Context(), req)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("chat failed", zap.String("document_id", req.DocumentID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, ans)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Status(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"documents":        st.Documents,
		"cached_chunks":    st.CachedChunks,
		"resident_indexes": st.ResidentIndexes,
		"config": map[string]interface{}{
			"chunk_size":           s.config.Chat.ChunkSize,
			"chunk_overlap":        s.config.Chat.ChunkOverlap,
			"embedding_model":      s.config.Provider.Embedding.Model,
			"embedding_dimensions": s.config.Provider.Embedding.Dimensions,
			"llm_model":            s.config.Provider.LLM.Model,
			"documents_path":       s.config.Storage.DocumentsPath,
			"chunk_cache_path":     s.config.Storage.ChunkCachePath,
		},
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DocumentsPath,
		s.config.Storage.ChunkCachePath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
