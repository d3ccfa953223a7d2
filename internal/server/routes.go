package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Serhii-Leonenko/ragserver/internal/rag"
	"github.com/Serhii-Leonenko/ragserver/internal/vectordb"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

type uploadResponse struct {
	Message        string `json:"message"`
	Filename       string `json:"filename"`
	TotalDocuments int    `json:"total_documents"`
}

// handleUpload accepts a multipart PDF upload, saves the original, extracts
// and chunks its text, and indexes the chunks. An upload either fully
// extracts+chunks+indexes or reports failure; on a late failure the saved
// file and any indexed chunks are rolled back.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Slack over the limit so an oversize upload is still parseable enough
	// to be rejected with a 400 instead of a connection error.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize+1024*1024)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		respondError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	if header.Size > s.cfg.MaxUploadSize {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("File size exceeds maximum allowed size of %.1f MB", float64(s.cfg.MaxUploadSize)/(1024*1024)))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error reading upload: "+err.Error())
		return
	}

	storedPath, err := s.storage.Save(content, header.Filename)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error saving upload: "+err.Error())
		return
	}

	result, err := s.processor.Process(storedPath, header.Filename)
	if err != nil {
		s.discardUpload(storedPath)
		respondError(w, http.StatusInternalServerError, "Error processing PDF: "+err.Error())
		return
	}

	ctx := r.Context()
	doc := vectordb.ProcessedDocument{Filename: result.Filename, Sentences: result.Sentences}
	if err := s.store.AddDocument(ctx, doc); err != nil {
		s.discardUpload(storedPath)
		respondError(w, http.StatusInternalServerError, "Error indexing PDF: "+err.Error())
		return
	}

	if err := s.registry.RecordUpload(ctx, result.Filename, storedPath, int64(len(content)), len(result.Sentences)); err != nil {
		// Keep index and registry consistent: unwind the chunks just added.
		if delErr := s.store.DeleteByFilename(ctx, result.Filename); delErr != nil {
			log.Printf("server: unwinding index for %s: %v", result.Filename, delErr)
		}
		s.discardUpload(storedPath)
		respondError(w, http.StatusInternalServerError, "Error recording upload: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, uploadResponse{
		Message:        "PDF uploaded and processed successfully",
		Filename:       header.Filename,
		TotalDocuments: s.store.Count(),
	})
}

func (s *Server) discardUpload(path string) {
	if err := s.storage.Delete(path); err != nil {
		log.Printf("server: discarding upload %s: %v", path, err)
	}
}

type queryRequest struct {
	Question string `json:"question"`
	TopK     *int   `json:"top_k"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	topK := 0
	if req.TopK != nil {
		if *req.TopK < rag.MinTopK || *req.TopK > rag.MaxTopK {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("top_k must be between %d and %d", rag.MinTopK, rag.MaxTopK))
			return
		}
		topK = *req.TopK
	}

	answer, err := s.rag.Query(r.Context(), req.Question, topK)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error processing query: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, answer)
}

type statsResponse struct {
	TotalDocuments int      `json:"total_documents"`
	TotalChunks    int      `json:"total_chunks"`
	UniqueFiles    []string `json:"unique_files"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	files := s.store.Filenames()
	if files == nil {
		files = []string{}
	}

	respondJSON(w, http.StatusOK, statsResponse{
		TotalDocuments: len(files),
		TotalChunks:    s.store.Count(),
		UniqueFiles:    files,
	})
}

// handleDeleteDocument removes a document's chunks from the index and its
// recorded originals from disk. The registry supplies the on-disk paths, so
// files renamed at upload time are still found.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if decoded, err := url.PathUnescape(filename); err == nil {
		filename = decoded
	}
	if filename == "" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	ctx := r.Context()

	paths, err := s.registry.StoredPaths(ctx, filename)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error deleting document: "+err.Error())
		return
	}

	if err := s.store.DeleteByFilename(ctx, filename); err != nil {
		respondError(w, http.StatusInternalServerError, "Error deleting document: "+err.Error())
		return
	}

	// Best-effort file removal; a missing file is not a failure.
	for _, p := range paths {
		if err := s.storage.Delete(p); err != nil {
			log.Printf("server: deleting file %s: %v", p, err)
		}
	}

	if err := s.registry.DeleteByFilename(ctx, filename); err != nil {
		respondError(w, http.StatusInternalServerError, "Error deleting document: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Document '%s' deleted successfully", filename),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.store.Reset(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "Error resetting database: "+err.Error())
		return
	}
	if err := s.registry.Reset(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "Error resetting database: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Vector database reset successfully",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"app":     s.cfg.AppName,
		"version": s.cfg.AppVersion,
	})
}
