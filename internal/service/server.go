// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package service exposes the document conversion HTTP surface: a home
// page with an upload form, the conversion endpoint and a download
// endpoint for produced files.
package service

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nicholasgasior/docverter-go/internal/convert"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds the service's filesystem and network settings. Passing it
// explicitly keeps concurrent test servers isolated.
type Config struct {
	// Addr is the listen address, e.g. ":25041".
	Addr string
	// TempDir is where uploads are staged under their original names.
	// Uploads are never cleaned up by the service.
	TempDir string
	// OutputDir is the base directory served by the download endpoint and
	// the root for relative output paths.
	OutputDir string
}

// Server is the document conversion HTTP service.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	mux       *http.ServeMux
	templates *template.Template
}

// New creates a Server with the given configuration.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		templates: tmpl,
	}

	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("POST /convert", s.handleConvert)
	s.mux.Handle("GET /download/", http.StripPrefix("/download/", http.FileServer(http.Dir(cfg.OutputDir))))

	return s, nil
}

// Handler returns the service's HTTP handler with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		s.logger.Error("render home page", "err", err)
	}
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}

	files := r.MultipartForm.File["files"]
	formats := r.Form["formats"]
	outputPath := r.FormValue("output_path")
	switch {
	case outputPath == "":
		outputPath = s.cfg.OutputDir
	case !filepath.IsAbs(outputPath):
		outputPath = filepath.Join(s.cfg.OutputDir, outputPath)
	}

	if len(files) == 0 || len(formats) == 0 {
		s.writeError(w, r, http.StatusBadRequest, errors.New("files and formats are required"))
		return
	}

	inputPaths, err := s.stageUploads(files)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	if err := convert.ConvertDocuments(inputPaths, outputPath, formats, s.logger); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	produced, err := listFiles(outputPath)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	// Rebase file paths onto OutputDir so they resolve under /download/.
	if rel, err := filepath.Rel(s.cfg.OutputDir, outputPath); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		for i, f := range produced {
			produced[i] = filepath.ToSlash(filepath.Join(rel, f))
		}
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Documents converted successfully",
			"files":   produced,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "success.html", map[string]any{"Files": produced}); err != nil {
		s.logger.Error("render success page", "err", err)
	}
}

// stageUploads writes each upload into TempDir under its original base
// name. A repeated name overwrites the earlier upload (last write wins).
func (s *Server) stageUploads(files []*multipart.FileHeader) ([]string, error) {
	if err := os.MkdirAll(s.cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	var inputPaths []string
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}

		dstPath := filepath.Join(s.cfg.TempDir, filepath.Base(fh.Filename))
		dst, err := os.Create(dstPath)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("stage upload %s: %w", fh.Filename, err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return nil, fmt.Errorf("stage upload %s: %w", fh.Filename, err)
		}

		inputPaths = append(inputPaths, dstPath)
	}
	return inputPaths, nil
}

// listFiles walks dir recursively and returns sorted relative paths.
func listFiles(dir string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list output files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// wantsJSON reports whether the client asked for a JSON response. The
// request Content-Type of a multipart post is never application/json, so
// the Accept header is the deciding signal for API clients.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)

	if wantsJSON(r) {
		writeJSON(w, status, map[string]any{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<h1>Error: %s</h1>\n", template.HTMLEscapeString(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
