package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/classcanvas/classcanvas/pkg/buildinfo"
	"github.com/classcanvas/classcanvas/pkg/cache"
	"github.com/classcanvas/classcanvas/pkg/errors"
	"github.com/classcanvas/classcanvas/pkg/parsers"
	"github.com/classcanvas/classcanvas/pkg/pipeline"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatSVGEmbed: "image/svg+xml",
	pipeline.FormatDOT:      "text/vnd.graphviz",
	pipeline.FormatGVSVG:    "image/svg+xml",
	pipeline.FormatJSON:     "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

// handleParse parses uploaded sources and responds with the diagram JSON.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	files, err := s.uploadedFiles(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	runner := s.runnerFor(r)
	d, err := runner.Parse(r.Context(), pipeline.Options{Files: files})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, _ = w.Write(data)
}

// handleRender runs the full pipeline and responds with one artifact. The
// format query parameter selects it; the default is SVG.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if !pipeline.ValidFormats[format] {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format))
		return
	}

	files, err := s.uploadedFiles(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	runner := s.runnerFor(r)
	result, err := runner.Execute(r.Context(), pipeline.Options{
		Files:   files,
		Formats: []string{format},
		Layout:  s.cfg.Layout,
		Theme:   s.cfg.Theme,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Diagram-Hash", result.DiagramHash)
	_, _ = w.Write(result.Artifacts[format])
}

// runnerFor scopes the cache keyer when the client supplies a session ID,
// so per-session entries can be purged independently.
func (s *Server) runnerFor(r *http.Request) *pipeline.Runner {
	session := r.Header.Get("X-Session-ID")
	if session == "" {
		return s.cfg.Runner
	}
	return &pipeline.Runner{
		Cache:  s.cfg.Runner.Cache,
		Keyer:  cache.NewScopedKeyer(s.cfg.Runner.Keyer, session),
		Logger: s.cfg.Runner.Logger,
	}
}

// uploadedFiles extracts the multipart "files" field into source files.
func (s *Server) uploadedFiles(r *http.Request) ([]parsers.SourceFile, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading multipart form")
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no files uploaded")
	}

	var files []parsers.SourceFile
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "opening upload %s", header.Filename)
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes))
		_ = f.Close()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading upload %s", header.Filename)
		}
		files = append(files, parsers.SourceFile{Name: header.Filename, Content: string(data)})
	}
	return files, nil
}

// writeError maps error codes to HTTP statuses and responds with a JSON
// error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidLanguage, errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errors.ErrCodeEmptyDiagram, errors.ErrCodeUnsupportedExtension:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	s.logger.Error("request failed",
		"id", RequestID(r.Context()),
		"path", r.URL.Path,
		"error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
