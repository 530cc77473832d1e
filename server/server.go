// Package server exposes an imgfilter.Processor over HTTP: images are uploaded,
// transformed by name and downloaded from the output directory.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sunshineplan/imgfilter"
	"github.com/sunshineplan/utils/log"
)

const defaultMaxUpload = 32 << 20

var errBadName = errors.New("invalid file name")

// Server routes upload, apply and download requests to a Processor.
type Server struct {
	processor *imgfilter.Processor
	router    *mux.Router
	MaxUpload int64
}

// New creates a server backed by p.
func New(p *imgfilter.Processor) *Server {
	s := &Server{processor: p, router: mux.NewRouter(), MaxUpload: defaultMaxUpload}
	s.router.HandleFunc("/upload", s.upload).Methods(http.MethodPost)
	s.router.HandleFunc("/apply", s.apply).Methods(http.MethodPost)
	s.router.HandleFunc("/download/{name}", s.download).Methods(http.MethodGet)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name, err := cleanName(header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := os.MkdirAll(s.processor.InputDir, 0755); err != nil {
		log.Error("Failed to create directory", "path", s.processor.InputDir, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	input, _ := s.processor.Paths(name)
	f, err := os.Create(input)
	if err != nil {
		log.Error("Failed to create file", "name", input, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()
	if _, err := io.Copy(f, file); err != nil {
		log.Error("Failed to save upload", "name", input, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	log.Info("Uploaded", "name", name)
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	name, err := cleanName(r.FormValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	op, err := imgfilter.ParseOperation(r.FormValue("operation"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.processor.Process(name, op); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		log.Error("Failed to process image", "name", name, "operation", op, "error", err)
		http.Error(w, "failed to process image", http.StatusInternalServerError)
		return
	}
	log.Info("Processed", "name", name, "operation", op)
	writeJSON(w, http.StatusOK, map[string]string{"output": name, "operation": op.String()})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	name, err := cleanName(mux.Vars(r)["name"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, output := s.processor.Paths(name)
	f, err := os.Open(output)
	if err != nil {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// cleanName reduces a client supplied name to a plain base name.
func cleanName(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "" || name == "." || name == ".." || name == "/" || strings.HasPrefix(name, ".") {
		return "", errBadName
	}
	return name, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
