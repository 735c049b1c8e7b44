package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	folioerrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/contact"
	"github.com/vango-dev/folio/pkg/fieldstore"
	"github.com/vango-dev/folio/pkg/page"
	"github.com/vango-dev/folio/pkg/render"
	"github.com/vango-dev/folio/pkg/site"
)

// handlePage renders the page with the visitor's persisted form values.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	visitor := s.ensureVisitor(w, r)

	values, err := contact.LoadValues(r.Context(), fieldstore.NewBucket(s.opts.Store, visitor))
	if err != nil {
		ferr := folioerrors.New(folioerrors.CodeStoreFailed).Wrap(err)
		s.logger.Warn("load form values failed", ferr.LogAttrs()...)
	}

	body := site.Page(site.Content{
		Profile:  s.profile,
		Projects: page.Projects(),
		Values:   values,
	})

	var buf bytes.Buffer
	renderer := render.NewRenderer(render.RendererConfig{})
	err = renderer.RenderPage(&buf, render.PageData{
		Body:         body,
		Title:        s.profile.Name + " | " + s.profile.Role,
		Description:  s.profile.Tagline,
		HeadScripts:  []string{site.TailwindCDN},
		Styles:       []string{site.Styles},
		BodyClass:    "bg-gray-50 text-gray-800",
		ClientScript: s.resolver.Asset(clientAsset),
		BodyData: map[string]string{
			"ws":       "/_folio/ws",
			"contract": strings.Join(page.Selectors(), "|"),
		},
	})
	if err != nil {
		ferr := folioerrors.New(folioerrors.CodeWriteFailed).Wrap(err)
		s.logger.Error("render page failed", ferr.LogAttrs()...)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// handleClient serves the thin client with a content hash ETag.
func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", s.etag)
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
	if match := r.Header.Get("If-None-Match"); match != "" && match == s.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(s.clientJS)
}

// clientAsset is the manifest name of the embedded thin client.
const clientAsset = "folio.js"

// handleAsset serves fingerprinted assets. Their names change with their
// content, so they are cached without revalidation.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	source, ok := s.assets.Source(chi.URLParam(r, "asset"))
	if !ok || source != clientAsset {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(s.clientJS)
}

// handleProjects returns the project catalog.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, page.Projects())
}

// handleProject returns one project by index.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
		return
	}
	project, err := page.LookupProject(index)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// handleHealth reports liveness and the live session count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
