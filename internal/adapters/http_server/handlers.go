package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"essex_travel/internal/app"
	"essex_travel/internal/domain"
	"essex_travel/internal/routes"
	"essex_travel/internal/sitemap"
	"essex_travel/internal/tools/countdown"
)

const maxBody = 64 << 10

type Handlers struct {
	Pages *app.PageService
	Leads *app.LeadService
	Tools *app.ToolService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(s.timeout))

		r.Get("/", h.page)
		for _, k := range domain.Kinds() {
			r.Get(k.Prefix(), h.page)
			r.Get(k.Prefix()+"/{slug}", h.page)
		}
		r.Get(routes.LocationsPrefix, h.page)
		r.Get(routes.LocationsPrefix+"/{city}", h.page)
		r.Get(routes.LocationsPrefix+"/{city}/{service}", h.page)

		r.Get("/sitemap.xml", h.sitemap)
		r.Get("/robots.txt", h.robots)
		r.Get("/schema/*", h.schema)

		r.Post("/api/contact", h.contact)
		r.Route("/api/tools/{tool}", func(r chi.Router) {
			r.Use(Session)
			r.Get("/", h.getTool)
			r.Put("/", h.putTool)
			r.Delete("/", h.resetTool)
		})
	})

	s.mux.With(Session).Get("/api/countdown/stream", h.countdownStream)
	s.mux.NotFound(h.notFound)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func etagOf(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

// writeCached sends body with an ETag and answers 304 when the client
// already holds this version.
func writeCached(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	etag := etagOf(body)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("write response body failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) page(w http.ResponseWriter, r *http.Request) {
	p, err := h.Pages.Page(r.Context(), r.URL.Path)
	if errors.Is(err, domain.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("page build failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "page could not be built")
		return
	}
	writeCached(w, r, "text/html; charset=utf-8", p.HTML)
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(h.Pages.NotFound())
}

// schema serves the JSON-LD of a page: /schema/deals/x.json describes
// /deals/x and /schema/index.json the home page.
func (h *Handlers) schema(w http.ResponseWriter, r *http.Request) {
	rest, ok := strings.CutSuffix(chi.URLParam(r, "*"), ".json")
	if !ok || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "schema documents end in .json")
		return
	}
	path := "/" + rest
	if rest == "index" {
		path = "/"
	}
	raw, err := h.Pages.Schema(r.Context(), path)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no page at "+path)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("schema build failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "schema could not be built")
		return
	}
	writeCached(w, r, "application/ld+json", raw)
}

func (h *Handlers) sitemap(w http.ResponseWriter, r *http.Request) {
	var buf strings.Builder
	if err := sitemap.WriteXML(&buf, sitemap.Entries(h.Pages.Catalog(), h.Pages.Site().URL)); err != nil {
		log.Error().Err(err).Msg("sitemap render failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCached(w, r, "application/xml; charset=utf-8", []byte(buf.String()))
}

func (h *Handlers) robots(w http.ResponseWriter, r *http.Request) {
	var buf strings.Builder
	if err := sitemap.WriteRobots(&buf, h.Pages.Site().URL); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCached(w, r, "text/plain; charset=utf-8", []byte(buf.String()))
}

// contact accepts the lead form as JSON or as a classic form post.
func (h *Handlers) contact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	payload := map[string]any{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be a JSON object")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be a form")
			return
		}
		for k := range r.PostForm {
			payload[k] = r.PostForm.Get(k)
		}
	}
	if _, ok := payload["source_path"]; !ok {
		if ref := r.Referer(); ref != "" {
			payload["source_path"] = ref
		}
	}

	lead, err := h.Leads.Submit(r.Context(), payload)
	if app.IsInvalid(err) {
		writeProblem(w, http.StatusBadRequest, "Invalid lead", err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("lead submit failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "your request could not be saved, please call us")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": lead.ID, "status": "received"})
}

func (h *Handlers) toolResult(w http.ResponseWriter, v any, err error) {
	switch {
	case errors.Is(err, app.ErrUnknownTool):
		writeProblem(w, http.StatusNotFound, "Unknown tool", err.Error())
	case errors.Is(err, app.ErrInvalidState):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid tool state", err.Error())
	case err != nil:
		log.Error().Err(err).Msg("tool request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	default:
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, v)
	}
}

func (h *Handlers) getTool(w http.ResponseWriter, r *http.Request) {
	v, err := h.Tools.Get(r.Context(), SessionID(r), chi.URLParam(r, "tool"))
	h.toolResult(w, v, err)
}

func (h *Handlers) putTool(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Body too large", fmt.Sprintf("tool state is limited to %d bytes", maxBody))
		return
	}
	v, err := h.Tools.Put(r.Context(), SessionID(r), chi.URLParam(r, "tool"), body)
	h.toolResult(w, v, err)
}

func (h *Handlers) resetTool(w http.ResponseWriter, r *http.Request) {
	v, err := h.Tools.Reset(r.Context(), SessionID(r), chi.URLParam(r, "tool"))
	h.toolResult(w, v, err)
}

// countdownStream pushes the remaining time as server-sent events until
// the client leaves or the target passes.
func (h *Handlers) countdownStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusNotImplemented, "Streaming unsupported", "")
		return
	}
	c := h.Tools.Countdown(r.Context(), SessionID(r))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	countdown.Run(r.Context(), c, h.Tools.Now, countdown.TickInterval, func(rem countdown.Remaining) {
		b, _ := json.Marshal(rem)
		if _, err := fmt.Fprintf(w, "event: tick\ndata: %s\n\n", b); err != nil {
			return
		}
		flusher.Flush()
	})
	_, _ = fmt.Fprintf(w, "event: done\ndata: {\"at\":%q}\n\n", h.Tools.Now().UTC().Format(time.RFC3339))
	flusher.Flush()
}
