package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"blogsearch/internal/anchor"
	"blogsearch/internal/domain"
)

// Catalog is what the API searches and lists
type Catalog interface {
	Search(locale, query string) []domain.SearchResult
	Posts(locale string) []domain.PostRecord
	Locales() []string
	Counts() map[string]int
	BasePath() string
}

// Limits bound the number of search results per response
type Limits struct {
	Default int
	Max     int
}

// Handler implements the search API endpoints
type Handler struct {
	catalog Catalog
	limits  Limits
	started time.Time
	logger  *slog.Logger
}

// NewHandler creates a Handler. Zero limits fall back to 20 and 100.
func NewHandler(catalog Catalog, limits Limits) *Handler {
	if limits.Default <= 0 {
		limits.Default = 20
	}
	if limits.Max < limits.Default {
		limits.Max = max(100, limits.Default)
	}
	return &Handler{
		catalog: catalog,
		limits:  limits,
		started: time.Now(),
		logger:  slog.Default().With("component", "api"),
	}
}

// SearchResponse is the body of GET /api/search
type SearchResponse struct {
	Query   string       `json:"query"`
	Locale  string       `json:"locale"`
	Total   int          `json:"total"`
	Results []ResultJSON `json:"results"`
}

// ResultJSON is one search hit with its resolved deep link
type ResultJSON struct {
	domain.PostMetadata
	Excerpt            string `json:"excerpt"`
	HighlightedTitle   string `json:"highlighted_title"`
	HighlightedExcerpt string `json:"highlighted_excerpt"`
	MatchedOffset      *int   `json:"matched_offset"`
	Section            string `json:"section,omitempty"`
	URL                string `json:"url"`
}

// NewResultJSON converts a result, resolving its link under basePath
func NewResultJSON(basePath string, r domain.SearchResult) ResultJSON {
	out := ResultJSON{
		PostMetadata:       r.PostMetadata,
		Excerpt:            r.Excerpt,
		HighlightedTitle:   r.HighlightedTitle,
		HighlightedExcerpt: r.HighlightedExcerpt,
		MatchedOffset:      r.MatchedOffset,
		URL:                anchor.Target(basePath, r),
	}
	if h, ok := anchor.Heading(r); ok {
		out.Section = h.Text
	}
	return out
}

// Search handles GET /api/search?q=&lang=&limit=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := h.limits.Default
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, h.limits.Max)
	}

	loc := LocaleFrom(r.Context())
	results := h.catalog.Search(loc, query)

	resp := SearchResponse{
		Query:   query,
		Locale:  loc,
		Total:   len(results),
		Results: make([]ResultJSON, 0, min(limit, len(results))),
	}
	for i, res := range results {
		if i == limit {
			break
		}
		resp.Results = append(resp.Results, NewResultJSON(h.catalog.BasePath(), res))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type postJSON struct {
	domain.PostMetadata
	URL      string                `json:"url"`
	Headings []domain.HeadingEntry `json:"headings,omitempty"`
}

// Posts handles GET /api/posts?lang=
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	loc := LocaleFrom(r.Context())
	posts := h.catalog.Posts(loc)

	out := make([]postJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, postJSON{
			PostMetadata: p.Metadata,
			URL:          anchor.PostPath(h.catalog.BasePath(), p.Metadata.Slug),
			Headings:     p.Headings,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"locale": loc,
		"total":  len(out),
		"posts":  out,
	})
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"locales": h.catalog.Locales(),
		"posts":   h.catalog.Counts(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
