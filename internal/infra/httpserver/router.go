package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appvis "github.com/bryanwahyu/geo-gap-compass/internal/application/visibility"
	domai "github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/citations"
	domain "github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/prompt"
	"github.com/bryanwahyu/geo-gap-compass/internal/logger"
	"github.com/bryanwahyu/geo-gap-compass/internal/middleware"
)

// defaultTopics are charted by the gap heatmap when none are requested.
var defaultTopics = []string{"how-to", "comparison", "definition"}

const maxBodyBytes = 1 << 20

type Options struct {
	CORSOrigins        []string
	RateLimitPerMinute int
	// APIKeys enables bearer auth when non-empty.
	APIKeys    map[string]string
	MaxPrompts int
	Metrics    *middleware.Metrics
	Health     map[string]middleware.HealthChecker
	Log        *zap.Logger
}

type Router struct {
	svc        *appvis.Service
	log        *zap.Logger
	maxPrompts int
}

func NewRouter(svc *appvis.Service, opts Options) http.Handler {
	r := &Router{svc: svc, log: logger.OrNop(opts.Log), maxPrompts: opts.MaxPrompts}
	if r.maxPrompts < 1 {
		r.maxPrompts = 10
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.RequestLogger(r.log))
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	mux.Use(chimw.RequestSize(maxBodyBytes))
	if opts.RateLimitPerMinute > 0 {
		mux.Use(middleware.RateLimitByIP(opts.RateLimitPerMinute))
	}
	if len(opts.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.Health, svc.Pipeline.Live()))
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	mux.Route("/prompts", func(rt chi.Router) {
		rt.Post("/test", r.wrap(r.handlePromptTest))
		rt.Post("/single", r.wrap(r.handlePromptSingle))
		rt.Get("/templates", r.wrap(r.handleTemplates))
	})

	mux.Route("/citations", func(rt chi.Router) {
		rt.Get("/extract", r.wrap(r.handleExtract))
		rt.Get("/brand-missing", r.wrap(r.handleBrandMissing))
		rt.Get("/analyze-brand-presence", r.wrap(r.handleBrandPresence))
		rt.Get("/health", r.wrap(r.handleCitationsHealth))
	})

	mux.Post("/analyze_competitors/", r.wrap(r.handleCompetitors))
	mux.Get("/gap_heatmap/", r.wrap(r.handleGapHeatmap))
	mux.Post("/analyze_domains/", r.wrap(r.handleAnalyzeDomains))

	mux.Route("/insights", func(rt chi.Router) {
		rt.Get("/domain-stats", r.wrap(r.handleDomainStats))
		rt.Get("/domain-trends", r.wrap(r.handleDomainTrends))
	})

	mux.Route("/v1/runs", func(rt chi.Router) {
		rt.Get("/", r.wrap(r.handleRunList))
		rt.Get("/{id}", r.wrap(r.handleRunGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domai.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, errors.New("not found"))
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, errors.New("ai quota exceeded"))
		default:
			r.log.Error("request failed",
				zap.String("path", req.URL.Path),
				zap.String("request_id", chimw.GetReqID(req.Context())),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	_ = writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return domai.Invalid(fmt.Sprintf("malformed body: %v", err))
	}
	return nil
}

// brandParam sanitizes and validates a brand.
func brandParam(raw string) (string, error) {
	brand := middleware.SanitizeString(raw)
	if err := middleware.ValidateBrand(brand); err != nil {
		return "", domai.Invalid(err.Error())
	}
	return brand, nil
}

// listParam parses a comma separated list and bounds its length.
func listParam(name, raw string) ([]string, error) {
	items := domain.SplitList(middleware.SanitizeString(raw))
	if err := middleware.ValidateList(name, items); err != nil {
		return nil, domai.Invalid(err.Error())
	}
	return items, nil
}

func cleanList(name string, raw []string) ([]string, error) {
	return listParam(name, strings.Join(raw, ","))
}

func domainsParam(raw string) ([]string, error) {
	domains, err := listParam("domains", raw)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, domai.Invalid("no domains provided")
	}
	for _, d := range domains {
		if err := middleware.ValidateDomain(d); err != nil {
			return nil, domai.Invalid(err.Error())
		}
	}
	return domains, nil
}

// POST /prompts/test
// Body: {"brand": "Acme", "prompt_variations": ["..."], "subjects": ["how-to"]}
func (r *Router) handlePromptTest(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Brand            string   `json:"brand"`
		PromptVariations []string `json:"prompt_variations"`
		Subjects         []string `json:"subjects"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	brand, err := brandParam(body.Brand)
	if err != nil {
		return err
	}
	if err := middleware.ValidatePrompts(body.PromptVariations, r.maxPrompts); err != nil {
		return domai.Invalid(err.Error())
	}
	subjects, err := cleanList("subjects", body.Subjects)
	if err != nil {
		return err
	}

	view, err := r.svc.PromptTest(req.Context(), appvis.PromptTestCommand{
		Brand:    brand,
		Prompts:  body.PromptVariations,
		Subjects: subjects,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// POST /prompts/single
// Body: {"brand": "Acme", "prompt": "..."}
func (r *Router) handlePromptSingle(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Brand  string `json:"brand"`
		Prompt string `json:"prompt"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	brand, err := brandParam(body.Brand)
	if err != nil {
		return err
	}
	if err := middleware.ValidatePrompts([]string{body.Prompt}, 1); err != nil {
		return domai.Invalid(err.Error())
	}

	view, err := r.svc.Single(req.Context(), brand, body.Prompt)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /prompts/templates
func (r *Router) handleTemplates(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"templates":    prompt.Templates(),
		"prompt_types": prompt.DefaultPromptTypes,
		"max_prompts":  r.maxPrompts,
	})
}

// GET /citations/extract?text=
func (r *Router) handleExtract(w http.ResponseWriter, req *http.Request) error {
	text := req.URL.Query().Get("text")
	if text == "" {
		return domai.Invalid("text is required")
	}
	urls := citations.Extract(text)
	domains := make([]string, 0, len(urls))
	for _, u := range urls {
		domains = append(domains, citations.Domain(u))
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"urls":                 urls,
		"domains":              domains,
		"count":                len(urls),
		"original_text_length": len(text),
	})
}

// GET /citations/brand-missing?brand=&prompt_types=
func (r *Router) handleBrandMissing(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	brand, err := brandParam(q.Get("brand"))
	if err != nil {
		return err
	}
	types, err := listParam("prompt_types", q.Get("prompt_types"))
	if err != nil {
		return err
	}

	view, err := r.svc.BrandMissing(req.Context(), brand, types)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /citations/analyze-brand-presence?brand=&competitors=&topic=
func (r *Router) handleBrandPresence(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	brand, err := brandParam(q.Get("brand"))
	if err != nil {
		return err
	}
	competitors, err := listParam("competitors", q.Get("competitors"))
	if err != nil {
		return err
	}

	view, err := r.svc.BrandPresence(req.Context(), brand, competitors, middleware.SanitizeString(q.Get("topic")))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /citations/health
func (r *Router) handleCitationsHealth(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"live_provider": r.svc.Pipeline.Live(),
		"routes":        []string{"extract", "brand-missing", "analyze-brand-presence"},
	})
}

// POST /analyze_competitors/
// Body: {"company": "Acme", "competitors": ["Globex", "Initech"]}
func (r *Router) handleCompetitors(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Company     string   `json:"company"`
		Brand       string   `json:"brand"`
		Competitors []string `json:"competitors"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if body.Company == "" {
		body.Company = body.Brand
	}
	brand, err := brandParam(body.Company)
	if err != nil {
		return err
	}
	competitors, err := cleanList("competitors", body.Competitors)
	if err != nil {
		return err
	}

	view, err := r.svc.Competitors(req.Context(), brand, competitors)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /gap_heatmap/?brand=&topics=
func (r *Router) handleGapHeatmap(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	brand, err := brandParam(q.Get("brand"))
	if err != nil {
		return err
	}
	topics, err := listParam("topics", q.Get("topics"))
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		topics = defaultTopics
	}

	view, err := r.svc.GapHeatmap(req.Context(), brand, topics)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// POST /analyze_domains/
// Body: {"domains": "openai.com, github.com", "brand": "Acme"}
// Without a brand only the web lookup runs.
func (r *Router) handleAnalyzeDomains(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Domains string `json:"domains"`
		Brand   string `json:"brand"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	domains, err := domainsParam(body.Domains)
	if err != nil {
		return err
	}

	if strings.TrimSpace(body.Brand) == "" {
		view, err := r.svc.DomainStats(req.Context(), domains)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, view)
	}

	brand, err := brandParam(body.Brand)
	if err != nil {
		return err
	}
	view, err := r.svc.Domains(req.Context(), brand, domains)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /insights/domain-stats?domains=
func (r *Router) handleDomainStats(w http.ResponseWriter, req *http.Request) error {
	domains, err := domainsParam(req.URL.Query().Get("domains"))
	if err != nil {
		return err
	}
	view, err := r.svc.DomainStats(req.Context(), domains)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /insights/domain-trends?domains=
func (r *Router) handleDomainTrends(w http.ResponseWriter, req *http.Request) error {
	domains, err := domainsParam(req.URL.Query().Get("domains"))
	if err != nil {
		return err
	}
	trends, err := r.svc.DomainTrends(req.Context(), domains)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"trends":       trends,
		"generated_at": time.Now().UTC(),
	})
}

// GET /v1/runs?page=&page_size=
func (r *Router) handleRunList(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	runs, err := r.svc.ListRuns(req.Context(), page, middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, runs)
}

// GET /v1/runs/{id}
func (r *Router) handleRunGet(w http.ResponseWriter, req *http.Request) error {
	run, err := r.svc.GetRun(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, run)
}
