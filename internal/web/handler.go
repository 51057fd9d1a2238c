package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/quotegen/internal/middleware"
	"github.com/2beens/quotegen/internal/quotes"
	"github.com/2beens/quotegen/internal/telemetry/metrics"
	"github.com/2beens/quotegen/internal/telemetry/tracing"
	"github.com/2beens/quotegen/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=web_test
type quoteSelector interface {
	Select(ctx context.Context, query string) ([]quotes.Quote, error)
}

type topicsProvider interface {
	Topics() []string
}

type HandlerParams struct {
	Selector          quoteSelector
	Topics            topicsProvider
	Redis             healthPinger // nil when redis is not configured
	MetricsManager    *metrics.Manager // nil disables search metrics
	SuggestedTopics   []string
	PresentationDelay time.Duration
	VersionInfo       string
	// Float64 feeds the decorative particles, defaults to math/rand.Float64
	Float64 func() float64
}

type Handler struct {
	selector          quoteSelector
	topics            topicsProvider
	redis             healthPinger
	metrics           *metrics.Manager
	suggestedTopics   []string
	presentationDelay time.Duration
	versionInfo       string
	randFloat         func() float64
	page              *template.Template
}

func NewHandler(params HandlerParams) *Handler {
	float64Fn := params.Float64
	if float64Fn == nil {
		float64Fn = rand.Float64
	}

	page := template.Must(
		template.New("index.html").
			Funcs(template.FuncMap{"join": strings.Join}).
			ParseFS(templatesFS, "templates/index.html"),
	)

	return &Handler{
		selector:          params.Selector,
		topics:            params.Topics,
		redis:             params.Redis,
		metrics:           params.MetricsManager,
		suggestedTopics:   params.SuggestedTopics,
		presentationDelay: params.PresentationDelay,
		versionInfo:       params.VersionInfo,
		randFloat:         float64Fn,
		page:              page,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	rateLimitPerMin int,
	allowedOrigins []string,
) {
	mainRouter.HandleFunc("/", handler.handleIndex).Methods("GET").Name("index")
	mainRouter.Handle(
		"/quotes",
		middleware.RateLimit(rateLimiter, "quotes", rateLimitPerMin, handler.metrics)(http.HandlerFunc(handler.handleQuotes)),
	).Methods("GET", "POST").Name("quotes")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/version", handler.handleVersion).Methods("GET").Name("version")

	apiRouter := mainRouter.PathPrefix("/api").Subrouter()
	apiRouter.Use(
		middleware.Cors(allowedOrigins),
		middleware.RateLimit(rateLimiter, "api", rateLimitPerMin, handler.metrics),
	)
	apiRouter.HandleFunc("/quotes", handler.handleAPIQuotes).Methods("GET", "OPTIONS").Name("api-quotes")
	apiRouter.HandleFunc("/topics", handler.handleAPITopics).Methods("GET", "OPTIONS").Name("api-topics")
}

func (handler *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	handler.renderPage(w, handler.newPageData(""), http.StatusOK)
}

func (handler *Handler) handleQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.quotes")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("quotes search failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	query := r.Form.Get("topic")
	data := handler.newPageData(query)

	// blank input never reaches the selector
	if strings.TrimSpace(query) == "" {
		handler.recordSearch(metrics.OutcomeEmptyQuery, 0)
		data.Error = EmptyQueryMessage
		handler.renderPage(w, data, http.StatusBadRequest)
		return
	}

	if err := handler.presentationWait(ctx); err != nil {
		// client went away or sent a new search, nothing to render
		log.Tracef("quotes search for [%s] abandoned: %s", query, err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	found, err := handler.selector.Select(ctx, query)
	if err != nil {
		message, status, outcome := handler.describeSelectError(err)
		if outcome == "" {
			log.Errorf("select quotes for [%s]: %s", query, err)
			span.SetStatus(codes.Error, err.Error())
			http.Error(w, "internal error", status)
			return
		}
		handler.recordSearch(outcome, 0)
		data.Error = message
		handler.renderPage(w, data, status)
		return
	}

	span.SetAttributes(attribute.Int("quotes.returned", len(found)))
	handler.recordSearch(metrics.OutcomeFound, len(found))

	data.Quotes = found
	handler.renderPage(w, data, http.StatusOK)
}

func (handler *Handler) handleAPIQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.api.quotes")
	defer span.End()

	query := r.URL.Query().Get("topic")
	if strings.TrimSpace(query) == "" {
		handler.recordSearch(metrics.OutcomeEmptyQuery, 0)
		pkg.WriteJSON(w, http.StatusBadRequest, apiError{
			Error:   "empty_query",
			Message: EmptyQueryMessage,
		})
		return
	}

	found, err := handler.selector.Select(ctx, query)
	if err != nil {
		message, status, outcome := handler.describeSelectError(err)
		if outcome == "" {
			log.Errorf("api: select quotes for [%s]: %s", query, err)
			span.SetStatus(codes.Error, err.Error())
			pkg.WriteJSON(w, status, apiError{Error: "internal", Message: "internal error"})
			return
		}
		handler.recordSearch(outcome, 0)
		pkg.WriteJSON(w, status, apiError{Error: outcome, Message: message})
		return
	}

	handler.recordSearch(metrics.OutcomeFound, len(found))

	pkg.WriteJSON(w, http.StatusOK, quotesResponse{
		Query:  query,
		Quotes: found,
	})
}

func (handler *Handler) handleAPITopics(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, topicsResponse{
		Topics:      handler.topics.Topics(),
		Suggestions: handler.suggestedTopics,
	})
}

func (handler *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

// describeSelectError maps selector errors to the user message, status code
// and search outcome label. An empty outcome means an unexpected error.
func (handler *Handler) describeSelectError(err error) (string, int, string) {
	var noMatchErr *quotes.NoMatchError
	switch {
	case errors.As(err, &noMatchErr):
		return NoMatchMessage(noMatchErr.Query, handler.suggestedTopics), http.StatusNotFound, metrics.OutcomeNoMatch
	case errors.Is(err, quotes.ErrEmptyQuery):
		return EmptyQueryMessage, http.StatusBadRequest, metrics.OutcomeEmptyQuery
	default:
		return "", http.StatusInternalServerError, ""
	}
}

// recordSearch counts the search outcome, and the result size for found ones.
func (handler *Handler) recordSearch(outcome string, resultSize int) {
	if handler.metrics == nil {
		return
	}
	handler.metrics.Search(outcome)
	if outcome == metrics.OutcomeFound {
		handler.metrics.HistogramResultSize.Observe(float64(resultSize))
	}
}

func (handler *Handler) presentationWait(ctx context.Context) error {
	if handler.presentationDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(handler.presentationDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (handler *Handler) newPageData(query string) pageData {
	return pageData{
		Query:       query,
		Suggestions: handler.suggestedTopics,
		Particles:   newParticles(handler.randFloat),
	}
}

func (handler *Handler) renderPage(w http.ResponseWriter, data pageData, status int) {
	var sb strings.Builder
	if err := handler.page.Execute(&sb, data); err != nil {
		log.Errorf("render page: %s", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.HTML, sb.String(), status)
}
