package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TransferDaily/internal/app"
	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/pkg/config"
)

// ReadinessChecker reports the health of each backing dependency.
type ReadinessChecker interface {
	Check(ctx context.Context) map[string]error
}

// Deps is everything the router needs.
type Deps struct {
	Config     *config.Config
	Site       *app.SiteService
	Admin      *app.AdminService
	Publishing *app.PublishingService
	Auth       *app.AdminAuthService
	Readiness  ReadinessChecker
}

func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// NewRouter builds the public site, the admin back-office and the
// operational endpoints on one router.
func NewRouter(d Deps) (http.Handler, error) {
	renderer, err := NewRenderer(NewAds(d.Config))
	if err != nil {
		return nil, err
	}
	sessions := newSessionStore(d.Config.SessionSecret, d.Config.SessionTTL, strings.HasPrefix(d.Config.SiteURL, "https://"))

	site := &siteHandler{
		site:     d.Site,
		render:   renderer,
		siteURL:  d.Config.SiteURL,
		siteName: d.Config.SiteName,
	}
	admin := &adminHandler{
		admin:      d.Admin,
		publishing: d.Publishing,
		auth:       d.Auth,
		sessions:   sessions,
		render:     renderer,
	}

	r := mux.NewRouter()
	r.Use(recoverer, requestLogger, instrument)
	r.NotFoundHandler = http.HandlerFunc(site.notFound)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprintf(w, "OK"); err != nil {
			slog.Debug("Failed to write health response", "error", err)
		}
	}).Methods(http.MethodGet)
	r.HandleFunc("/ready", readyHandler(d.Readiness)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	r.HandleFunc("/", site.root).Methods(http.MethodGet)
	r.HandleFunc("/robots.txt", site.robots).Methods(http.MethodGet)
	r.HandleFunc("/sitemap.xml", site.sitemap).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.FileServer(http.FS(staticFS))).Methods(http.MethodGet)

	pub := r.PathPrefix("/{locale:" + localePattern() + "}").Subrouter()
	pub.Use(withLocale)
	pub.HandleFunc("", site.redirectToIndex).Methods(http.MethodGet)
	pub.HandleFunc("/", site.home).Methods(http.MethodGet)
	pub.HandleFunc("/articles/{slug}", site.article).Methods(http.MethodGet)
	pub.HandleFunc("/leagues/{slug}", site.league).Methods(http.MethodGet)
	pub.HandleFunc("/search", site.search).Methods(http.MethodGet)
	pub.HandleFunc("/contact", site.contactForm).Methods(http.MethodGet)
	pub.HandleFunc("/contact", site.contactSubmit).Methods(http.MethodPost)
	pub.HandleFunc("/terms", site.terms).Methods(http.MethodGet)
	pub.HandleFunc("/newsletter", site.subscribe).Methods(http.MethodPost)

	admin.routes(r.PathPrefix("/admin").Subrouter())
	return r, nil
}

func localePattern() string {
	codes := make([]string, len(domain.Locales))
	for i, l := range domain.Locales {
		codes[i] = string(l)
	}
	return strings.Join(codes, "|")
}

func readyHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{}
		for name, err := range checker.Check(ctx) {
			if err != nil {
				status = http.StatusServiceUnavailable
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		writeJSON(w, status, body)
	}
}
