package http

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/TransferDaily/internal/app"
	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/metrics"
)

// pageData is handed to every public template.
type pageData struct {
	Meta    Meta
	Locale  domain.Locale
	Path    string
	Leagues []domain.League
	Notice  string
	Content any
}

// LocalePath is the current page under another locale, for the language switcher.
func (p pageData) LocalePath(loc domain.Locale) string {
	return "/" + string(loc) + p.Path
}

type contactView struct {
	Form   app.ContactForm
	Errors map[string]string
	Sent   bool
	Err    string
}

type siteHandler struct {
	site     *app.SiteService
	render   *Renderer
	siteURL  string
	siteName string
}

func observe(page, outcome string) {
	metrics.PageRenders.WithLabelValues(page, outcome).Inc()
}

func outcomeOf(errMsg string) string {
	if errMsg != "" {
		return "degraded"
	}
	return "ok"
}

// newsletterNotice maps the ?newsletter= flag set by subscribe.
func newsletterNotice(r *http.Request, loc domain.Locale) string {
	switch r.URL.Query().Get("newsletter") {
	case "ok":
		return T(loc, "Thanks for subscribing!")
	case "error":
		return T(loc, "Something went wrong. Please try again.")
	}
	return ""
}

func (h *siteHandler) root(w http.ResponseWriter, r *http.Request) {
	loc := domain.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
	http.Redirect(w, r, "/"+string(loc)+"/", http.StatusFound)
}

func (h *siteHandler) redirectToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+string(localeFrom(r.Context()))+"/", http.StatusMovedPermanently)
}

func (h *siteHandler) home(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r.Context())
	league := r.URL.Query().Get("league")
	p := h.site.Home(r.Context(), loc, league, pageParam(r))
	observe("home", outcomeOf(p.Err))

	meta := h.defaultMeta(loc, "", "/")
	if league != "" || p.Page.Page > 1 {
		meta.NoIndex = true
	}
	h.render.Render(w, http.StatusOK, "home", pageData{
		Meta:    meta,
		Locale:  loc,
		Path:    "/",
		Leagues: p.Leagues,
		Notice:  newsletterNotice(r, loc),
		Content: p,
	})
}

func (h *siteHandler) league(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r.Context())
	slug := mux.Vars(r)["slug"]
	p, err := h.site.League(r.Context(), loc, slug, pageParam(r))
	if errors.Is(err, domain.ErrNotFound) {
		observe("league", "not_found")
		h.notFound(w, r)
		return
	}

	path := "/leagues/" + slug
	title := slug
	if p.League != nil {
		title = p.League.Name
	}
	observe("league", outcomeOf(p.Err))
	h.render.Render(w, http.StatusOK, "home", pageData{
		Meta:    h.defaultMeta(loc, title, path),
		Locale:  loc,
		Path:    path,
		Leagues: p.Leagues,
		Notice:  newsletterNotice(r, loc),
		Content: p,
	})
}

func (h *siteHandler) search(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r.Context())
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	p := h.site.Search(r.Context(), loc, q, pageParam(r))
	observe("search", outcomeOf(p.Err))

	meta := h.defaultMeta(loc, T(loc, "Search"), "/search")
	meta.NoIndex = true
	h.render.Render(w, http.StatusOK, "home", pageData{
		Meta:    meta,
		Locale:  loc,
		Path:    "/search",
		Leagues: p.Leagues,
		Content: p,
	})
}

func (h *siteHandler) article(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r.Context())
	slug := mux.Vars(r)["slug"]
	p, err := h.site.Article(r.Context(), loc, slug)
	if errors.Is(err, domain.ErrNotFound) {
		observe("article", "not_found")
		h.notFound(w, r)
		return
	}

	if p.Err != "" {
		observe("article", "degraded")
		h.render.Render(w, http.StatusOK, "article", pageData{
			Meta:    h.defaultMeta(loc, "", "/articles/"+slug),
			Locale:  loc,
			Path:    "/articles/" + slug,
			Leagues: p.Leagues,
			Content: p,
		})
		return
	}

	// Each locale has its own slug; send visitors to the canonical one.
	if p.Text.Slug != "" && p.Text.Slug != slug {
		http.Redirect(w, r, "/"+string(loc)+"/articles/"+p.Text.Slug, http.StatusMovedPermanently)
		return
	}

	observe("article", "ok")
	h.render.Render(w, http.StatusOK, "article", pageData{
		Meta:    h.articleMeta(p),
		Locale:  loc,
		Path:    "/articles/" + p.Article.Localized(domain.DefaultLocale).Slug,
		Leagues: p.Leagues,
		Notice:  newsletterNotice(r, loc),
		Content: p,
	})
}

func (h *siteHandler) contactForm(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, http.StatusOK, contactView{Sent: r.URL.Query().Get("sent") == "1"})
}

func (h *siteHandler) contactSubmit(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := app.ContactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
		Locale:  loc,
	}

	err := h.site.SubmitContact(r.Context(), form)
	switch {
	case err == nil:
		metrics.FormSubmissions.WithLabelValues("contact", "sent").Inc()
		http.Redirect(w, r, "/"+string(loc)+"/contact?sent=1", http.StatusSeeOther)
	case app.IsValidationError(err):
		metrics.FormSubmissions.WithLabelValues("contact", "invalid").Inc()
		h.renderContact(w, r, http.StatusUnprocessableEntity, contactView{Form: form, Errors: app.FieldErrors(err)})
	default:
		metrics.FormSubmissions.WithLabelValues("contact", "failed").Inc()
		slog.Error("Failed to submit contact form", "error", err)
		h.renderContact(w, r, http.StatusBadGateway, contactView{Form: form, Err: T(loc, "Something went wrong. Please try again.")})
	}
}

func (h *siteHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, v contactView) {
	loc := localeFrom(r.Context())
	h.render.Render(w, status, "contact", pageData{
		Meta:    h.defaultMeta(loc, T(loc, "Contact"), "/contact"),
		Locale:  loc,
		Path:    "/contact",
		Leagues: h.site.Leagues(r.Context()),
		Content: v,
	})
}

func (h *siteHandler) terms(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r.Context())
	h.render.Render(w, http.StatusOK, "terms", pageData{
		Meta:    h.defaultMeta(loc, T(loc, "Terms of use"), "/terms"),
		Locale:  loc,
		Path:    "/terms",
		Leagues: h.site.Leagues(r.Context()),
	})
}

func (h *siteHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	back := r.PostFormValue("return")
	if !strings.HasPrefix(back, "/"+string(loc)+"/") || strings.HasPrefix(back, "//") {
		back = "/" + string(loc) + "/"
	}
	if i := strings.IndexAny(back, "?#"); i >= 0 {
		back = back[:i]
	}

	result := "ok"
	err := h.site.Subscribe(r.Context(), app.NewsletterForm{Email: r.PostFormValue("email"), Locale: loc})
	if err != nil {
		result = "error"
		if !app.IsValidationError(err) {
			slog.Error("Newsletter subscription failed", "error", err)
		}
	}
	metrics.FormSubmissions.WithLabelValues("newsletter", result).Inc()
	http.Redirect(w, r, back+"?newsletter="+result, http.StatusSeeOther)
}

func (h *siteHandler) notFound(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r.Context())
	if seg := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)[0]; seg != "" {
		if l, ok := domain.ParseLocale(seg); ok {
			loc = l
		}
	}
	meta := h.defaultMeta(loc, T(loc, "Page not found"), "/")
	meta.NoIndex = true
	h.render.Render(w, http.StatusNotFound, "notfound", pageData{Meta: meta, Locale: loc, Path: "/"})
}

func (h *siteHandler) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", h.siteURL); err != nil {
		slog.Debug("Failed to write robots.txt", "error", err)
	}
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string           `xml:"loc"`
	LastMod    string           `xml:"lastmod,omitempty"`
	ChangeFreq string           `xml:"changefreq,omitempty"`
	Links      []sitemapAltLink `xml:"xhtml:link"`
}

type sitemapAltLink struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

func (h *siteHandler) sitemapEntry(paths map[domain.Locale]string, loc domain.Locale, lastMod time.Time, freq string) sitemapURL {
	u := sitemapURL{Loc: h.url(loc, paths[loc]), ChangeFreq: freq}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.UTC().Format("2006-01-02")
	}
	for _, l := range domain.Locales {
		u.Links = append(u.Links, sitemapAltLink{Rel: "alternate", HrefLang: string(l), Href: h.url(l, paths[l])})
	}
	return u
}

func (h *siteHandler) sitemap(w http.ResponseWriter, r *http.Request) {
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}

	for _, path := range []string{"/", "/contact", "/terms"} {
		paths := map[domain.Locale]string{}
		for _, l := range domain.Locales {
			paths[l] = path
		}
		freq := "monthly"
		if path == "/" {
			freq = "hourly"
		}
		for _, l := range domain.Locales {
			set.URLs = append(set.URLs, h.sitemapEntry(paths, l, time.Time{}, freq))
		}
	}

	articles, err := h.site.SitemapArticles(r.Context())
	if err != nil {
		slog.Warn("Sitemap is missing articles", "error", err, "count", len(articles))
	}
	for i := range articles {
		a := &articles[i]
		paths := map[domain.Locale]string{}
		for _, l := range domain.Locales {
			paths[l] = "/articles/" + a.Localized(l).Slug
		}
		for _, l := range domain.Locales {
			set.URLs = append(set.URLs, h.sitemapEntry(paths, l, a.UpdatedAt, "weekly"))
		}
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		slog.Error("Failed to encode sitemap", "error", err)
	}
}
