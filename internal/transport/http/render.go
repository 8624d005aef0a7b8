package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/TransferDaily/internal/domain"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var publicPages = []string{"home", "article", "contact", "terms", "notfound"}

var adminPages = []string{
	"login", "new_password", "dashboard", "articles", "article_form",
	"catalog", "newsletter", "contacts", "workflow",
}

// Renderer executes the page templates. Each page is parsed together with
// its layout and shared partials once at startup.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer(ads *Ads) (*Renderer, error) {
	funcs := template.FuncMap{
		"t":        T,
		"ad":       ads.Slot,
		"adClient": ads.Client,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"locales":  func() []domain.Locale { return domain.Locales },
		"date":     formatDate,
		"datetime": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
		"html":     func(s string) template.HTML { return template.HTML(s) },
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	parse := func(shared []string, names []string, dir string) error {
		for _, name := range names {
			files := append(append([]string{}, shared...), dir+name+".html")
			tpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
			if err != nil {
				return fmt.Errorf("parse template %s: %w", name, err)
			}
			r.pages[name] = tpl
		}
		return nil
	}
	if err := parse([]string{"templates/layout.html"}, publicPages, "templates/"); err != nil {
		return nil, err
	}
	admin := []string{"templates/admin/layout.html", "templates/admin/partials.html"}
	if err := parse(admin, adminPages, "templates/admin/"); err != nil {
		return nil, err
	}
	return r, nil
}

// Render writes the page with the given status. Output is buffered so a
// template error still yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	tpl, ok := r.pages[name]
	if !ok {
		slog.Error("Unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Failed to write response", "template", name, "error", err)
	}
}

var monthNames = map[domain.Locale][12]string{
	domain.LocaleEN: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	domain.LocaleES: {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
	domain.LocaleFR: {"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
	domain.LocaleDE: {"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
	domain.LocaleIT: {"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
}

func formatDate(t time.Time, loc domain.Locale) string {
	if t.IsZero() {
		return ""
	}
	names, ok := monthNames[loc]
	if !ok {
		names = monthNames[domain.DefaultLocale]
	}
	return fmt.Sprintf("%d %s %d", t.Day(), names[t.Month()-1], t.Year())
}
