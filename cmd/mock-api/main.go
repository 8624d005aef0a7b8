// Command mock-api serves an in-memory stand-in for the remote content API
// so the site and the admin can run locally without the real backend.
package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/TransferDaily/internal/domain"
)

func main() {
	addr := os.Getenv("MOCK_API_ADDR")
	if addr == "" {
		addr = ":8081"
	}

	s := newStore()
	s.seed(time.Now())

	r := mux.NewRouter()
	api := &mockAPI{store: s}
	api.routes(r)

	slog.Info("Mock API server running", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

type mockAPI struct {
	store *store
}

func (a *mockAPI) routes(r *mux.Router) {
	r.HandleFunc("/public/articles", a.publicArticles).Methods(http.MethodGet)
	r.HandleFunc("/public/articles/{slug}", a.publicArticle).Methods(http.MethodGet)
	r.HandleFunc("/public/articles/{slug}/related", a.related).Methods(http.MethodGet)
	r.HandleFunc("/public/leagues", a.publicLeagues).Methods(http.MethodGet)
	r.HandleFunc("/newsletter", a.subscribe).Methods(http.MethodPost)
	r.HandleFunc("/contact", a.contact).Methods(http.MethodPost)
	r.HandleFunc("/search/track", a.trackSearch).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(requireBearer)
	admin.HandleFunc("/stats", a.stats).Methods(http.MethodGet)
	admin.HandleFunc("/articles", a.articles).Methods(http.MethodGet)
	admin.HandleFunc("/articles", a.createArticle).Methods(http.MethodPost)
	admin.HandleFunc("/articles/{id}", a.article).Methods(http.MethodGet)
	admin.HandleFunc("/articles/{id}", a.updateArticle).Methods(http.MethodPut)
	admin.HandleFunc("/articles/{id}", a.patchArticle).Methods(http.MethodPatch)
	admin.HandleFunc("/articles/{id}", a.deleteArticle).Methods(http.MethodDelete)
	admin.HandleFunc("/articles/{id}/translations", a.requestTranslations).Methods(http.MethodPost)
	admin.HandleFunc("/articles/{id}/translations/status", a.translationStatus).Methods(http.MethodGet)
	admin.HandleFunc("/{kind:clubs|leagues|players}", a.catalog).Methods(http.MethodGet)
	admin.HandleFunc("/{kind:clubs|leagues|players}", a.saveCatalog).Methods(http.MethodPost)
	admin.HandleFunc("/{kind:clubs|leagues|players}/{id}", a.saveCatalog).Methods(http.MethodPut)
	admin.HandleFunc("/{kind:clubs|leagues|players}/{id}", a.deleteCatalog).Methods(http.MethodDelete)
	admin.HandleFunc("/newsletter", a.subscribers).Methods(http.MethodGet)
	admin.HandleFunc("/newsletter/{id}", a.subscriberStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/newsletter/{id}", a.deleteSubscriber).Methods(http.MethodDelete)
	admin.HandleFunc("/contact", a.contacts).Methods(http.MethodGet)
	admin.HandleFunc("/contact/{id}", a.contactStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/contact/{id}", a.deleteContact).Methods(http.MethodDelete)
}

// requireBearer only checks that a token is present; any value is accepted.
func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func listQueryFrom(r *http.Request) domain.ListQuery {
	q := r.URL.Query()
	loc, _ := domain.ParseLocale(q.Get("locale"))
	return domain.ListQuery{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
		League: q.Get("league"),
		Status: q.Get("status"),
		Search: q.Get("search"),
		Locale: loc,
	}
}

// --- Public ---

func (a *mockAPI) publicArticles(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r)
	q.Status = string(domain.StatusPublished)
	writeJSON(w, http.StatusOK, a.store.listArticles(q))
}

func (a *mockAPI) publicArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := a.store.articleBySlug(mux.Vars(r)["slug"])
	if !ok || !article.IsPublished() {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (a *mockAPI) related(w http.ResponseWriter, r *http.Request) {
	article, ok := a.store.articleBySlug(mux.Vars(r)["slug"])
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": a.store.related(article, queryInt(r, "limit", 3))})
}

func (a *mockAPI) publicLeagues(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"leagues": a.store.leagueList()})
}

func (a *mockAPI) subscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email  string        `json:"email"`
		Locale domain.Locale `json:"locale"`
	}
	if !decode(w, r, &body) {
		return
	}
	if !strings.Contains(body.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "invalid email")
		return
	}
	a.store.subscribe(body.Email, body.Locale)
	writeJSON(w, http.StatusCreated, nil)
}

func (a *mockAPI) contact(w http.ResponseWriter, r *http.Request) {
	var sub domain.ContactSubmission
	if !decode(w, r, &sub) {
		return
	}
	a.store.addContact(sub)
	writeJSON(w, http.StatusCreated, nil)
}

func (a *mockAPI) trackSearch(w http.ResponseWriter, r *http.Request) {
	var e domain.SearchEvent
	if !decode(w, r, &e) {
		return
	}
	slog.Info("Search tracked", "query", e.Query, "locale", e.Locale, "results", e.Results)
	writeJSON(w, http.StatusNoContent, nil)
}

// --- Admin: articles ---

func (a *mockAPI) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.stats())
}

func (a *mockAPI) articles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.listArticles(listQueryFrom(r)))
}

func (a *mockAPI) article(w http.ResponseWriter, r *http.Request) {
	article, err := a.store.article(mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (a *mockAPI) createArticle(w http.ResponseWriter, r *http.Request) {
	var in domain.Article
	if !decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusCreated, a.store.createArticle(in, time.Now()))
}

func (a *mockAPI) updateArticle(w http.ResponseWriter, r *http.Request) {
	var in domain.Article
	if !decode(w, r, &in) {
		return
	}
	in.ID = mux.Vars(r)["id"]
	out, err := a.store.updateArticle(in, time.Now())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *mockAPI) patchArticle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.ArticleStatus `json:"status"`
	}
	if !decode(w, r, &body) {
		return
	}
	out, err := a.store.setArticleStatus(mux.Vars(r)["id"], body.Status, time.Now())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *mockAPI) deleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := a.store.deleteArticle(mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *mockAPI) requestTranslations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetLocales []domain.Locale `json:"target_locales"`
	}
	if !decode(w, r, &body) {
		return
	}
	status, err := a.store.startTranslation(mux.Vars(r)["id"], body.TargetLocales, time.Now())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, status)
}

func (a *mockAPI) translationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.store.translationStatus(mux.Vars(r)["id"], time.Now())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// --- Admin: catalog ---

func (a *mockAPI) catalog(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	writeJSON(w, http.StatusOK, map[string]any{kind: a.store.catalogList(kind)})
}

func (a *mockAPI) saveCatalog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var (
		out any
		err error
	)
	switch vars["kind"] {
	case "clubs":
		var c domain.Club
		if !decode(w, r, &c) {
			return
		}
		c.ID = vars["id"]
		out, err = a.store.saveClub(c)
	case "leagues":
		var l domain.League
		if !decode(w, r, &l) {
			return
		}
		l.ID = vars["id"]
		out, err = a.store.saveLeague(l)
	case "players":
		var p domain.Player
		if !decode(w, r, &p) {
			return
		}
		p.ID = vars["id"]
		out, err = a.store.savePlayer(p)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	status := http.StatusOK
	if vars["id"] == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, out)
}

func (a *mockAPI) deleteCatalog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := a.store.deleteCatalog(vars["kind"], vars["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// --- Admin: audience ---

func (a *mockAPI) subscribers(w http.ResponseWriter, r *http.Request) {
	rows := a.store.subscriberList(queryInt(r, "page", 1), queryInt(r, "limit", 50))
	writeJSON(w, http.StatusOK, map[string]any{"subscribers": rows})
}

func (a *mockAPI) subscriberStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.SubscriberStatus `json:"status"`
	}
	if !decode(w, r, &body) {
		return
	}
	if !domain.ValidSubscriberStatus(body.Status) {
		writeError(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}
	if err := a.store.setSubscriberStatus(mux.Vars(r)["id"], body.Status); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *mockAPI) deleteSubscriber(w http.ResponseWriter, r *http.Request) {
	if err := a.store.deleteSubscriber(mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *mockAPI) contacts(w http.ResponseWriter, r *http.Request) {
	rows := a.store.contactList(queryInt(r, "page", 1), queryInt(r, "limit", 50))
	writeJSON(w, http.StatusOK, map[string]any{"submissions": rows})
}

func (a *mockAPI) contactStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.ContactStatus `json:"status"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := a.store.setContactStatus(mux.Vars(r)["id"], body.Status); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *mockAPI) deleteContact(w http.ResponseWriter, r *http.Request) {
	if err := a.store.deleteContact(mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
