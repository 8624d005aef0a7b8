package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/TransferDaily/internal/app"
	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/auth"
	"github.com/TransferDaily/internal/infra/media"
)

// adminPage is handed to every admin template.
type adminPage struct {
	Title   string
	User    string
	Nav     string
	Notices []string
	Errors  []string
	Content any
}

type articleFormView struct {
	ID       string
	Form     app.ArticleForm
	Errors   map[string]string
	Statuses []domain.TransferStatus
	Article  *domain.Article
}

type adminHandler struct {
	admin      *app.AdminService
	publishing *app.PublishingService
	auth       *app.AdminAuthService
	sessions   *sessionStore
	render     *Renderer
}

func (h *adminHandler) routes(r *mux.Router) {
	r.HandleFunc("/login", h.loginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/login/new-password", h.newPasswordForm).Methods(http.MethodGet)
	r.HandleFunc("/login/new-password", h.newPassword).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodPost)

	p := r.NewRoute().Subrouter()
	p.Use(h.requireAdmin)

	p.HandleFunc("", h.dashboard).Methods(http.MethodGet)
	p.HandleFunc("/", h.dashboard).Methods(http.MethodGet)

	p.HandleFunc("/articles", h.articles).Methods(http.MethodGet)
	p.HandleFunc("/articles", h.createArticle).Methods(http.MethodPost)
	p.HandleFunc("/articles/new", h.newArticle).Methods(http.MethodGet)
	p.HandleFunc("/articles/{id}", h.editArticle).Methods(http.MethodGet)
	p.HandleFunc("/articles/{id}", h.updateArticle).Methods(http.MethodPost)
	p.HandleFunc("/articles/{id}/unpublish", h.unpublishArticle).Methods(http.MethodPost)
	p.HandleFunc("/articles/{id}/delete", h.deleteArticle).Methods(http.MethodPost)
	p.HandleFunc("/uploads", h.upload).Methods(http.MethodPost)

	h.workflowRoutes(p.PathPrefix("/articles/{id}/publish").Subrouter())

	p.HandleFunc("/{kind:clubs|leagues|players}", h.catalog).Methods(http.MethodGet)
	p.HandleFunc("/{kind:clubs|leagues|players}", h.saveCatalog).Methods(http.MethodPost)
	p.HandleFunc("/{kind:clubs|leagues|players}/{id}/delete", h.deleteCatalog).Methods(http.MethodPost)

	p.HandleFunc("/newsletter", h.newsletter).Methods(http.MethodGet)
	p.HandleFunc("/newsletter/export.csv", h.exportNewsletter).Methods(http.MethodGet)
	p.HandleFunc("/newsletter/{id}/status", h.subscriberStatus).Methods(http.MethodPost)
	p.HandleFunc("/newsletter/{id}/delete", h.deleteSubscriber).Methods(http.MethodPost)

	p.HandleFunc("/contacts", h.contacts).Methods(http.MethodGet)
	p.HandleFunc("/contacts/{id}/{action:read|archive|delete}", h.contactAction).Methods(http.MethodPost)
}

// requireAdmin resolves the cookie's session, refreshing its tokens when
// needed, and stores it in the request context.
func (h *adminHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.auth.Session(r.Context(), h.sessions.sessionID(r))
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				slog.Error("Failed to load admin session", "error", err)
			}
			h.toLogin(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey, sess)))
	})
}

func adminFrom(ctx context.Context) *domain.AdminSession {
	sess, _ := ctx.Value(adminKey).(*domain.AdminSession)
	return sess
}

func accessToken(r *http.Request) string {
	if sess := adminFrom(r.Context()); sess != nil {
		return sess.AccessToken
	}
	return ""
}

func (h *adminHandler) toLogin(w http.ResponseWriter, r *http.Request) {
	target := "/admin/login"
	if r.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *adminHandler) page(w http.ResponseWriter, r *http.Request, status int, tpl, title, nav string, content any) {
	h.pageErr(w, r, status, tpl, title, nav, "", content)
}

// pageErr renders like page with msg shown as an error in the same response.
func (h *adminHandler) pageErr(w http.ResponseWriter, r *http.Request, status int, tpl, title, nav, msg string, content any) {
	notices, errs := h.sessions.flashes(w, r)
	if msg != "" {
		errs = append(errs, msg)
	}
	p := adminPage{Title: title, Nav: nav, Notices: notices, Errors: errs, Content: content}
	if sess := adminFrom(r.Context()); sess != nil {
		p.User = sess.Username
	}
	h.render.Render(w, status, tpl, p)
}

// fail reports err after a mutating call and sends the admin back. Expired
// credentials end the session instead.
func (h *adminHandler) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if errors.Is(err, domain.ErrUnauthorized) {
		h.sessions.clear(w, r)
		h.toLogin(w, r)
		return
	}
	slog.Warn("Admin action failed", "path", r.URL.Path, "error", err)
	h.sessions.error(w, r, errorMessage(err))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// failPage renders a read-only page that could not load its data.
func (h *adminHandler) failPage(w http.ResponseWriter, r *http.Request, err error, tpl, title, nav string, content any) {
	if errors.Is(err, domain.ErrUnauthorized) {
		h.sessions.clear(w, r)
		h.toLogin(w, r)
		return
	}
	status := http.StatusBadGateway
	if errors.Is(err, domain.ErrNotFound) {
		status = http.StatusNotFound
	}
	slog.Warn("Admin page failed to load", "path", r.URL.Path, "error", err)
	h.pageErr(w, r, status, tpl, title, nav, errorMessage(err), content)
}

func (h *adminHandler) done(w http.ResponseWriter, r *http.Request, msg, back string) {
	h.sessions.notice(w, r, msg)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Not found."
	case errors.Is(err, domain.ErrNotConfirmed):
		return "Tick every confirmation box before publishing."
	case errors.Is(err, domain.ErrTranslationPending):
		return "Translations are still being generated."
	case errors.Is(err, domain.ErrAlreadyPublished):
		return "This article is already published."
	case errors.Is(err, domain.ErrStepLocked):
		return "This step cannot be completed yet: " + err.Error()
	case errors.Is(err, media.ErrUnsupportedType):
		return "Only JPEG, PNG, WebP and GIF images can be uploaded."
	case app.IsValidationError(err):
		return "Please fix the highlighted fields."
	}
	return "The request failed: " + err.Error()
}

// --- auth ---

func (h *adminHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.Session(r.Context(), h.sessions.sessionID(r)); err == nil {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	h.page(w, r, http.StatusOK, "login", "Sign in", "", map[string]string{"Next": safeNext(r.URL.Query().Get("next"))})
}

func safeNext(next string) string {
	if !strings.HasPrefix(next, "/admin") || strings.HasPrefix(next, "//") {
		return "/admin/"
	}
	return next
}

func (h *adminHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	next := safeNext(r.PostFormValue("next"))

	sess, err := h.auth.SignIn(r.Context(), username, r.PostFormValue("password"))
	var ch *auth.ChallengeError
	form := map[string]string{"Next": next, "Username": username}
	switch {
	case err == nil:
		h.sessions.setSessionID(w, r, sess.ID)
		http.Redirect(w, r, next, http.StatusSeeOther)
	case errors.As(err, &ch):
		h.sessions.setChallenge(w, r, ch.Challenge)
		http.Redirect(w, r, "/admin/login/new-password", http.StatusSeeOther)
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.pageErr(w, r, http.StatusUnauthorized, "login", "Sign in", "", "Incorrect username or password.", form)
	default:
		slog.Error("Admin sign-in failed", "username", username, "error", err)
		h.pageErr(w, r, http.StatusBadGateway, "login", "Sign in", "", "Sign-in is unavailable right now.", form)
	}
}

func (h *adminHandler) newPasswordForm(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.sessions.challenge(r)
	if !ok {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	h.page(w, r, http.StatusOK, "new_password", "Choose a new password", "", map[string]string{"Username": ch.Username})
}

func (h *adminHandler) newPassword(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.sessions.challenge(r)
	if !ok {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	pw := r.PostFormValue("password")
	if len(pw) < 8 || pw != r.PostFormValue("confirm") {
		h.pageErr(w, r, http.StatusUnprocessableEntity, "new_password", "Choose a new password", "",
			"Passwords must match and be at least 8 characters.", map[string]string{"Username": ch.Username})
		return
	}

	sess, err := h.auth.CompleteNewPassword(r.Context(), ch, pw)
	if err != nil {
		slog.Warn("New password challenge failed", "username", ch.Username, "error", err)
		h.sessions.setSessionID(w, r, "")
		h.sessions.error(w, r, "Your sign-in expired. Please sign in again.")
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	h.sessions.setSessionID(w, r, sess.ID)
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

func (h *adminHandler) logout(w http.ResponseWriter, r *http.Request) {
	if id := h.sessions.sessionID(r); id != "" {
		if err := h.auth.SignOut(r.Context(), id); err != nil {
			slog.Warn("Admin sign-out failed", "error", err)
		}
	}
	h.sessions.clear(w, r)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// --- dashboard & articles ---

func (h *adminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Dashboard(r.Context(), accessToken(r))
	if err != nil {
		h.failPage(w, r, err, "dashboard", "Dashboard", "dashboard", &domain.Stats{})
		return
	}
	h.page(w, r, http.StatusOK, "dashboard", "Dashboard", "dashboard", stats)
}

type articlesView struct {
	Filter   app.ArticleFilter
	Listing  app.Listing[domain.Article]
	Statuses []domain.ArticleStatus
}

func (h *adminHandler) articles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := app.ArticleFilter{
		Search: strings.TrimSpace(q.Get("q")),
		Status: q.Get("status"),
		League: q.Get("league"),
		Sort:   q.Get("sort"),
		Page:   pageParam(r),
	}
	v := articlesView{Filter: f, Statuses: []domain.ArticleStatus{domain.StatusDraft, domain.StatusPublished}}

	listing, err := h.admin.Articles(r.Context(), accessToken(r), f)
	if err != nil {
		h.failPage(w, r, err, "articles", "Articles", "articles", v)
		return
	}
	v.Listing = listing
	h.page(w, r, http.StatusOK, "articles", "Articles", "articles", v)
}

func articleFormFrom(r *http.Request) app.ArticleForm {
	return app.ArticleForm{
		Title:           r.PostFormValue("title"),
		Content:         r.PostFormValue("content"),
		Slug:            strings.TrimSpace(r.PostFormValue("slug")),
		League:          strings.TrimSpace(r.PostFormValue("league")),
		Category:        strings.TrimSpace(r.PostFormValue("category")),
		PlayerName:      r.PostFormValue("player_name"),
		FromClub:        r.PostFormValue("from_club"),
		ToClub:          r.PostFormValue("to_club"),
		TransferFee:     r.PostFormValue("transfer_fee"),
		TransferStatus:  r.PostFormValue("transfer_status"),
		ImageURL:        r.PostFormValue("image_url"),
		MetaDescription: r.PostFormValue("meta_description"),
	}
}

func (h *adminHandler) renderArticleForm(w http.ResponseWriter, r *http.Request, status int, v articleFormView) {
	v.Statuses = domain.TransferStatuses
	title := "New article"
	if v.ID != "" {
		title = "Edit article"
	}
	h.page(w, r, status, "article_form", title, "articles", v)
}

func (h *adminHandler) newArticle(w http.ResponseWriter, r *http.Request) {
	h.renderArticleForm(w, r, http.StatusOK, articleFormView{Form: app.ArticleForm{TransferStatus: string(domain.TransferRumor)}})
}

func (h *adminHandler) editArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	a, err := h.admin.Article(r.Context(), accessToken(r), id)
	if err != nil {
		h.fail(w, r, err, "/admin/articles")
		return
	}
	h.renderArticleForm(w, r, http.StatusOK, articleFormView{ID: id, Form: app.FormFromArticle(a), Article: a})
}

func (h *adminHandler) createArticle(w http.ResponseWriter, r *http.Request) {
	h.saveArticle(w, r, "")
}

func (h *adminHandler) updateArticle(w http.ResponseWriter, r *http.Request) {
	h.saveArticle(w, r, mux.Vars(r)["id"])
}

func (h *adminHandler) saveArticle(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := articleFormFrom(r)
	a, err := h.admin.SaveArticle(r.Context(), accessToken(r), id, form)
	if app.IsValidationError(err) {
		h.renderArticleForm(w, r, http.StatusUnprocessableEntity, articleFormView{ID: id, Form: form, Errors: app.FieldErrors(err)})
		return
	}
	if err != nil {
		back := "/admin/articles/new"
		if id != "" {
			back = "/admin/articles/" + url.PathEscape(id)
		}
		h.fail(w, r, err, back)
		return
	}
	h.done(w, r, "Article saved.", "/admin/articles/"+url.PathEscape(a.ID))
}

func (h *adminHandler) unpublishArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.admin.SetArticleStatus(r.Context(), accessToken(r), id, domain.StatusDraft); err != nil {
		h.fail(w, r, err, "/admin/articles")
		return
	}
	h.done(w, r, "Article moved back to draft.", "/admin/articles")
}

func (h *adminHandler) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.admin.DeleteArticle(r.Context(), accessToken(r), id); err != nil {
		h.fail(w, r, err, "/admin/articles")
		return
	}
	h.done(w, r, "Article deleted.", "/admin/articles")
}

// upload stores one image from the "image" multipart field and answers with its URL.
func (h *adminHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image too large or malformed upload"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no image uploaded"})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Debug("Failed to close upload", "error", err)
		}
	}()

	u, err := h.admin.UploadImage(r.Context(), header.Filename, file, header.Header.Get("Content-Type"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"url": u})
	case errors.Is(err, media.ErrUnsupportedType):
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": errorMessage(err)})
	default:
		slog.Error("Image upload failed", "filename", header.Filename, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upload failed"})
	}
}

// --- catalog ---

type catalogRow struct {
	ID       string
	Name     string
	Country  string
	Detail   string
	Articles int
}

type catalogView struct {
	Kind   string
	Search string
	Rows   []catalogRow
	Page   domain.Page
	Form   app.NameForm
	Errors map[string]string
}

var catalogTitles = map[string]string{"clubs": "Clubs", "leagues": "Leagues", "players": "Players"}

func (h *adminHandler) loadCatalog(ctx context.Context, tok, kind, search string, page int) (catalogView, error) {
	v := catalogView{Kind: kind, Search: search}
	switch kind {
	case "clubs":
		l, err := h.admin.Clubs(ctx, tok, search, page)
		if err != nil {
			return v, err
		}
		for _, c := range l.Items {
			v.Rows = append(v.Rows, catalogRow{ID: c.ID, Name: c.Name, Country: c.Country, Detail: c.League, Articles: c.ArticlesCount})
		}
		v.Page = l.Page
	case "leagues":
		l, err := h.admin.Leagues(ctx, tok, search, page)
		if err != nil {
			return v, err
		}
		for _, lg := range l.Items {
			v.Rows = append(v.Rows, catalogRow{ID: lg.ID, Name: lg.Name, Country: lg.Country, Detail: lg.Slug, Articles: lg.ArticlesCount})
		}
		v.Page = l.Page
	case "players":
		l, err := h.admin.Players(ctx, tok, search, page)
		if err != nil {
			return v, err
		}
		for _, p := range l.Items {
			v.Rows = append(v.Rows, catalogRow{ID: p.ID, Name: p.Name, Country: p.Country, Detail: strings.TrimSpace(p.Position + " " + p.Club), Articles: p.ArticlesCount})
		}
		v.Page = l.Page
	default:
		return v, fmt.Errorf("unknown catalog %q: %w", kind, domain.ErrNotFound)
	}
	return v, nil
}

func (h *adminHandler) catalog(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	search := strings.TrimSpace(r.URL.Query().Get("q"))
	v, err := h.loadCatalog(r.Context(), accessToken(r), kind, search, pageParam(r))
	if err != nil {
		h.failPage(w, r, err, "catalog", catalogTitles[kind], kind, v)
		return
	}
	h.page(w, r, http.StatusOK, "catalog", catalogTitles[kind], kind, v)
}

func (h *adminHandler) saveCatalog(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f := app.NameForm{
		ID:       r.PostFormValue("id"),
		Name:     r.PostFormValue("name"),
		Country:  r.PostFormValue("country"),
		League:   r.PostFormValue("league"),
		Position: r.PostFormValue("position"),
		Club:     r.PostFormValue("club"),
	}

	var err error
	switch kind {
	case "clubs":
		_, err = h.admin.SaveClub(r.Context(), accessToken(r), f)
	case "leagues":
		_, err = h.admin.SaveLeague(r.Context(), accessToken(r), f)
	case "players":
		_, err = h.admin.SavePlayer(r.Context(), accessToken(r), f)
	}

	back := "/admin/" + kind
	if app.IsValidationError(err) {
		v, loadErr := h.loadCatalog(r.Context(), accessToken(r), kind, "", 1)
		if loadErr != nil {
			slog.Warn("Failed to reload catalog", "kind", kind, "error", loadErr)
		}
		v.Form, v.Errors = f, app.FieldErrors(err)
		h.page(w, r, http.StatusUnprocessableEntity, "catalog", catalogTitles[kind], kind, v)
		return
	}
	if err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.done(w, r, "Saved.", back)
}

func (h *adminHandler) deleteCatalog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, id := vars["kind"], vars["id"]

	var err error
	switch kind {
	case "clubs":
		err = h.admin.DeleteClub(r.Context(), accessToken(r), id)
	case "leagues":
		err = h.admin.DeleteLeague(r.Context(), accessToken(r), id)
	case "players":
		err = h.admin.DeletePlayer(r.Context(), accessToken(r), id)
	}
	if err != nil {
		h.fail(w, r, err, "/admin/"+kind)
		return
	}
	h.done(w, r, "Deleted.", "/admin/"+kind)
}

// --- newsletter & contacts ---

type newsletterView struct {
	Status   domain.SubscriberStatus
	Statuses []domain.SubscriberStatus
	Listing  app.Listing[domain.NewsletterSubscriber]
}

var subscriberStatuses = []domain.SubscriberStatus{domain.SubscriberActive, domain.SubscriberUnsubscribed, domain.SubscriberBounced}

func (h *adminHandler) newsletter(w http.ResponseWriter, r *http.Request) {
	status := domain.SubscriberStatus(r.URL.Query().Get("status"))
	v := newsletterView{Status: status, Statuses: subscriberStatuses}
	listing, err := h.admin.Subscribers(r.Context(), accessToken(r), status, pageParam(r))
	if err != nil {
		h.failPage(w, r, err, "newsletter", "Newsletter", "newsletter", v)
		return
	}
	v.Listing = listing
	h.page(w, r, http.StatusOK, "newsletter", "Newsletter", "newsletter", v)
}

func (h *adminHandler) exportNewsletter(w http.ResponseWriter, r *http.Request) {
	status := domain.SubscriberStatus(r.URL.Query().Get("status"))
	name := "subscribers"
	if status != "" {
		name += "-" + string(status)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	if err := h.admin.ExportSubscribers(r.Context(), accessToken(r), status, w); err != nil {
		slog.Error("Subscriber export failed", "error", err)
		http.Error(w, "export failed", http.StatusBadGateway)
	}
}

func (h *adminHandler) subscriberStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := domain.SubscriberStatus(r.PostFormValue("status"))
	if err := h.admin.SetSubscriberStatus(r.Context(), accessToken(r), id, status); err != nil {
		h.fail(w, r, err, "/admin/newsletter")
		return
	}
	h.done(w, r, "Subscriber updated.", "/admin/newsletter")
}

func (h *adminHandler) deleteSubscriber(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteSubscriber(r.Context(), accessToken(r), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, "/admin/newsletter")
		return
	}
	h.done(w, r, "Subscriber deleted.", "/admin/newsletter")
}

type contactsView struct {
	Status   domain.ContactStatus
	Statuses []domain.ContactStatus
	Listing  app.Listing[domain.ContactSubmission]
}

func (h *adminHandler) contacts(w http.ResponseWriter, r *http.Request) {
	status := domain.ContactStatus(r.URL.Query().Get("status"))
	v := contactsView{Status: status, Statuses: []domain.ContactStatus{domain.ContactNew, domain.ContactRead, domain.ContactArchived}}
	listing, err := h.admin.Contacts(r.Context(), accessToken(r), status, pageParam(r))
	if err != nil {
		h.failPage(w, r, err, "contacts", "Contact messages", "contacts", v)
		return
	}
	v.Listing = listing
	h.page(w, r, http.StatusOK, "contacts", "Contact messages", "contacts", v)
}

func (h *adminHandler) contactAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var err error
	var msg string
	switch vars["action"] {
	case "read":
		err, msg = h.admin.MarkContactRead(r.Context(), accessToken(r), id), "Marked as read."
	case "archive":
		err, msg = h.admin.ArchiveContact(r.Context(), accessToken(r), id), "Archived."
	case "delete":
		err, msg = h.admin.DeleteContact(r.Context(), accessToken(r), id), "Deleted."
	}
	if err != nil {
		h.fail(w, r, err, "/admin/contacts")
		return
	}
	h.done(w, r, msg, "/admin/contacts")
}
