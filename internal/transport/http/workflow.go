package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/TransferDaily/internal/app"
	"github.com/TransferDaily/internal/domain"
)

type workflowView struct {
	*app.WorkflowView
	Form          app.ArticleForm
	Errors        map[string]string
	Targets       []domain.Locale
	Statuses      []domain.TransferStatus
	PreviewLocale domain.Locale
	// Refresh makes the page reload itself while a translation job runs.
	Refresh int
}

// workflowStatus is the JSON answer of the status endpoint.
type workflowStatus struct {
	Step             domain.WorkflowStep `json:"step"`
	Pending          bool                `json:"pending"`
	TranslationCount int                 `json:"translation_count"`
	TranslationTotal int                 `json:"translation_total"`
	Failed           []domain.Locale     `json:"failed,omitempty"`
	Error            string              `json:"error,omitempty"`
	CanNext          bool                `json:"can_next"`
}

func (h *adminHandler) workflowRoutes(r *mux.Router) {
	r.HandleFunc("", h.workflow).Methods(http.MethodGet)
	r.HandleFunc("/status", h.workflowStatus).Methods(http.MethodGet)
	r.HandleFunc("/content", h.workflowContent).Methods(http.MethodPost)
	r.HandleFunc("/next", h.workflowStep(h.publishing.Next, "")).Methods(http.MethodPost)
	r.HandleFunc("/back", h.workflowStep(h.publishing.Back, "")).Methods(http.MethodPost)
	r.HandleFunc("/translations", h.workflowTranslate).Methods(http.MethodPost)
	r.HandleFunc("/translations/poll", h.workflowStep(h.publishing.PollTranslations, "")).Methods(http.MethodPost)
	r.HandleFunc("/social", h.workflowStep(h.publishing.GenerateSocialPosts, "Social posts generated.")).Methods(http.MethodPost)
	r.HandleFunc("/confirm", h.workflowConfirm).Methods(http.MethodPost)
	r.HandleFunc("/publish", h.workflowPublish).Methods(http.MethodPost)
}

func publishPath(id string) string {
	return "/admin/articles/" + url.PathEscape(id) + "/publish"
}

func actor(r *http.Request) string {
	if sess := adminFrom(r.Context()); sess != nil {
		return sess.Username
	}
	return ""
}

func (h *adminHandler) renderWorkflow(w http.ResponseWriter, r *http.Request, status int, v *app.WorkflowView, form *app.ArticleForm, errs map[string]string) {
	view := workflowView{
		WorkflowView:  v,
		Errors:        errs,
		Targets:       domain.Locales[1:],
		Statuses:      domain.TransferStatuses,
		PreviewLocale: domain.DefaultLocale,
	}
	if form != nil {
		view.Form = *form
	} else {
		view.Form = app.FormFromArticle(v.Article)
	}
	if v.Session.Translation.Pending {
		view.Refresh = 5
	}
	if v.Preview != nil {
		view.PreviewLocale = v.Preview.Locale
	}
	h.page(w, r, status, "workflow", "Publish: "+v.Article.Title, "articles", view)
}

func (h *adminHandler) workflow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	v, err := h.publishing.Start(r.Context(), accessToken(r), actor(r), id)
	if err != nil {
		h.fail(w, r, err, "/admin/articles")
		return
	}

	if loc, ok := domain.ParseLocale(r.URL.Query().Get("locale")); ok && v.Preview != nil {
		p, err := h.publishing.Preview(r.Context(), accessToken(r), id, loc)
		if err != nil {
			h.fail(w, r, err, publishPath(id))
			return
		}
		v.Preview = p
	}
	h.renderWorkflow(w, r, http.StatusOK, v, nil, nil)
}

func (h *adminHandler) workflowStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.publishing.PollTranslations(r.Context(), accessToken(r), mux.Vars(r)["id"])
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": errorMessage(err)})
		return
	}
	t := v.Session.Translation
	writeJSON(w, http.StatusOK, workflowStatus{
		Step:             v.Session.Step,
		Pending:          t.Pending,
		TranslationCount: v.TranslationCount,
		TranslationTotal: v.TranslationTotal,
		Failed:           t.Failed,
		Error:            t.Error,
		CanNext:          v.CanNext,
	})
}

func (h *adminHandler) workflowContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := articleFormFrom(r)
	_, err := h.publishing.SaveContent(r.Context(), accessToken(r), id, form)
	if app.IsValidationError(err) {
		v, startErr := h.publishing.Start(r.Context(), accessToken(r), actor(r), id)
		if startErr != nil {
			h.fail(w, r, startErr, publishPath(id))
			return
		}
		h.renderWorkflow(w, r, http.StatusUnprocessableEntity, v, &form, app.FieldErrors(err))
		return
	}
	if err != nil {
		h.fail(w, r, err, publishPath(id))
		return
	}
	h.done(w, r, "Content saved.", publishPath(id))
}

type workflowAction func(ctx context.Context, token, articleID string) (*app.WorkflowView, error)

// workflowStep adapts a single-argument workflow transition to a POST handler.
func (h *adminHandler) workflowStep(action workflowAction, notice string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, err := action(r.Context(), accessToken(r), id); err != nil {
			h.fail(w, r, err, publishPath(id))
			return
		}
		if notice != "" {
			h.sessions.notice(w, r, notice)
		}
		http.Redirect(w, r, publishPath(id), http.StatusSeeOther)
	}
}

func (h *adminHandler) workflowTranslate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	var locales []domain.Locale
	for _, code := range r.PostForm["locales"] {
		if loc, ok := domain.ParseLocale(code); ok && loc != domain.DefaultLocale {
			locales = append(locales, loc)
		}
	}

	if _, err := h.publishing.GenerateTranslations(r.Context(), accessToken(r), h.sessions.sessionID(r), id, locales); err != nil {
		h.fail(w, r, err, publishPath(id))
		return
	}
	h.done(w, r, "Translations requested.", publishPath(id))
}

func (h *adminHandler) workflowConfirm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	c := domain.Checklist{
		ContentReviewed:      r.PostFormValue("content_reviewed") != "",
		TranslationsReviewed: r.PostFormValue("translations_reviewed") != "",
		SEOReviewed:          r.PostFormValue("seo_reviewed") != "",
	}
	if _, err := h.publishing.SetConfirmation(r.Context(), accessToken(r), id, c); err != nil {
		h.fail(w, r, err, publishPath(id))
		return
	}
	http.Redirect(w, r, publishPath(id), http.StatusSeeOther)
}

func (h *adminHandler) workflowPublish(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.publishing.Publish(r.Context(), accessToken(r), actor(r), id); err != nil {
		h.fail(w, r, err, publishPath(id))
		return
	}
	h.done(w, r, "Article published.", publishPath(id))
}
