package app

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/TransferDaily/internal/domain"
)

// ContactForm is the public contact form.
type ContactForm struct {
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Subject string        `json:"subject"`
	Message string        `json:"message"`
	Locale  domain.Locale `json:"locale"`
}

// normalized trims every free-text field. Validation and submission both use it.
func (f ContactForm) normalized() ContactForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
	return f
}

func (f ContactForm) Validate() error {
	f = f.normalized()
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&f.Email, validation.Required, is.EmailFormat),
		validation.Field(&f.Subject, validation.Required, validation.RuneLength(1, 150)),
		validation.Field(&f.Message, validation.Required, validation.RuneLength(10, 5000)),
	)
}

func (f ContactForm) Submission() *domain.ContactSubmission {
	f = f.normalized()
	return &domain.ContactSubmission{
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
		Locale:  f.Locale,
	}
}

// NewsletterForm is the newsletter sign-up box.
type NewsletterForm struct {
	Email  string        `json:"email"`
	Locale domain.Locale `json:"locale"`
}

func (f NewsletterForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.EmailFormat),
	)
}

// ArticleForm is the admin article editor.
type ArticleForm struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	Slug            string `json:"slug"`
	League          string `json:"league"`
	Category        string `json:"category"`
	PlayerName      string `json:"player_name"`
	FromClub        string `json:"from_club"`
	ToClub          string `json:"to_club"`
	TransferFee     string `json:"transfer_fee"`
	TransferStatus  string `json:"transfer_status"`
	ImageURL        string `json:"image_url"`
	MetaDescription string `json:"meta_description"`
}

func (f ArticleForm) Validate() error {
	statuses := make([]interface{}, len(domain.TransferStatuses))
	for i, s := range domain.TransferStatuses {
		statuses[i] = string(s)
	}
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&f.Content, validation.Required),
		validation.Field(&f.League, validation.Required),
		validation.Field(&f.TransferStatus, validation.Required, validation.In(statuses...)),
		validation.Field(&f.Slug, validation.By(slugRule)),
		validation.Field(&f.MetaDescription, validation.RuneLength(0, 160)),
		validation.Field(&f.ImageURL, is.URL),
	)
}

func slugRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" || domain.IsValidSlug(s) {
		return nil
	}
	return validation.NewError("validation_slug_invalid", "must contain only lowercase letters, digits and single dashes")
}

// FormFromArticle fills the editor from an existing article.
func FormFromArticle(a *domain.Article) ArticleForm {
	return ArticleForm{
		Title:           a.Title,
		Content:         a.Content,
		Slug:            a.Slug,
		League:          a.League,
		Category:        a.Category,
		PlayerName:      a.PlayerName,
		FromClub:        a.FromClub,
		ToClub:          a.ToClub,
		TransferFee:     a.TransferFee,
		TransferStatus:  a.TransferStatus,
		ImageURL:        a.ImageURL,
		MetaDescription: a.MetaDescription,
	}
}

// Apply copies the form onto a, generating the slug from the title when empty.
func (f ArticleForm) Apply(a *domain.Article) {
	a.Title = strings.TrimSpace(f.Title)
	a.Content = f.Content
	a.Slug = strings.TrimSpace(f.Slug)
	if a.Slug == "" {
		a.Slug = domain.Slugify(a.Title)
	}
	a.League = f.League
	a.Category = f.Category
	a.PlayerName = strings.TrimSpace(f.PlayerName)
	a.FromClub = strings.TrimSpace(f.FromClub)
	a.ToClub = strings.TrimSpace(f.ToClub)
	a.TransferFee = strings.TrimSpace(f.TransferFee)
	a.TransferStatus = f.TransferStatus
	a.ImageURL = strings.TrimSpace(f.ImageURL)
	a.MetaDescription = strings.TrimSpace(f.MetaDescription)
}

// NameForm backs the club, league and player editors.
type NameForm struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	League   string `json:"league"`
	Position string `json:"position"`
	Club     string `json:"club"`
}

func (f NameForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(1, 120)),
		validation.Field(&f.Country, validation.RuneLength(0, 80)),
	)
}

// FieldErrors flattens a validation failure into field → message.
// It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	out := make(map[string]string, len(errs))
	for field, e := range errs {
		out[field] = e.Error()
	}
	return out
}

// IsValidationError reports whether err came from form validation.
func IsValidationError(err error) bool {
	var errs validation.Errors
	return errors.As(err, &errs)
}
