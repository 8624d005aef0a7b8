package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TransferDaily/internal/domain"
)

func validContact() ContactForm {
	return ContactForm{
		Name:    "Ana",
		Email:   "ana@example.com",
		Subject: "Correction",
		Message: "The fee quoted for the Rice deal is wrong.",
		Locale:  domain.LocaleES,
	}
}

func TestContactForm_Validate(t *testing.T) {
	require.NoError(t, validContact().Validate())

	tests := []struct {
		name  string
		edit  func(f *ContactForm)
		field string
	}{
		{"short message", func(f *ContactForm) { f.Message = "too short" }, "message"},
		{"bad email", func(f *ContactForm) { f.Email = "ana-at-example" }, "email"},
		{"missing name", func(f *ContactForm) { f.Name = "" }, "name"},
		{"long subject", func(f *ContactForm) { f.Subject = string(make([]rune, 151)) }, "subject"},
		{"whitespace name", func(f *ContactForm) { f.Name = "   " }, "name"},
		{"padded short message", func(f *ContactForm) { f.Message = "   too short    " }, "message"},
		{"blank subject", func(f *ContactForm) { f.Subject = "\t\n" }, "subject"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validContact()
			tt.edit(&f)
			err := f.Validate()
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, FieldErrors(err), tt.field)
		})
	}
}

func TestContactForm_ValidateAcceptsPaddedEmail(t *testing.T) {
	f := validContact()
	f.Email = " ana@example.com "
	assert.NoError(t, f.Validate())
	assert.Equal(t, "ana@example.com", f.Submission().Email)
}

func TestContactForm_SubmissionTrims(t *testing.T) {
	f := validContact()
	f.Name = "  Ana  "
	s := f.Submission()
	assert.Equal(t, "Ana", s.Name)
	assert.Equal(t, domain.LocaleES, s.Locale)
}

func TestArticleForm_Validate(t *testing.T) {
	f := FormFromArticle(draftArticle())
	require.NoError(t, f.Validate())

	f.TransferStatus = "maybe"
	f.Slug = "Not A Slug"
	f.ImageURL = "not a url"
	errs := FieldErrors(f.Validate())
	assert.Contains(t, errs, "transfer_status")
	assert.Contains(t, errs, "slug")
	assert.Contains(t, errs, "image_url")
}

func TestArticleForm_ApplyGeneratesSlug(t *testing.T) {
	f := ArticleForm{Title: "  Kane signs for Bayern München ", Content: "Done.", TransferStatus: "completed"}
	var a domain.Article
	f.Apply(&a)
	assert.Equal(t, "Kane signs for Bayern München", a.Title)
	assert.Equal(t, "kane-signs-for-bayern-munchen", a.Slug)

	f.Slug = "kane-to-bayern"
	f.Apply(&a)
	assert.Equal(t, "kane-to-bayern", a.Slug)
}

func TestFieldErrors_NonValidation(t *testing.T) {
	assert.Nil(t, FieldErrors(domain.ErrNotFound))
	assert.False(t, IsValidationError(nil))
}
