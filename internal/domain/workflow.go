package domain

import "time"

// WorkflowStep is a state of the publishing workflow.
type WorkflowStep string

const (
	StepEditing     WorkflowStep = "editing"
	StepTranslating WorkflowStep = "translating"
	StepPreviewing  WorkflowStep = "previewing"
	StepConfirming  WorkflowStep = "confirming"
	StepPublished   WorkflowStep = "published"
)

// WorkflowSteps is the linear order of the wizard; published is terminal.
var WorkflowSteps = []WorkflowStep{StepEditing, StepTranslating, StepPreviewing, StepConfirming, StepPublished}

// Index returns the 1-based wizard position of the step, 0 when unknown.
func (s WorkflowStep) Index() int {
	for i, step := range WorkflowSteps {
		if step == s {
			return i + 1
		}
	}
	return 0
}

// Label is the human name shown in the wizard header.
func (s WorkflowStep) Label() string {
	switch s {
	case StepEditing:
		return "Content"
	case StepTranslating:
		return "Translations"
	case StepPreviewing:
		return "Preview"
	case StepConfirming:
		return "Confirm"
	case StepPublished:
		return "Published"
	}
	return string(s)
}

// Checklist holds the confirmation step checkboxes.
type Checklist struct {
	ContentReviewed      bool `json:"content_reviewed" bson:"content_reviewed"`
	TranslationsReviewed bool `json:"translations_reviewed" bson:"translations_reviewed"`
	SEOReviewed          bool `json:"seo_reviewed" bson:"seo_reviewed"`
}

// AllConfirmed reports whether every checkbox is ticked.
func (c Checklist) AllConfirmed() bool {
	return c.ContentReviewed && c.TranslationsReviewed && c.SEOReviewed
}

// TranslationJob tracks an asynchronous translation request.
type TranslationJob struct {
	JobID       string     `json:"job_id,omitempty" bson:"job_id,omitempty"`
	Locales     []Locale   `json:"locales,omitempty" bson:"locales,omitempty"`
	Pending     bool       `json:"pending" bson:"pending"`
	RequestedBy string     `json:"-" bson:"requested_by,omitempty"`
	RequestedAt *time.Time `json:"requested_at,omitempty" bson:"requested_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Failed      []Locale   `json:"failed,omitempty" bson:"failed,omitempty"`
	Error       string     `json:"error,omitempty" bson:"error,omitempty"`
}

// TranslationStatus is the remote answer to a translation status poll.
type TranslationStatus struct {
	JobID      string   `json:"job_id,omitempty"`
	IsComplete bool     `json:"isComplete"`
	Completed  []Locale `json:"completed,omitempty"`
	Failed     []Locale `json:"failed,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// SocialPlatform names a social network a post is generated for.
type SocialPlatform string

const (
	PlatformX         SocialPlatform = "x"
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformLinkedIn  SocialPlatform = "linkedin"
)

// SocialPost is generated copy for one platform.
type SocialPost struct {
	Platform SocialPlatform `json:"platform" bson:"platform"`
	Text     string         `json:"text" bson:"text"`
	Limit    int            `json:"limit" bson:"limit"`
}

// WorkflowSession is the persisted state of one article's publishing wizard.
type WorkflowSession struct {
	ID          string         `json:"id" bson:"_id"`
	ArticleID   string         `json:"article_id" bson:"article_id"`
	Step        WorkflowStep   `json:"step" bson:"step"`
	Translation TranslationJob `json:"translation" bson:"translation"`
	Checklist   Checklist      `json:"checklist" bson:"checklist"`
	SocialPosts []SocialPost   `json:"social_posts,omitempty" bson:"social_posts,omitempty"`
	LastError   string         `json:"last_error,omitempty" bson:"last_error,omitempty"`
	StartedBy   string         `json:"started_by,omitempty" bson:"started_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty" bson:"published_at,omitempty"`
}

// PublishedEvent is emitted once an article goes live.
type PublishedEvent struct {
	EventID     string    `json:"event_id"`
	ArticleID   string    `json:"article_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	League      string    `json:"league,omitempty"`
	Locales     []Locale  `json:"locales"`
	PublishedBy string    `json:"published_by,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// TranslationEvent is delivered by the translation service when a job settles.
type TranslationEvent struct {
	ArticleID string   `json:"article_id"`
	JobID     string   `json:"job_id"`
	Completed []Locale `json:"completed,omitempty"`
	Failed    []Locale `json:"failed,omitempty"`
	Error     string   `json:"error,omitempty"`
}
