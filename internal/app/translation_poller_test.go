package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TransferDaily/internal/domain"
)

type staticTokens map[string]string

func (s staticTokens) AccessToken(ctx context.Context, sessionID string) (string, error) {
	tok, ok := s[sessionID]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return tok, nil
}

func pendingWorkflow(articleID, jobID, requestedBy string) *domain.WorkflowSession {
	return &domain.WorkflowSession{
		ID:          "w-" + articleID,
		ArticleID:   articleID,
		Step:        domain.StepTranslating,
		Translation: domain.TranslationJob{JobID: jobID, Pending: true, RequestedBy: requestedBy},
	}
}

func TestTranslationPoller_RunOnce(t *testing.T) {
	ctx := context.Background()
	svc, api, store, _ := newPublishing(t)
	require.NoError(t, store.SaveWorkflow(ctx, pendingWorkflow("a1", "job-1", "sess-1")))
	require.NoError(t, store.SaveWorkflow(ctx, pendingWorkflow("a2", "job-2", "sess-1")))
	require.NoError(t, store.SaveWorkflow(ctx, pendingWorkflow("a3", "job-3", "expired")))

	a2 := draftArticle()
	a2.ID = "a2"
	api.On("Article", mock.Anything, "tok", "a1").Return(draftArticle(), nil)
	api.On("Article", mock.Anything, "tok", "a2").Return(a2, nil)
	api.On("TranslationStatus", mock.Anything, "tok", "a1").Return(&domain.TranslationStatus{JobID: "job-1", IsComplete: true}, nil)
	api.On("TranslationStatus", mock.Anything, "tok", "a2").Return(&domain.TranslationStatus{JobID: "job-2"}, nil)

	poller := NewTranslationPoller(store, svc, staticTokens{"sess-1": "tok"})
	assert.Equal(t, 1, poller.RunOnce(ctx))

	w, _ := store.GetWorkflow(ctx, "a1")
	assert.False(t, w.Translation.Pending)
	w, _ = store.GetWorkflow(ctx, "a2")
	assert.True(t, w.Translation.Pending)
	w, _ = store.GetWorkflow(ctx, "a3")
	assert.True(t, w.Translation.Pending, "jobs without a live session stay pending")

	api.AssertNotCalled(t, "TranslationStatus", mock.Anything, mock.Anything, "a3")
}

func TestTranslationPoller_StartRejectsBadSchedule(t *testing.T) {
	svc, _, store, _ := newPublishing(t)
	poller := NewTranslationPoller(store, svc, staticTokens{})
	assert.Error(t, poller.Start("every now and then"))
}

func TestTranslationPoller_StartStop(t *testing.T) {
	svc, _, store, _ := newPublishing(t)
	poller := NewTranslationPoller(store, svc, staticTokens{})
	require.NoError(t, poller.Start("@every 1h"))
	poller.Stop()
}
