package mocks

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/TransferDaily/internal/domain"
	"github.com/stretchr/testify/mock"
)

// WorkflowStore is an in-memory domain.WorkflowRepository.
type WorkflowStore struct {
	mu        sync.Mutex
	workflows map[string]domain.WorkflowSession
}

var _ domain.WorkflowRepository = (*WorkflowStore)(nil)

func NewWorkflowStore() *WorkflowStore {
	return &WorkflowStore{workflows: make(map[string]domain.WorkflowSession)}
}

func (s *WorkflowStore) GetWorkflow(ctx context.Context, articleID string) (*domain.WorkflowSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[articleID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

func (s *WorkflowStore) SaveWorkflow(ctx context.Context, w *domain.WorkflowSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[w.ArticleID] = *w
	return nil
}

func (s *WorkflowStore) DeleteWorkflow(ctx context.Context, articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workflows, articleID)
	return nil
}

func (s *WorkflowStore) SettleTranslation(ctx context.Context, articleID, jobID string, job domain.TranslationJob, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[articleID]
	if !ok || !w.Translation.Pending || (jobID != "" && w.Translation.JobID != jobID) {
		return domain.ErrNotFound
	}
	w.Translation = job
	w.UpdatedAt = at
	s.workflows[articleID] = w
	return nil
}

func (s *WorkflowStore) PendingTranslations(ctx context.Context) ([]domain.WorkflowSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.WorkflowSession
	for _, w := range s.workflows {
		if w.Translation.Pending {
			out = append(out, w)
		}
	}
	return out, nil
}

type MockSessionRepository struct {
	mock.Mock
}

var _ domain.SessionRepository = (*MockSessionRepository)(nil)

func (m *MockSessionRepository) GetSession(ctx context.Context, id string) (*domain.AdminSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminSession), args.Error(1)
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, s *domain.AdminSession) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) DeleteSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockEventProducer struct {
	mock.Mock
}

var _ domain.EventProducer = (*MockEventProducer)(nil)

func (m *MockEventProducer) Publish(ctx context.Context, key string, payload any) error {
	return m.Called(ctx, key, payload).Error(0)
}

func (m *MockEventProducer) Close() error {
	return m.Called().Error(0)
}

type MockCache struct {
	mock.Mock
}

var _ domain.Cache = (*MockCache)(nil)

func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) DeletePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

type MockMediaStore struct {
	mock.Mock
}

var _ domain.MediaStore = (*MockMediaStore)(nil)

func (m *MockMediaStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}
