package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/TransferDaily/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, key string, payload any) error {
	args := m.Called(ctx, key, payload)
	return args.Error(0)
}

func (m *MockProducer) Close() error { return nil }

func TestKafkaConsumer_HandleDispatchesEvent(t *testing.T) {
	dlq := new(MockProducer)
	c := &KafkaConsumer{topic: "article_translations", dlqProducer: dlq}

	var got *domain.TranslationEvent
	c.handle(context.Background(), kafka.Message{
		Key:   []byte("a1"),
		Value: []byte(`{"article_id":"a1","job_id":"j1","completed":["es","fr"]}`),
	}, func(ctx context.Context, e *domain.TranslationEvent) error {
		got = e
		return nil
	})

	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ArticleID)
	assert.Equal(t, []domain.Locale{domain.LocaleES, domain.LocaleFR}, got.Completed)
	dlq.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestKafkaConsumer_HandlerFailureGoesToDLQ(t *testing.T) {
	dlq := new(MockProducer)
	dlq.On("Publish", mock.Anything, "a1", mock.MatchedBy(func(l DeadLetter) bool {
		return l.Error == "boom" && l.Offset == 42 && l.Topic == "article_translations"
	})).Return(nil).Once()

	c := &KafkaConsumer{topic: "article_translations", dlqProducer: dlq}
	c.handle(context.Background(), kafka.Message{
		Key:    []byte("a1"),
		Offset: 42,
		Value:  []byte(`{"article_id":"a1"}`),
	}, func(ctx context.Context, e *domain.TranslationEvent) error {
		return errors.New("boom")
	})

	dlq.AssertExpectations(t)
}

func TestKafkaConsumer_MalformedMessagesGoToDLQ(t *testing.T) {
	dlq := new(MockProducer)
	dlq.On("Publish", mock.Anything, "", mock.AnythingOfType("queue.DeadLetter")).Return(nil).Twice()

	c := &KafkaConsumer{topic: "article_translations", dlqProducer: dlq}
	handler := func(ctx context.Context, e *domain.TranslationEvent) error {
		t.Fatal("handler must not be called")
		return nil
	}
	c.handle(context.Background(), kafka.Message{Value: []byte(`not json`)}, handler)
	c.handle(context.Background(), kafka.Message{Value: []byte(`{"job_id":"j1"}`)}, handler)

	dlq.AssertExpectations(t)
}
