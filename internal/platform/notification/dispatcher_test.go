package notification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/platform/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Name() string { return "mock" }

func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// blockingPublisher holds every delivery until release is closed.
type blockingPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	got     []domain.Event
}

func (b *blockingPublisher) Name() string { return "blocking" }

func (b *blockingPublisher) Publish(_ context.Context, event domain.Event) error {
	<-b.release
	b.mu.Lock()
	b.got = append(b.got, event)
	b.mu.Unlock()
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_DeliversToAllPublishers(t *testing.T) {
	first := new(MockPublisher)
	second := new(MockPublisher)
	event := domain.Event{Topic: domain.TopicTransactionCreated, Key: "acc-1"}

	first.On("Publish", mock.Anything, event).Return(nil).Once()
	second.On("Publish", mock.Anything, event).Return(errors.New("broker down")).Once()

	d := notification.NewDispatcher(discardLogger(), 8, 2, []notification.Publisher{first, second})
	d.Start()
	d.Publish(context.Background(), event)
	require.NoError(t, d.Shutdown(context.Background()))

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	d := notification.NewDispatcher(discardLogger(), 1, 1, []notification.Publisher{pub})
	d.Start()

	done := make(chan struct{})
	go func() {
		// The worker takes the first event and blocks, the second fills the queue,
		// everything after that is dropped without blocking the caller.
		for i := 0; i < 10; i++ {
			d.Publish(context.Background(), domain.Event{Topic: domain.TopicTransactionCreated, Key: "acc-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}

	close(pub.release)
	require.NoError(t, d.Shutdown(context.Background()))

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.LessOrEqual(t, len(pub.got), 2)
	assert.GreaterOrEqual(t, len(pub.got), 1)
}

func TestDispatcher_PublishAfterShutdownIsDropped(t *testing.T) {
	pub := new(MockPublisher)
	d := notification.NewDispatcher(discardLogger(), 4, 1, []notification.Publisher{pub})
	d.Start()
	require.NoError(t, d.Shutdown(context.Background()))

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), domain.Event{Topic: domain.TopicAccountCreated})
	})
	assert.ErrorIs(t, d.Shutdown(context.Background()), notification.ErrDispatcherClosed)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func TestKafkaPublisher_WritesKeyedMessage(t *testing.T) {
	w := &recordingWriter{}
	p := notification.NewKafkaPublisher(w, "bank.")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	err := p.Publish(context.Background(), domain.Event{
		Topic:      domain.TopicAccountCreated,
		Key:        "acc-9",
		OccurredAt: at,
		Payload:    map[string]string{"accountNumber": "123456"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "bank.account.created", msg.Topic)
	assert.Equal(t, []byte("acc-9"), msg.Key)
	assert.Equal(t, at, msg.Time)
	assert.Contains(t, string(msg.Value), `"accountNumber":"123456"`)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := notification.NewKafkaPublisher(w, "")

	err := p.Publish(context.Background(), domain.Event{Topic: domain.TopicAccountDeleted, Key: "acc-1"})
	assert.ErrorContains(t, err, "leader not available")
}
