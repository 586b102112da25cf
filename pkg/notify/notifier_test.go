package notify

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/forummlcb/topdup/internal/model"
)

type fakeQueue struct {
	mu       sync.Mutex
	payloads []string
	done     chan struct{}
}

func (q *fakeQueue) Push(ctx context.Context, queueKey string, data string) error {
	q.mu.Lock()
	q.payloads = append(q.payloads, data)
	q.mu.Unlock()
	close(q.done)
	return nil
}

func TestReportCreated(t *testing.T) {
	queue := &fakeQueue{done: make(chan struct{})}
	notifier := NewNotifier(queue)

	notifier.ReportCreated(&model.SimilarityReport{
		ID:         7,
		ArticleAID: 1,
		ArticleBID: 2,
		SimScore:   0.91,
	})

	select {
	case <-queue.done:
	case <-time.After(time.Second):
		t.Fatal("notification was never enqueued")
	}

	queue.mu.Lock()
	defer queue.mu.Unlock()
	assert.Equal(t, 1, len(queue.payloads))

	var event reportCreatedEvent
	json.Unmarshal([]byte(queue.payloads[0]), &event)
	assert.Equal(t, "report_created", event.Type)
	assert.Equal(t, int64(7), event.ReportID)
	assert.Equal(t, 0.91, event.SimScore)
}

func TestReportCreated_NoQueueConfigured(t *testing.T) {
	notifier := NewNotifier(nil)

	// Must not panic when running without Redis.
	notifier.ReportCreated(&model.SimilarityReport{ID: 1})
}
