// Package notify enqueues outbound notifications. Delivery (email etc.) is
// handled by a separate consumer reading the queue.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/forummlcb/topdup/db"
	"github.com/forummlcb/topdup/internal/model"
)

type Queue interface {
	Push(ctx context.Context, queueKey string, data string) error
}

type Notifier struct {
	queue Queue
}

func NewNotifier(queue Queue) *Notifier {
	return &Notifier{queue: queue}
}

type reportCreatedEvent struct {
	Type       string  `json:"type"`
	ReportID   int64   `json:"report_id"`
	ArticleAID int64   `json:"article_a_id"`
	ArticleBID int64   `json:"article_b_id"`
	SimScore   float64 `json:"sim_score"`
}

// ReportCreated enqueues a new-duplicate event, fire and forget. The caller
// never waits on it and a queue failure only logs.
func (n *Notifier) ReportCreated(report *model.SimilarityReport) {
	if n == nil || n.queue == nil {
		return
	}

	event := reportCreatedEvent{
		Type:       "report_created",
		ReportID:   report.ID,
		ArticleAID: report.ArticleAID,
		ArticleBID: report.ArticleBID,
		SimScore:   report.SimScore,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("error encoding notification", "error", err, "report_id", report.ID)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := n.queue.Push(ctx, db.NotifyQueueKey, string(payload)); err != nil {
			slog.Error("error enqueueing notification", "error", err, "report_id", report.ID)
		}
	}()
}
