package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/msKim92/wiselife-project/internal/platform/storage"
)

// CleanupQueue is the producing side of the image cleanup list. Records
// drop their image refs here; files are removed asynchronously so a
// storage hiccup never fails a delete or update request.
type CleanupQueue struct {
	rdb       *redis.Client
	queueName string
}

func NewCleanupQueue(rdb *redis.Client, queueName string) *CleanupQueue {
	return &CleanupQueue{rdb: rdb, queueName: queueName}
}

func (q *CleanupQueue) Enqueue(ctx context.Context, refs ...string) error {
	values := make([]interface{}, len(refs))
	for i, ref := range refs {
		values[i] = ref
	}
	return q.rdb.LPush(ctx, q.queueName, values...).Err()
}

// CleanupWorker drains the cleanup list and removes files from the image
// store. Removal is idempotent, so crashed runs simply leave refs on the
// list for the next pass.
type CleanupWorker struct {
	rdb       *redis.Client
	store     storage.ImageStore
	queueName string
	log       *logrus.Logger
}

func NewCleanupWorker(rdb *redis.Client, store storage.ImageStore, queueName string, log *logrus.Logger) *CleanupWorker {
	return &CleanupWorker{rdb: rdb, store: store, queueName: queueName, log: log}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	w.log.WithField("queue", w.queueName).Info("image cleanup worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("image cleanup worker stopping")
			return
		default:
			result, err := w.rdb.BRPop(ctx, 5*time.Second, w.queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue // timeout, nothing queued
				}
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				w.log.WithField("error", err.Error()).Error("cleanup worker BRPop failed")
				time.Sleep(5 * time.Second)
				continue
			}

			// result is [queueName, value]
			if len(result) < 2 || result[1] == "" {
				continue
			}
			ref := result[1]
			if err := w.store.Remove(ctx, ref); err != nil {
				w.log.WithFields(logrus.Fields{"ref": ref, "error": err.Error()}).Warn("failed to remove image, re-queueing")
				if err := w.rdb.LPush(ctx, w.queueName, ref).Err(); err != nil {
					w.log.WithFields(logrus.Fields{"ref": ref, "error": err.Error()}).Error("failed to re-queue image ref")
				}
				time.Sleep(time.Second)
				continue
			}
			w.log.WithField("ref", ref).Debug("removed orphaned image")
		}
	}
}
