package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/LukasDorner/StreamGate/internal/pkg/cache"
)

const processingQueueKey = "notify:intents:processing"

// Intent is the queued notification payload produced by Mailer.
type Intent struct {
	Type       string `json:"type"`
	UserID     uint   `json:"user_id"`
	ContentID  uint   `json:"content_id"`
	TotalCents int64  `json:"total_cents"`
	Currency   string `json:"currency"`
	QueuedAt   string `json:"queued_at"`
}

// IntentHandler consumes one dequeued intent. Returning an error pushes the
// intent back to the tail of the queue.
type IntentHandler func(ctx context.Context, intent Intent) error

// Worker drains the notification intent queue. It exists for deployments that
// run notification delivery in-process instead of a dedicated consumer; both
// share the same Redis list contract.
type Worker struct {
	client  *redis.Client
	handler IntentHandler
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewWorker creates a notification worker. A nil handler gets a logger that
// records the intent and does nothing else.
func NewWorker(handler IntentHandler) *Worker {
	if handler == nil {
		handler = func(ctx context.Context, intent Intent) error {
			log.Infof("[Notify] intent %s for user %d (content %d)", intent.Type, intent.UserID, intent.ContentID)
			return nil
		}
	}
	return &Worker{
		client:  cache.GetClient(),
		handler: handler,
		stopCh:  make(chan struct{}),
	}
}

// Start launches the consumer loop.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true

	log.Info("[Notify] Starting intent worker")
	w.wg.Add(1)
	go w.loop()
}

// Stop shuts the consumer down and waits for the in-flight intent to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stopCh)
	w.running = false
	w.wg.Wait()
	log.Info("[Notify] Intent worker stopped")
}

func (w *Worker) loop() {
	defer w.wg.Done()
	ctx := context.Background()

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		// Atomic move to the processing list so a crash never loses an intent;
		// the short timeout keeps shutdown responsive.
		raw, err := w.client.BRPopLPush(ctx, intentQueueKey, processingQueueKey, time.Second).Result()
		if err != nil {
			if err != redis.Nil {
				log.Errorf("[Notify] dequeue failed: %v", err)
				time.Sleep(time.Second)
			}
			continue
		}

		var intent Intent
		if err := json.Unmarshal([]byte(raw), &intent); err != nil {
			log.Errorf("[Notify] dropping undecodable intent: %v", err)
			w.remove(ctx, raw)
			continue
		}

		if err := w.handler(ctx, intent); err != nil {
			log.Warnf("[Notify] intent for user %d failed, requeueing: %v", intent.UserID, err)
			w.remove(ctx, raw)
			if requeueErr := w.client.RPush(ctx, intentQueueKey, raw).Err(); requeueErr != nil {
				log.Errorf("[Notify] requeue failed, intent lost: %v", requeueErr)
			}
			continue
		}
		w.remove(ctx, raw)
	}
}

func (w *Worker) remove(ctx context.Context, raw string) {
	if err := w.client.LRem(ctx, processingQueueKey, 1, raw).Err(); err != nil {
		log.Errorf("[Notify] failed to clear processing entry: %v", err)
	}
}
