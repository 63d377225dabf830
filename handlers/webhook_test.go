package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// fakeDeduper mirrors the SETNX semantics: Seen marks and reports the prior
// state, Forget drops the mark.
type fakeDeduper struct {
	marked    map[string]bool
	forgotten []string
}

func newFakeDeduper() *fakeDeduper { return &fakeDeduper{marked: make(map[string]bool)} }

func (f *fakeDeduper) Seen(ctx context.Context, messageID string) (bool, error) {
	if f.marked[messageID] {
		return true, nil
	}
	f.marked[messageID] = true
	return false, nil
}

func (f *fakeDeduper) Forget(ctx context.Context, messageID string) error {
	delete(f.marked, messageID)
	f.forgotten = append(f.forgotten, messageID)
	return nil
}

// fakeQueue scripts enqueue outcomes per call.
type fakeQueue struct {
	errs     []error
	enqueued int
}

func (f *fakeQueue) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	var err error
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	if err != nil {
		return nil, err
	}
	f.enqueued++
	return &asynq.TaskInfo{}, nil
}

func postWebhook(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const inboundEnvelope = `{"entry":[{"changes":[{"value":{"messages":[
	{"from":"923001234567","id":"wamid.abc","type":"text","text":{"body":"koi slot hei kal?"}}
]}}]}]}`

func TestWebhookRedeliverySurvivesEnqueueFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deduper := newFakeDeduper()
	queue := &fakeQueue{errs: []error{errors.New("broker down")}}
	hb := &HandlerBundle{Deduper: deduper, Queue: queue}
	r := gin.New()
	r.POST("/webhook/chat", hb.ReceiveWebhook)

	// First delivery: the enqueue fails, the handler still acks 200 and the
	// dedup mark is dropped.
	w := postWebhook(r, inboundEnvelope)
	if w.Code != http.StatusOK {
		t.Fatalf("failed enqueue: status = %d, want 200", w.Code)
	}
	if queue.enqueued != 0 {
		t.Fatalf("enqueued = %d, want 0", queue.enqueued)
	}
	if len(deduper.forgotten) != 1 || deduper.forgotten[0] != "wamid.abc" {
		t.Fatalf("dedup mark not dropped: %v", deduper.forgotten)
	}

	// The provider's redelivery now goes through.
	w = postWebhook(r, inboundEnvelope)
	if w.Code != http.StatusOK {
		t.Fatalf("redelivery: status = %d, want 200", w.Code)
	}
	if queue.enqueued != 1 {
		t.Fatalf("redelivery enqueued = %d, want 1", queue.enqueued)
	}
}

func TestWebhookDedupSuppressesDuplicateDelivery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deduper := newFakeDeduper()
	queue := &fakeQueue{}
	hb := &HandlerBundle{Deduper: deduper, Queue: queue}
	r := gin.New()
	r.POST("/webhook/chat", hb.ReceiveWebhook)

	for i := 0; i < 2; i++ {
		if w := postWebhook(r, inboundEnvelope); w.Code != http.StatusOK {
			t.Fatalf("delivery %d: status = %d, want 200", i, w.Code)
		}
	}
	if queue.enqueued != 1 {
		t.Fatalf("enqueued = %d, want 1", queue.enqueued)
	}
	if len(deduper.forgotten) != 0 {
		t.Fatalf("successful hand-off dropped the dedup mark: %v", deduper.forgotten)
	}
}
