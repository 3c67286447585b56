package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	topic, key string
	event      any
}

func (f *fakeProducer) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.topic, f.key, f.event = topic, key, event
	return nil
}

func TestKafkaPublisher_KeysByUserThenSession(t *testing.T) {
	t.Parallel()

	fp := &fakeProducer{}
	p := &KafkaPublisher{Producer: fp, Topic: "auth.events"}

	require.NoError(t, p.Publish(context.Background(), Event{Type: LoggedIn, UserID: "u1", SessionID: "s1"}))
	assert.Equal(t, "auth.events", fp.topic)
	assert.Equal(t, "u1", fp.key)

	require.NoError(t, p.Publish(context.Background(), Event{Type: LoggedOut, SessionID: "s1"}))
	assert.Equal(t, "s1", fp.key)
	assert.Equal(t, LoggedOut, fp.event.(Event).Type)
}

func TestFanout_JoinsErrors(t *testing.T) {
	t.Parallel()

	errA := errors.New("a down")
	var calls int
	ok := PublisherFunc(func(context.Context, Event) error { calls++; return nil })
	bad := PublisherFunc(func(context.Context, Event) error { calls++; return errA })

	err := Fanout{ok, bad, ok}.Publish(context.Background(), Event{Type: LoggedIn})
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 3, calls)

	assert.NoError(t, Fanout{ok}.Publish(context.Background(), Event{}))
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}

func TestCounterPublisher(t *testing.T) {
	t.Parallel()

	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_auth_events_total"}, []string{"type"})
	p := &CounterPublisher{Counter: c}

	require.NoError(t, p.Publish(context.Background(), Event{Type: LoggedIn}))
	require.NoError(t, p.Publish(context.Background(), Event{Type: LoggedIn}))
	require.NoError(t, p.Publish(context.Background(), Event{Type: LoggedOut}))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.WithLabelValues(string(LoggedIn))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.WithLabelValues(string(LoggedOut))))
}

type esStub struct {
	mu       sync.Mutex
	status   int
	requests []*http.Request
	bodies   []string
}

func (s *esStub) RoundTrip(r *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body string
	if r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}
	s.requests = append(s.requests, r)
	s.bodies = append(s.bodies, body)

	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: s.status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(`{"result":"created"}`)),
		Request:    r,
	}, nil
}

func newStubClient(t *testing.T, stub *esStub) *elasticsearch.Client {
	t.Helper()

	c, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: stub,
	})
	require.NoError(t, err)
	return c
}

func TestAuditIndexer_Publish(t *testing.T) {
	t.Parallel()

	stub := &esStub{status: http.StatusCreated}
	a := &AuditIndexer{Client: newStubClient(t, stub), Index: "auth-audit"}

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, a.Publish(context.Background(), Event{Type: UserRegistered, UserID: "u1", OccurredAt: at}))

	require.Len(t, stub.requests, 1)
	assert.Equal(t, "/auth-audit/_doc", stub.requests[0].URL.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stub.bodies[0]), &doc))
	assert.Equal(t, "user.registered", doc["type"])
	assert.Equal(t, "u1", doc["userId"])
	assert.Equal(t, "2026-01-02T03:04:05Z", doc["occurredAt"])
	assert.NotContains(t, doc, "sessionId")
}

func TestAuditIndexer_ErrorStatus(t *testing.T) {
	t.Parallel()

	stub := &esStub{status: http.StatusServiceUnavailable}
	a := &AuditIndexer{Client: newStubClient(t, stub), Index: "auth-audit"}

	err := a.Publish(context.Background(), Event{Type: LoggedIn})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
