package http

import (
	"bufio"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/funchain"
	"github.com/aretw0/funchain/pkg/adapters/memory"
	"github.com/aretw0/funchain/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *funchain.Engine) {
	t.Helper()
	eng, err := funchain.New("", funchain.WithLoader(memory.Seed()))
	require.NoError(t, err)
	return NewHandler(eng, opts...), eng
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) domain.Result {
	t.Helper()
	var res domain.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/evaluate"))
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)

	var info InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "1.0.0", info.APIVersion)
	assert.Equal(t, "seed", info.Name)
	assert.Equal(t, "F1", info.Entry)
	assert.Equal(t, 5, info.Nodes)
}

func TestGetChain(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/chain", "")
	require.Equal(t, http.StatusOK, w.Code)

	var chain ChainResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chain))
	assert.Equal(t, "F1", chain.Entry)
	assert.Equal(t, domain.Value(2), chain.Initial)
	assert.Len(t, chain.Nodes, 5)

	w = do(t, h, "GET", "/chain/F2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"F2","equation":"2*x+4","next":"F4"}`, w.Body.String())

	w = do(t, h, "GET", "/chain/F9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetChain_NonFiniteInitial(t *testing.T) {
	eng, err := funchain.New("", funchain.WithLoader(memory.Seed()), funchain.WithInitialValue(math.NaN()))
	require.NoError(t, err)
	h := NewHandler(eng)

	w := do(t, h, "GET", "/chain", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"initial":"NaN"`)

	var chain ChainResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chain))
	assert.True(t, math.IsNaN(chain.Initial.Float()))
	assert.Len(t, chain.Nodes, 5)
}

func TestEvaluate(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/evaluate", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, domain.Value(45), res.Final)
	assert.Equal(t, domain.StatusCompleted, res.Status)

	w = do(t, h, "GET", "/evaluate?initial=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Value(3), decodeResult(t, w).Initial)

	w = do(t, h, "GET", "/evaluate?initial=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/evaluate", `{"initial": 2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Value(45), decodeResult(t, w).Final)

	w = do(t, h, "POST", "/evaluate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Value(45), decodeResult(t, w).Final)

	w = do(t, h, "POST", "/evaluate", `{"initial": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluate_NonFinite(t *testing.T) {
	h, eng := newTestHandler(t)
	require.NoError(t, eng.SetEquation("F1", "x/0"))

	w := do(t, h, "GET", "/evaluate?initial=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"output":"+Inf"`)
}

func TestSetEquation(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "PUT", "/chain/F3/equation", `{"equation": "x+1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"F3","equation":"x+1"}`, w.Body.String())

	w = do(t, h, "GET", "/evaluate", "")
	assert.Equal(t, domain.Value(6), decodeResult(t, w).Final)

	w = do(t, h, "PUT", "/chain/F3/equation", `{"equation": "(x)"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, 1, errResp.Column)

	w = do(t, h, "PUT", "/chain/nope/equation", `{"equation": "x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "PUT", "/chain/F3/equation", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRuns(t *testing.T) {
	h, _ := newTestHandler(t, WithResultStore(memory.NewStore(10)))

	res := decodeResult(t, do(t, h, "POST", "/evaluate", `{"initial": 2}`))

	w := do(t, h, "GET", "/runs/"+res.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, res.Final, decodeResult(t, w).Final)

	w = do(t, h, "GET", "/runs", "")
	assert.JSONEq(t, `["`+res.RunID+`"]`, w.Body.String())

	w = do(t, h, "GET", "/runs/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuns_NoStore(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.JSONEq(t, `[]`, do(t, h, "GET", "/runs", "").Body.String())
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/runs/x", "").Code)
}

func TestGetGraph(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph TD")
	assert.NotContains(t, w.Body.String(), "classDef")

	w = do(t, h, "GET", "/graph?initial=2", "")
	assert.Contains(t, w.Body.String(), "= 45")
	assert.Contains(t, w.Body.String(), "class F3 visited;")
}

func TestOpenAPIAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "funchain_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	h, _ := newTestHandler(t, WithMetrics(reg))

	w := do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "funchain_test_total 1")

	h, _ = newTestHandler(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/metrics", "").Code)
}

// fakeBus is an in-process ports.EventBus shared by several handlers.
type fakeBus struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func newFakeBus() *fakeBus {
	return &fakeBus{subs: make(map[chan []byte]struct{})}
}

func (b *fakeBus) Publish(_ context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context) (<-chan []byte, error) {
	ch := make(chan []byte, 4)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

// streamEvents opens /events on srv and returns a function that waits for a line with prefix.
func streamEvents(t *testing.T, srv *httptest.Server) func(prefix string) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	return func(prefix string) string {
		t.Helper()
		timeout := time.After(2 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", prefix)
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}
}

func postEvaluate(t *testing.T, srv *httptest.Server, body string) {
	t.Helper()
	post, err := http.Post(srv.URL+"/evaluate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	post.Body.Close()
}

func TestSubscribeEvents(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	waitFor := streamEvents(t, srv)
	waitFor("event: ping")

	postEvaluate(t, srv, `{"initial": 2}`)

	waitFor("event: run")
	data := waitFor("data: ")
	assert.Contains(t, data, `"final":45`)
}

func TestSubscribeEvents_SharedBus(t *testing.T) {
	bus := newFakeBus()
	hA, _ := newTestHandler(t, WithEventBus(bus))
	hB, _ := newTestHandler(t, WithEventBus(bus))

	srvA := httptest.NewServer(hA)
	t.Cleanup(srvA.Close)
	srvB := httptest.NewServer(hB)
	t.Cleanup(srvB.Close)

	waitFor := streamEvents(t, srvB)
	waitFor("event: ping")

	postEvaluate(t, srvA, `{"initial": 0}`)

	waitFor("event: run")
	data := waitFor("data: ")
	assert.Contains(t, data, `"final":21`)
}
