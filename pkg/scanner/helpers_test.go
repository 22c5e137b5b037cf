package scanner

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/pkg/analysis"
	"Supermarket-Vision-Backend/pkg/camera"
	"Supermarket-Vision-Backend/pkg/frame"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
	log     *eventLog
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.stopped.Store(true)
	f.log.add("ticker stopped")
}

type tickerFactory struct {
	mu      sync.Mutex
	log     *eventLog
	tickers []*fakeTicker
}

func (f *tickerFactory) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time), log: f.log}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *tickerFactory) last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

type recordingAdapter struct {
	camera.Adapter
	log *eventLog
}

func (a *recordingAdapter) Stop(session *camera.Session) {
	a.log.add("camera stopped")
	a.Adapter.Stop(session)
}

type outcome struct {
	result domain.AnalysisResult
	err    error
}

type pendingCall struct {
	mode    domain.ScanMode
	respond chan outcome
}

// fakeAnalyzer blocks each call until the test answers it. With ignoreCtx
// set it keeps waiting after the cycle's context is cancelled, which is how
// a late reply is simulated.
type fakeAnalyzer struct {
	calls     chan *pendingCall
	ignoreCtx bool
	count     atomic.Int32
}

func newFakeAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{calls: make(chan *pendingCall, 16)}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, _ analysis.Input, mode domain.ScanMode) (domain.AnalysisResult, error) {
	f.count.Add(1)
	call := &pendingCall{mode: mode, respond: make(chan outcome, 1)}
	f.calls <- call
	if f.ignoreCtx {
		out := <-call.respond
		return out.result, out.err
	}
	select {
	case out := <-call.respond:
		return out.result, out.err
	case <-ctx.Done():
		return domain.AnalysisResult{}, ctx.Err()
	}
}

func (f *fakeAnalyzer) next(t *testing.T) *pendingCall {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("analyzer was not called")
		return nil
	}
}

type passthroughEncoder struct{}

func (passthroughEncoder) Encode(raw camera.RawFrame, _ float64) (frame.Encoded, error) {
	return frame.Encoded{Data: raw.Data}, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Notify(title, _, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
}

func (n *recordingNotifier) count(title string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, t := range n.titles {
		if t == title {
			c++
		}
	}
	return c
}

type fakeMetrics struct {
	noopMetrics
	discarded atomic.Int32
}

func (m *fakeMetrics) CycleDiscarded() { m.discarded.Add(1) }

type recordingSink struct {
	mu     sync.Mutex
	events []DetectionEvent
}

func (s *recordingSink) PublishDetections(_ context.Context, event DetectionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type harness struct {
	svc      ScannerService
	device   *camera.StaticDevice
	tickers  *tickerFactory
	analyzer *fakeAnalyzer
	notifier *recordingNotifier
	metrics  *fakeMetrics
	sink     *recordingSink
	log      *eventLog
}

func newHarness(t *testing.T, cfg Config, configure ...func(*harness)) *harness {
	t.Helper()
	h := &harness{
		device:   camera.NewStaticDevice([]byte{0xFF, 0xD8, 0xFF, 0xD9}),
		analyzer: newFakeAnalyzer(),
		notifier: &recordingNotifier{},
		metrics:  &fakeMetrics{},
		sink:     &recordingSink{},
		log:      &eventLog{},
	}
	h.tickers = &tickerFactory{log: h.log}
	for _, fn := range configure {
		fn(h)
	}

	adapter := &recordingAdapter{Adapter: camera.NewAdapter(h.device, camera.DefaultConstraints()), log: h.log}
	h.svc = NewScannerService(adapter, passthroughEncoder{}, h.analyzer, h.notifier, NewDetectionStore(), cfg,
		WithTickerFactory(h.tickers.New),
		WithMetrics(h.metrics),
		WithSinks(h.sink),
	)
	t.Cleanup(func() { require.NoError(t, h.svc.Close()) })
	return h
}

func (h *harness) status(t *testing.T) domain.ScannerStatus {
	t.Helper()
	status, err := h.svc.Status(context.Background())
	require.NoError(t, err)
	return status
}

func (h *harness) waitFor(t *testing.T, cond func(domain.ScannerStatus) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		return cond(h.status(t))
	}, 2*time.Second, 5*time.Millisecond)
}

func (h *harness) tick() {
	h.tickers.last().ch <- time.Now()
}

func items(names ...string) outcome {
	list := make([]domain.Detection, 0, len(names))
	for _, name := range names {
		list = append(list, domain.Detection{Name: name, Confidence: 90})
	}
	return outcome{result: domain.AnalysisResult{Kind: domain.ResultItems, Items: list}}
}
