// Package scanner runs the capture and analyze loop behind the single-shot
// and realtime product scanners.
//
// One goroutine owns every piece of loop state. Timer ticks, API calls and
// finished analysis cycles all reach it as messages, so at most one cycle
// is in flight and a stopped session can never apply a late result.
package scanner

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/utils"
	"Supermarket-Vision-Backend/pkg/analysis"
	"Supermarket-Vision-Backend/pkg/camera"
	"Supermarket-Vision-Backend/pkg/frame"
	"Supermarket-Vision-Backend/pkg/notification"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"sync"
	"time"
)

const (
	sinkQueueSize = 8
	sinkTimeout   = 5 * time.Second
)

type (
	Analyzer interface {
		Analyze(ctx context.Context, input analysis.Input, mode domain.ScanMode) (domain.AnalysisResult, error)
	}

	Encoder interface {
		Encode(raw camera.RawFrame, quality float64) (frame.Encoded, error)
	}

	// Sink receives every detection set the loop applies.
	Sink interface {
		PublishDetections(ctx context.Context, event DetectionEvent) error
	}

	Metrics interface {
		CycleFinished(mode domain.ScanMode, took time.Duration, err error)
		TickDropped()
		CycleDiscarded()
		StateChanged(state domain.ScannerState)
		DetectionsApplied(count int)
	}

	DetectionEvent struct {
		Sequence  uint64             `json:"sequence"`
		Mode      domain.ScanMode    `json:"mode"`
		Items     []domain.Detection `json:"items"`
		AppliedAt time.Time          `json:"applied_at"`
	}

	Config struct {
		Interval           time.Duration
		AnalysisTimeout    time.Duration
		RealtimeQuality    float64
		SingleShotQuality  float64
		FailureNotifyEvery int
		SuccessNotifyEvery int
	}

	Option func(*scannerService)

	ScannerService interface {
		Start(ctx context.Context, mode domain.ScanMode) error
		Stop(ctx context.Context) error
		Trigger(ctx context.Context) error
		Status(ctx context.Context) (domain.ScannerStatus, error)
		Detections() domain.DetectionsResponse
		Close() error
	}
)

func NewConfig(c utils.Config) Config {
	return Config{
		Interval:           c.ScanInterval(),
		AnalysisTimeout:    c.ScanTimeout(),
		RealtimeQuality:    c.RealtimeQuality,
		SingleShotQuality:  c.SingleShotQuality,
		FailureNotifyEvery: c.FailureNotifyEvery,
		SuccessNotifyEvery: c.SuccessNotifyEvery,
	}
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 3 * time.Second
	}
	if c.AnalysisTimeout <= 0 {
		c.AnalysisTimeout = 15 * time.Second
	}
	if c.RealtimeQuality <= 0 || c.RealtimeQuality > 1 {
		c.RealtimeQuality = 0.7
	}
	if c.SingleShotQuality <= 0 || c.SingleShotQuality > 1 {
		c.SingleShotQuality = 0.8
	}
	if c.FailureNotifyEvery <= 0 {
		c.FailureNotifyEvery = 10
	}
	if c.SuccessNotifyEvery <= 0 {
		c.SuccessNotifyEvery = 3
	}
	return c
}

func WithTickerFactory(factory TickerFactory) Option {
	return func(s *scannerService) { s.newTicker = factory }
}

func WithMetrics(metrics Metrics) Option {
	return func(s *scannerService) { s.metrics = metrics }
}

func WithSinks(sinks ...Sink) Option {
	return func(s *scannerService) { s.sinks = append(s.sinks, sinks...) }
}

type (
	commandKind int

	command struct {
		kind  commandKind
		ctx   context.Context
		mode  domain.ScanMode
		reply chan commandResult
	}

	commandResult struct {
		err    error
		status domain.ScannerStatus
	}

	cycle struct {
		generation uint64
		sequence   uint64
		mode       domain.ScanMode
		manual     bool
		started    time.Time
		result     domain.AnalysisResult
		err        error
	}
)

const (
	cmdStart commandKind = iota
	cmdStop
	cmdTrigger
	cmdStatus
)

type scannerService struct {
	camera    camera.Adapter
	encoder   Encoder
	analyzer  Analyzer
	notifier  notification.Notifier
	store     *DetectionStore
	cfg       Config
	newTicker TickerFactory
	metrics   Metrics
	sinks     []Sink

	commands    chan command
	completions chan cycle
	sinkQueue   chan DetectionEvent
	quit        chan struct{}
	stopped     chan struct{}
	sinkDone    chan struct{}
	closeOnce   sync.Once
	workers     sync.WaitGroup
	baseCtx     context.Context
	cancelBase  context.CancelFunc

	// owned by the loop goroutine
	state               domain.ScannerState
	mode                domain.ScanMode
	session             *camera.Session
	ticker              Ticker
	generation          uint64
	sequence            uint64
	inFlight            bool
	cancelCycle         context.CancelFunc
	dropped             uint64
	failures            uint64
	consecutiveFailures int
}

func NewScannerService(
	cam camera.Adapter,
	encoder Encoder,
	analyzer Analyzer,
	notifier notification.Notifier,
	store *DetectionStore,
	cfg Config,
	opts ...Option,
) ScannerService {
	baseCtx, cancel := context.WithCancel(context.Background())
	s := &scannerService{
		camera:      cam,
		encoder:     encoder,
		analyzer:    analyzer,
		notifier:    notifier,
		store:       store,
		cfg:         cfg.withDefaults(),
		newTicker:   NewRealTicker,
		metrics:     noopMetrics{},
		commands:    make(chan command),
		completions: make(chan cycle),
		quit:        make(chan struct{}),
		stopped:     make(chan struct{}),
		sinkDone:    make(chan struct{}),
		baseCtx:     baseCtx,
		cancelBase:  cancel,
		state:       domain.ScannerIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}

	if len(s.sinks) > 0 {
		s.sinkQueue = make(chan DetectionEvent, sinkQueueSize)
		go s.dispatch()
	} else {
		close(s.sinkDone)
	}

	go s.run()
	return s
}

func (s *scannerService) Start(ctx context.Context, mode domain.ScanMode) error {
	return s.send(ctx, command{kind: cmdStart, ctx: ctx, mode: mode}).err
}

func (s *scannerService) Stop(ctx context.Context) error {
	return s.send(ctx, command{kind: cmdStop, ctx: ctx}).err
}

func (s *scannerService) Trigger(ctx context.Context) error {
	return s.send(ctx, command{kind: cmdTrigger, ctx: ctx}).err
}

func (s *scannerService) Status(ctx context.Context) (domain.ScannerStatus, error) {
	res := s.send(ctx, command{kind: cmdStatus, ctx: ctx})
	return res.status, res.err
}

func (s *scannerService) Detections() domain.DetectionsResponse {
	current := s.store.Current()
	return domain.DetectionsResponse{
		Current:  current,
		Previous: s.store.Previous(),
		Count:    len(current),
	}
}

// Close stops any live session and waits for every goroutine the service
// started.
func (s *scannerService) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.stopped
		s.cancelBase()
		s.workers.Wait()
		if s.sinkQueue != nil {
			close(s.sinkQueue)
		}
		<-s.sinkDone
	})
	return nil
}

func (s *scannerService) send(ctx context.Context, cmd command) commandResult {
	cmd.reply = make(chan commandResult, 1)
	select {
	case s.commands <- cmd:
	case <-s.quit:
		return commandResult{err: domain.ErrScannerClosed}
	case <-ctx.Done():
		return commandResult{err: ctx.Err()}
	}
	return <-cmd.reply
}

func (s *scannerService) run() {
	defer close(s.stopped)
	for {
		var tick <-chan time.Time
		if s.ticker != nil {
			tick = s.ticker.C()
		}

		select {
		case <-s.quit:
			if s.state != domain.ScannerIdle {
				s.teardown()
			}
			return
		case cmd := <-s.commands:
			cmd.reply <- s.handle(cmd)
		case <-tick:
			s.onTick()
		case c := <-s.completions:
			s.onCompletion(c)
		}
	}
}

func (s *scannerService) handle(cmd command) commandResult {
	switch cmd.kind {
	case cmdStart:
		return commandResult{err: s.start(cmd.ctx, cmd.mode)}
	case cmdStop:
		return commandResult{err: s.stop()}
	case cmdTrigger:
		return commandResult{err: s.trigger()}
	case cmdStatus:
		return commandResult{status: s.status()}
	}
	return commandResult{err: fmt.Errorf("unknown scanner command %d", cmd.kind)}
}

func (s *scannerService) start(ctx context.Context, mode domain.ScanMode) error {
	if s.state != domain.ScannerIdle {
		return domain.ErrScannerRunning
	}
	if !mode.Valid() {
		return domain.ErrInvalidScanMode
	}

	session, err := s.camera.Start(ctx)
	if err != nil {
		s.notifier.Notify("Camera Error", cameraErrorMessage(err), domain.VariantDestructive)
		return err
	}

	s.generation++
	s.session = session
	s.mode = mode
	s.dropped = 0
	s.failures = 0
	s.consecutiveFailures = 0
	s.setState(domain.ScannerStreaming)

	if mode == domain.ScanModeRealtime {
		s.ticker = s.newTicker(s.cfg.Interval)
		s.notifier.Notify("Real-time Scanner Active", "Camera is now continuously scanning products", domain.VariantDefault)
	} else {
		s.notifier.Notify("Camera Started", "Camera feed is now active", domain.VariantDefault)
	}
	log.Infof("scanner started in %s mode", mode)
	return nil
}

func (s *scannerService) stop() error {
	if s.state == domain.ScannerIdle {
		return nil
	}
	mode := s.mode
	s.teardown()

	if mode == domain.ScanModeRealtime {
		s.notifier.Notify("Scanner Stopped", "Real-time scanning has been disabled", domain.VariantDefault)
	} else {
		s.notifier.Notify("Camera Stopped", "Camera stream has been disabled", domain.VariantDefault)
	}
	log.Info("scanner stopped")
	return nil
}

// teardown stops the ticker before releasing the camera so no tick can
// start a cycle against a released session.
func (s *scannerService) teardown() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.cancelCycle != nil {
		s.cancelCycle()
		s.cancelCycle = nil
	}
	s.camera.Stop(s.session)
	s.session = nil
	s.generation++
	s.inFlight = false
	s.mode = ""
	s.store.Clear()
	s.dropped = 0
	s.failures = 0
	s.consecutiveFailures = 0
	s.setState(domain.ScannerIdle)
}

func (s *scannerService) trigger() error {
	if s.state == domain.ScannerIdle {
		return domain.ErrScannerIdle
	}
	if s.inFlight {
		return domain.ErrCycleInFlight
	}
	return s.launch(true)
}

func (s *scannerService) onTick() {
	if s.inFlight {
		s.dropped++
		s.metrics.TickDropped()
		return
	}
	_ = s.launch(false)
}

func (s *scannerService) launch(manual bool) error {
	raw, err := s.session.CurrentFrame()
	if err != nil {
		if errors.Is(err, camera.ErrNotStreaming) {
			s.teardown()
			s.notifier.Notify("Camera Error", "Camera stream ended unexpectedly", domain.VariantDestructive)
			return err
		}
		s.recordFailure(manual, err)
		return err
	}

	s.sequence++
	ctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.AnalysisTimeout)
	s.cancelCycle = cancel
	s.inFlight = true
	s.setState(domain.ScannerAnalyzing)

	job := cycle{
		generation: s.generation,
		sequence:   s.sequence,
		mode:       s.mode,
		manual:     manual,
		started:    time.Now(),
	}
	s.workers.Add(1)
	go s.work(ctx, job, raw)
	return nil
}

func (s *scannerService) work(ctx context.Context, job cycle, raw camera.RawFrame) {
	defer s.workers.Done()

	quality := s.cfg.SingleShotQuality
	if job.mode == domain.ScanModeRealtime {
		quality = s.cfg.RealtimeQuality
	}

	encoded, err := s.encoder.Encode(raw, quality)
	if err == nil {
		job.result, err = s.analyzer.Analyze(ctx, analysis.ImageInput(encoded), job.mode)
	}
	job.err = err

	select {
	case s.completions <- job:
	case <-s.quit:
	}
}

func (s *scannerService) onCompletion(c cycle) {
	if c.generation != s.generation || c.sequence != s.sequence || s.session == nil {
		log.Debugf("discarding result of cycle %d from a stopped session", c.sequence)
		s.metrics.CycleDiscarded()
		return
	}
	if s.cancelCycle != nil {
		s.cancelCycle()
		s.cancelCycle = nil
	}
	s.inFlight = false
	s.setState(domain.ScannerStreaming)
	s.metrics.CycleFinished(c.mode, time.Since(c.started), c.err)

	if c.err != nil {
		s.recordFailure(c.manual, c.err)
		return
	}
	s.consecutiveFailures = 0

	items := detectionsFrom(c.result, c.started)
	s.store.Replace(items)
	s.metrics.DetectionsApplied(len(items))
	s.publish(DetectionEvent{
		Sequence:  c.sequence,
		Mode:      c.mode,
		Items:     items,
		AppliedAt: time.Now(),
	})
	s.notifySuccess(c, items)
}

func (s *scannerService) recordFailure(manual bool, err error) {
	s.failures++
	s.consecutiveFailures++
	log.Warnf("scan cycle failed (%d in a row): %v", s.consecutiveFailures, err)

	if manual || s.mode != domain.ScanModeRealtime {
		s.notifier.Notify("Analysis Error", err.Error(), domain.VariantDestructive)
		return
	}
	if s.consecutiveFailures%s.cfg.FailureNotifyEvery == 0 {
		s.notifier.Notify("Scan Error",
			fmt.Sprintf("%d scans failed in a row, continuing...", s.consecutiveFailures),
			domain.VariantDestructive)
	}
}

func (s *scannerService) notifySuccess(c cycle, items []domain.Detection) {
	if c.manual || c.mode != domain.ScanModeRealtime {
		if len(items) == 0 {
			description := "Try positioning products more clearly in the camera view"
			if c.result.Message != "" {
				description = c.result.Message
			}
			s.notifier.Notify("No Items Detected", description, domain.VariantDefault)
			return
		}
		s.notifier.Notify("Analysis Complete", fmt.Sprintf("Found %d item%s", len(items), plural(len(items))), domain.VariantDefault)
		return
	}

	scans := s.store.Stats().Scans
	if len(items) > 0 && scans%uint64(s.cfg.SuccessNotifyEvery) == 0 {
		s.notifier.Notify(fmt.Sprintf("%d Products Detected", len(items)), "Real-time AI analysis complete", domain.VariantDefault)
	}
}

func (s *scannerService) status() domain.ScannerStatus {
	stats := s.store.Stats()
	stats.DroppedTicks = s.dropped
	stats.Failures = s.failures
	stats.ConsecutiveFailures = s.consecutiveFailures
	return domain.ScannerStatus{
		State:    s.state,
		Mode:     s.mode,
		Sequence: s.sequence,
		Stats:    stats,
	}
}

func (s *scannerService) setState(state domain.ScannerState) {
	s.state = state
	s.metrics.StateChanged(state)
}

func (s *scannerService) publish(event DetectionEvent) {
	if s.sinkQueue == nil {
		return
	}
	select {
	case s.sinkQueue <- event:
	default:
		log.Warnf("detection sink queue full, dropping cycle %d", event.Sequence)
	}
}

func (s *scannerService) dispatch() {
	defer close(s.sinkDone)
	for event := range s.sinkQueue {
		for _, sink := range s.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			if err := sink.PublishDetections(ctx, event); err != nil {
				log.Warnf("publish detections for cycle %d: %v", event.Sequence, err)
			}
			cancel()
		}
	}
}

// detectionsFrom flattens an ingredient profile into a single detection so
// the store only ever holds one shape.
func detectionsFrom(result domain.AnalysisResult, capturedAt time.Time) []domain.Detection {
	switch result.Kind {
	case domain.ResultItems:
		return result.Items
	case domain.ResultIngredients:
		if result.Ingredients == nil {
			return []domain.Detection{}
		}
		return []domain.Detection{{
			Name:            result.Ingredients.FoodName,
			Category:        "Ingredients",
			Ingredients:     result.Ingredients.All(),
			Allergens:       result.Ingredients.Allergens,
			NutritionalInfo: result.Ingredients.NutritionalInfo,
			CapturedAt:      capturedAt,
		}}
	default:
		return []domain.Detection{}
	}
}

func cameraErrorMessage(err error) string {
	if errors.Is(err, camera.ErrPermissionDenied) {
		return "Camera permission denied. Please allow camera access."
	}
	return "Unable to access camera: " + err.Error()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

type noopMetrics struct{}

func (noopMetrics) CycleFinished(domain.ScanMode, time.Duration, error) {}
func (noopMetrics) TickDropped()                                        {}
func (noopMetrics) CycleDiscarded()                                     {}
func (noopMetrics) StateChanged(domain.ScannerState)                    {}
func (noopMetrics) DetectionsApplied(int)                               {}
