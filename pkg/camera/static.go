package camera

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// StaticDevice replays a fixed set of encoded images as a stream. OpenErr,
// when set, is returned by every Open call.
type StaticDevice struct {
	Frames  [][]byte
	OpenErr error

	mu     sync.Mutex
	last   *StaticStream
	opened int
}

func NewStaticDevice(frames ...[]byte) *StaticDevice {
	return &StaticDevice{Frames: frames}
}

// LoadStaticDevice reads each path as one frame.
func LoadStaticDevice(paths ...string) (*StaticDevice, error) {
	frames := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read frame %s: %w", path, err)
		}
		frames = append(frames, data)
	}
	return NewStaticDevice(frames...), nil
}

func (d *StaticDevice) Open(ctx context.Context, _ Constraints) (Stream, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(d.Frames) == 0 {
		return nil, fmt.Errorf("%w: no frames configured", ErrDeviceUnavailable)
	}

	stream := &StaticStream{frames: d.Frames, done: make(chan struct{})}
	d.mu.Lock()
	d.last = stream
	d.opened++
	d.mu.Unlock()
	return stream, nil
}

// LastStream returns the stream handed out by the latest Open.
func (d *StaticDevice) LastStream() *StaticStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *StaticDevice) Opened() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened
}

type StaticStream struct {
	mu     sync.Mutex
	frames [][]byte
	next   int
	closed bool
	done   chan struct{}
	once   sync.Once
}

func (s *StaticStream) Latest() (RawFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return RawFrame{}, ErrNotStreaming
	}
	frame := s.frames[s.next%len(s.frames)]
	s.next++
	return RawFrame{Data: frame, CapturedAt: time.Now()}, nil
}

func (s *StaticStream) Done() <-chan struct{} {
	return s.done
}

func (s *StaticStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
	return nil
}

// Fail simulates the device disappearing mid-stream.
func (s *StaticStream) Fail() {
	s.once.Do(func() { close(s.done) })
}

func (s *StaticStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
