// Package camera acquires a video stream and hands out the latest frame.
package camera

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrPermissionDenied  = errors.New("camera permission denied")
	ErrDeviceUnavailable = errors.New("camera device unavailable")
	ErrNotStreaming      = errors.New("camera is not streaming")
	ErrNoFrame           = errors.New("no frame available yet")
	ErrStaleFrame        = errors.New("frame is stale")
)

const staleAfter = 5 * time.Second

type (
	Constraints struct {
		FacingMode string
		Width      int
		Height     int
	}

	RawFrame struct {
		Data       []byte
		CapturedAt time.Time
	}

	// Stream is a live video source. Done is closed once the source has
	// stopped delivering frames for good.
	Stream interface {
		Latest() (RawFrame, error)
		Done() <-chan struct{}
		Close() error
	}

	Device interface {
		Open(ctx context.Context, constraints Constraints) (Stream, error)
	}

	Adapter interface {
		Start(ctx context.Context) (*Session, error)
		Stop(session *Session)
	}

	adapter struct {
		device      Device
		constraints Constraints
	}
)

func DefaultConstraints() Constraints {
	return Constraints{
		FacingMode: "environment",
		Width:      1280,
		Height:     720,
	}
}

func NewAdapter(device Device, constraints Constraints) Adapter {
	if constraints.FacingMode == "" {
		constraints.FacingMode = "environment"
	}
	return &adapter{
		device:      device,
		constraints: constraints,
	}
}

func (a *adapter) Start(ctx context.Context) (*Session, error) {
	stream, err := a.device.Open(ctx, a.constraints)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrDeviceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	return &Session{stream: stream, active: true}, nil
}

// Stop releases the session's stream. Calling it twice, or with nil, is a
// no-op.
func (a *adapter) Stop(session *Session) {
	if session == nil {
		return
	}
	session.release()
}

// Session exclusively owns one open stream.
type Session struct {
	mu     sync.RWMutex
	stream Stream
	active bool
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return false
	}
	select {
	case <-s.stream.Done():
		return false
	default:
		return true
	}
}

// CurrentFrame returns a copy of the most recent frame.
func (s *Session) CurrentFrame() (RawFrame, error) {
	if !s.Active() {
		return RawFrame{}, ErrNotStreaming
	}
	frame, err := s.stream.Latest()
	if err != nil {
		return RawFrame{}, err
	}
	if !frame.CapturedAt.IsZero() && time.Since(frame.CapturedAt) > staleAfter {
		return RawFrame{}, fmt.Errorf("%w: captured %s ago", ErrStaleFrame, time.Since(frame.CapturedAt).Round(time.Second))
	}
	data := make([]byte, len(frame.Data))
	copy(data, frame.Data)
	return RawFrame{Data: data, CapturedAt: frame.CapturedAt}, nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	_ = s.stream.Close()
}
