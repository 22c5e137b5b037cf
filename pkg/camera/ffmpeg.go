package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

const (
	readChunkSize  = 4096
	maxFrameBuffer = 10 * 1024 * 1024
)

var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}
)

// FFmpegDevice captures a V4L2 device through an ffmpeg subprocess that
// writes MJPEG to stdout.
type FFmpegDevice struct {
	Binary string
	Device string
}

func NewFFmpegDevice(device string) *FFmpegDevice {
	return &FFmpegDevice{Binary: "ffmpeg", Device: device}
}

func (d *FFmpegDevice) Open(ctx context.Context, constraints Constraints) (Stream, error) {
	if _, err := os.Stat(d.Device); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, d.Device)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDeviceUnavailable, d.Device, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	binary := d.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	args := []string{"-hide_banner", "-loglevel", "error", "-f", "v4l2"}
	if constraints.Width > 0 && constraints.Height > 0 {
		args = append(args, "-video_size", strconv.Itoa(constraints.Width)+"x"+strconv.Itoa(constraints.Height))
	}
	args = append(args, "-i", d.Device, "-f", "mjpeg", "-q:v", "5", "pipe:1")

	// The process outlives the request that started it, so it is not bound to ctx.
	cmd := exec.Command(binary, args...)
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	stream := &mjpegStream{
		cmd:  cmd,
		pipe: pipe,
		done: make(chan struct{}),
	}
	go stream.pump()

	log.Infof("camera capture started on %s (pid %d)", d.Device, cmd.Process.Pid)
	return stream, nil
}

type mjpegStream struct {
	cmd  *exec.Cmd
	pipe io.ReadCloser

	mu     sync.RWMutex
	frame  []byte
	at     time.Time
	done   chan struct{}
	closed sync.Once
}

func (s *mjpegStream) pump() {
	defer close(s.done)
	err := SplitFrames(s.pipe, func(frame []byte) {
		s.mu.Lock()
		s.frame = frame
		s.at = time.Now()
		s.mu.Unlock()
	})
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
		log.Errorf("camera stream read error: %v", err)
	}
}

func (s *mjpegStream) Latest() (RawFrame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.frame) == 0 {
		return RawFrame{}, ErrNoFrame
	}
	return RawFrame{Data: s.frame, CapturedAt: s.at}, nil
}

func (s *mjpegStream) Done() <-chan struct{} {
	return s.done
}

func (s *mjpegStream) Close() error {
	s.closed.Do(func() {
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		<-s.done
		_ = s.cmd.Wait()
		log.Info("camera capture stopped")
	})
	return nil
}

// SplitFrames reads an MJPEG byte stream and calls emit with every complete
// JPEG image, delimited by the SOI and EOI markers. Each emitted slice is
// owned by the callee. It returns the first read error.
func SplitFrames(r io.Reader, emit func([]byte)) error {
	buf := make([]byte, readChunkSize)
	var frame []byte

	for {
		n, err := r.Read(buf)
		if n > 0 {
			frame = append(frame, buf[:n]...)
			frame = drainFrames(frame, emit)

			if len(frame) > maxFrameBuffer {
				log.Warn("camera frame buffer overflow, resetting")
				frame = nil
			}
		}
		if err != nil {
			return err
		}
	}
}

func drainFrames(buffer []byte, emit func([]byte)) []byte {
	for {
		start := bytes.Index(buffer, jpegSOI)
		if start == -1 {
			// keep a trailing 0xFF in case the marker is split across reads
			if len(buffer) > 0 && buffer[len(buffer)-1] == 0xFF {
				return []byte{0xFF}
			}
			return nil
		}
		buffer = buffer[start:]

		end := bytes.Index(buffer[len(jpegSOI):], jpegEOI)
		if end == -1 {
			return buffer
		}
		end += len(jpegSOI) + len(jpegEOI)

		out := make([]byte, end)
		copy(out, buffer[:end])
		emit(out)

		rest := make([]byte, len(buffer)-end)
		copy(rest, buffer[end:])
		buffer = rest
	}
}
