package camera

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegLike(payload string) []byte {
	out := append([]byte{}, jpegSOI...)
	out = append(out, payload...)
	return append(out, jpegEOI...)
}

func TestSplitFrames(t *testing.T) {
	first := jpegLike("first")
	second := jpegLike("second")

	var stream []byte
	stream = append(stream, []byte("garbage")...)
	stream = append(stream, first...)
	stream = append(stream, 0x00, 0x01)
	stream = append(stream, second...)
	stream = append(stream, jpegSOI...)
	stream = append(stream, []byte("partial")...)

	t.Run("whole reads", func(t *testing.T) {
		var frames [][]byte
		err := SplitFrames(bytes.NewReader(stream), func(f []byte) { frames = append(frames, f) })
		assert.ErrorIs(t, err, io.EOF)
		require.Len(t, frames, 2)
		assert.Equal(t, first, frames[0])
		assert.Equal(t, second, frames[1])
	})

	t.Run("markers split across reads", func(t *testing.T) {
		var frames [][]byte
		err := SplitFrames(iotest.OneByteReader(bytes.NewReader(stream)), func(f []byte) { frames = append(frames, f) })
		assert.ErrorIs(t, err, io.EOF)
		require.Len(t, frames, 2)
		assert.Equal(t, first, frames[0])
		assert.Equal(t, second, frames[1])
	})
}

func TestAdapterStartStop(t *testing.T) {
	device := NewStaticDevice(jpegLike("a"), jpegLike("b"))
	adapter := NewAdapter(device, DefaultConstraints())

	session, err := adapter.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, session.Active())

	frame, err := session.CurrentFrame()
	require.NoError(t, err)
	assert.Equal(t, jpegLike("a"), frame.Data)

	frame.Data[0] = 0x00
	again, err := session.CurrentFrame()
	require.NoError(t, err)
	assert.Equal(t, jpegLike("b"), again.Data)

	adapter.Stop(session)
	adapter.Stop(session)
	assert.False(t, session.Active())
	assert.True(t, device.LastStream().Closed())

	_, err = session.CurrentFrame()
	assert.ErrorIs(t, err, ErrNotStreaming)
}

func TestAdapterStartFailures(t *testing.T) {
	denied := &StaticDevice{OpenErr: ErrPermissionDenied}
	_, err := NewAdapter(denied, Constraints{}).Start(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	broken := &StaticDevice{OpenErr: errors.New("no such device")}
	_, err = NewAdapter(broken, Constraints{}).Start(context.Background())
	assert.ErrorIs(t, err, ErrDeviceUnavailable)

	empty := NewStaticDevice()
	_, err = NewAdapter(empty, Constraints{}).Start(context.Background())
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}

func TestSessionStreamDied(t *testing.T) {
	device := NewStaticDevice(jpegLike("a"))
	session, err := NewAdapter(device, Constraints{}).Start(context.Background())
	require.NoError(t, err)

	device.LastStream().Fail()
	assert.False(t, session.Active())
	_, err = session.CurrentFrame()
	assert.ErrorIs(t, err, ErrNotStreaming)
}

func TestFFmpegDeviceMissing(t *testing.T) {
	device := NewFFmpegDevice("/dev/does-not-exist-video")
	_, err := device.Open(context.Background(), DefaultConstraints())
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}
