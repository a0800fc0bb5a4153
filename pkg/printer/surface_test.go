package printer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	connected bool
	err       error
	jobs      [][]byte
}

func (p *recordingPrinter) Print(ctx context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) Close() error      { return nil }
func (p *recordingPrinter) IsConnected() bool { return p.connected }

func TestSpoolSurface_FrameRequiresPrinter(t *testing.T) {
	_, err := NewSpoolSurface(nil).Frame()
	assert.ErrorIs(t, err, ErrFrameUnavailable)

	// a disconnected printer still hands out the frame
	frame, err := NewSpoolSurface(&recordingPrinter{}).Frame()
	require.NoError(t, err)
	assert.NotNil(t, frame)
}

func TestSpoolSurface_UnreachableDeviceIsFrameUnavailable(t *testing.T) {
	s := NewSpoolSurface(NewNullPrinter())
	require.NoError(t, s.Load([]byte("x")))

	err := s.Print(context.Background())
	assert.ErrorIs(t, err, ErrFrameUnavailable)
	assert.ErrorIs(t, err, ErrDeviceUnreachable)
}

func TestSpoolSurface_LoadReplacesContent(t *testing.T) {
	p := &recordingPrinter{connected: true}
	s := NewSpoolSurface(p)
	frame, err := s.Frame()
	require.NoError(t, err)

	doc := []byte("first")
	require.NoError(t, frame.Load(doc))
	doc[0] = 'F'
	require.NoError(t, frame.Print(context.Background()))

	require.NoError(t, frame.Load([]byte("2nd")))
	require.NoError(t, frame.Print(context.Background()))
	require.NoError(t, frame.Print(context.Background()))

	assert.Equal(t, [][]byte{[]byte("first"), []byte("2nd"), []byte("2nd")}, p.jobs)
}

func TestSpoolSurface_PrintWithoutContent(t *testing.T) {
	s := NewSpoolSurface(&recordingPrinter{connected: true})

	assert.ErrorIs(t, s.Print(context.Background()), ErrNoContent)
}

func TestSpoolSurface_PrintError(t *testing.T) {
	s := NewSpoolSurface(&recordingPrinter{connected: true, err: errors.New("offline")})
	require.NoError(t, s.Load([]byte("x")))

	err := s.Print(context.Background())
	assert.EqualError(t, err, "offline")
	assert.NotErrorIs(t, err, ErrFrameUnavailable)
}
