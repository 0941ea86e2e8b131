package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answer struct {
	address string
	port    int
	ok      bool
}

type fakeDialogs struct {
	answers  []answer
	asked    []answer
	messages []string
}

func (f *fakeDialogs) AskConnection(address string, port int) (string, int, bool) {
	f.asked = append(f.asked, answer{address, port, true})
	if len(f.answers) == 0 {
		return "", 0, false
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a.address, a.port, a.ok
}

func (f *fakeDialogs) ShowMessage(text string) {
	f.messages = append(f.messages, text)
}

func TestConnectLoopCancel(t *testing.T) {
	cfg := DefaultConfig()
	dlg := &fakeDialogs{answers: []answer{{ok: false}}}
	connect := func(context.Context, string, int, int) (Tracker, int64, error) {
		t.Fatal("connect must not be called")
		return nil, 0, nil
	}
	_, _, err := connectLoop(context.Background(), cfg, dlg, connect)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestConnectLoopRetry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = "192.168."
	dlg := &fakeDialogs{answers: []answer{
		{"192.168.1.5", 8080, true},
		{"192.168.1.6", 8081, true},
	}}
	attempts := 0
	want := &fakeTracker{}
	connect := func(_ context.Context, address string, port, samples int) (Tracker, int64, error) {
		attempts++
		assert.Equal(t, cfg.EchoSamples, samples)
		if address == "192.168.1.5" {
			return nil, 0, errors.New("connection refused")
		}
		return want, 1234, nil
	}

	dev, offset, err := connectLoop(context.Background(), cfg, dlg, connect)
	require.NoError(t, err)
	assert.Same(t, want, dev)
	assert.Equal(t, int64(1234), offset)
	assert.Equal(t, 2, attempts)
	require.Len(t, dlg.messages, 1)
	assert.Contains(t, dlg.messages[0], "Failed to connect to Pupil Labs")

	// the second dialog is prefilled with the first answer
	assert.Equal(t, "192.168.", dlg.asked[0].address)
	assert.Equal(t, "192.168.1.5", dlg.asked[1].address)
	assert.Equal(t, "192.168.1.6", cfg.Address)
	assert.Equal(t, 8081, cfg.Port)
}

func TestConnectLoopGivesUp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConnectAttempts = 3
	dlg := &fakeDialogs{}
	for i := 0; i < 10; i++ {
		dlg.answers = append(dlg.answers, answer{"10.0.0.1", 8080, true})
	}
	refused := errors.New("connection refused")
	attempts := 0
	connect := func(context.Context, string, int, int) (Tracker, int64, error) {
		attempts++
		return nil, 0, refused
	}

	_, _, err := connectLoop(context.Background(), cfg, dlg, connect)
	assert.ErrorIs(t, err, refused)
	assert.ErrorContains(t, err, "3 attempts")
	assert.Equal(t, 3, attempts)
	assert.Len(t, dlg.messages, 3)
}

func TestConnectLoopContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dlg := &fakeDialogs{answers: []answer{{"10.0.0.1", 8080, true}}}
	_, _, err := connectLoop(ctx, DefaultConfig(), dlg, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dlg.asked)
}
