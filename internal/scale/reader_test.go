package scale

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weighbridge-backend/config"
)

// fakePort replays scripted lines and then reports "nothing pending".
type fakePort struct {
	mu     sync.Mutex
	lines  []string
	errAt  int // fail with readErr once this many lines were consumed; -1 disables
	read   int
	closed bool
}

var errReadFailed = errors.New("read failed")

func (f *fakePort) ReadLine() (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errAt >= 0 && f.read >= f.errAt {
		return "", false, errReadFailed
	}
	if len(f.lines) == 0 {
		return "", false, nil
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	f.read++
	return line, true, nil
}

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePort) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fastConfig keeps the loop timings tiny so tests run in milliseconds.
func fastConfig() config.ScaleConfig {
	return config.ScaleConfig{
		BaudRate:    9600,
		Settle:      time.Millisecond,
		Backoff:     2 * time.Millisecond,
		Poll:        time.Millisecond,
		ReadTimeout: 10 * time.Millisecond,
	}
}

func TestReaderDeviceNeverOpens(t *testing.T) {
	var attempts atomic.Int64
	open := func(name string, baud int, readTimeout time.Duration) (Port, error) {
		attempts.Add(1)
		return nil, errors.New("no such device")
	}

	r := NewReader("/dev/ttyUSB0", fastConfig(), open)
	r.Start()
	defer r.Stop()

	// The loop must keep retrying and stay alive while the reading never
	// moves off its initial value.
	require.Eventually(t, func() bool { return attempts.Load() >= 3 },
		time.Second, time.Millisecond)
	assert.True(t, r.IsAlive())
	assert.Equal(t, "0.00", r.CurrentWeight())
}

func TestReaderParsesWeightLine(t *testing.T) {
	port := &fakePort{lines: []string{"12.34 kg"}, errAt: -1}
	open := func(name string, baud int, readTimeout time.Duration) (Port, error) {
		return port, nil
	}

	r := NewReader("/dev/ttyUSB0", fastConfig(), open)
	r.Start()
	defer r.Stop()

	require.Eventually(t, func() bool { return r.CurrentWeight() == "12.34" },
		time.Second, time.Millisecond)
	assert.True(t, r.IsAlive())
}

func TestReaderFormatsToTwoDecimals(t *testing.T) {
	port := &fakePort{lines: []string{"weight: 7 kg"}, errAt: -1}
	open := func(name string, baud int, readTimeout time.Duration) (Port, error) {
		return port, nil
	}

	r := NewReader("/dev/ttyUSB0", fastConfig(), open)
	r.Start()
	defer r.Stop()

	require.Eventually(t, func() bool { return r.CurrentWeight() == "7.00" },
		time.Second, time.Millisecond)
}

func TestReaderIgnoresUnparsableLines(t *testing.T) {
	port := &fakePort{lines: []string{"ERR", "---", "45.6 kg"}, errAt: -1}
	open := func(name string, baud int, readTimeout time.Duration) (Port, error) {
		return port, nil
	}

	r := NewReader("/dev/ttyUSB0", fastConfig(), open)
	r.Start()
	defer r.Stop()

	// Garbage lines leave the reading untouched; the valid line lands.
	require.Eventually(t, func() bool { return r.CurrentWeight() == "45.60" },
		time.Second, time.Millisecond)
}

func TestReaderReconnectsAfterIOError(t *testing.T) {
	first := &fakePort{lines: []string{"11 kg"}, errAt: 1}
	second := &fakePort{lines: []string{"55 kg"}, errAt: -1}

	var opens atomic.Int64
	open := func(name string, baud int, readTimeout time.Duration) (Port, error) {
		if opens.Add(1) == 1 {
			return first, nil
		}
		return second, nil
	}

	r := NewReader("/dev/ttyUSB0", fastConfig(), open)
	r.Start()
	defer r.Stop()

	require.Eventually(t, func() bool { return r.CurrentWeight() == "55.00" },
		time.Second, time.Millisecond)
	assert.True(t, first.isClosed(), "failed handle should be closed before reconnecting")
	assert.GreaterOrEqual(t, opens.Load(), int64(2))
	assert.True(t, r.IsAlive(), "an I/O error must not kill the loop")
}

func TestReaderStop(t *testing.T) {
	port := &fakePort{lines: []string{"12.34 kg"}, errAt: -1}
	open := func(name string, baud int, readTimeout time.Duration) (Port, error) {
		return port, nil
	}

	r := NewReader("/dev/ttyUSB0", fastConfig(), open)
	r.Start()

	require.Eventually(t, func() bool { return r.CurrentWeight() == "12.34" },
		time.Second, time.Millisecond)

	r.Stop()
	r.Stop() // safe to call twice

	require.Eventually(t, func() bool { return !r.IsAlive() },
		time.Second, time.Millisecond)
	assert.True(t, port.isClosed())
	// The last reading stays available after the loop terminates.
	assert.Equal(t, "12.34", r.CurrentWeight())
}

func TestReaderNeverStartedIsNotAlive(t *testing.T) {
	r := NewReader("/dev/ttyUSB0", fastConfig(), nil)
	assert.False(t, r.IsAlive())
	assert.Equal(t, "0.00", r.CurrentWeight())
}
