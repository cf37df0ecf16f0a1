package scale

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"weighbridge-backend/config"
)

// initialWeight is reported until the device produces its first valid line.
const initialWeight = "0.00"

var weightRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Reader maintains a best-effort connection to one serial scale and
// continuously publishes the latest parsed weight. Callers never block and
// never see device errors: a hard I/O failure only sends the loop back to
// its reconnect cycle. A stopped Reader cannot be restarted.
type Reader struct {
	portName string
	cfg      config.ScaleConfig
	open     Opener

	current atomic.Value // string, two-decimal formatted
	alive   atomic.Bool

	mu   sync.Mutex // guards port
	port Port

	stop     chan struct{}
	stopOnce sync.Once
}

// NewReader creates a reader for the named port. The loop does not run until
// Start is called.
func NewReader(portName string, cfg config.ScaleConfig, open Opener) *Reader {
	r := &Reader{
		portName: portName,
		cfg:      cfg,
		open:     open,
		stop:     make(chan struct{}),
	}
	r.current.Store(initialWeight)
	return r
}

// Start launches the reconnect-and-poll loop on its own goroutine.
func (r *Reader) Start() {
	r.alive.Store(true)
	go r.run()
}

// CurrentWeight returns the latest two-decimal formatted reading. It never
// blocks and never fails; before the first valid line it returns "0.00".
func (r *Reader) CurrentWeight() string {
	return r.current.Load().(string)
}

// IsAlive reports whether the loop goroutine is still running. A reader in
// its reconnect cycle is alive; only Stop (or never having started) makes
// this false.
func (r *Reader) IsAlive() bool {
	return r.alive.Load()
}

// Stop terminates the loop and closes any open handle. Safe to call more
// than once.
func (r *Reader) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.closePort()
}

func (r *Reader) run() {
	defer r.alive.Store(false)
	defer r.closePort()

	log.Printf("scale reader starting on port %s", r.portName)
	for {
		select {
		case <-r.stop:
			log.Println("scale reader stopped")
			return
		default:
		}

		if !r.connected() {
			p, err := r.open(r.portName, r.cfg.BaudRate, r.cfg.ReadTimeout)
			if err != nil {
				if !r.sleep(r.cfg.Backoff) {
					return
				}
				continue
			}
			r.setPort(p)
			// Let the device stabilize after opening.
			if !r.sleep(r.cfg.Settle) {
				return
			}
		}

		r.pollOnce()

		if !r.sleep(r.cfg.Poll) {
			return
		}
	}
}

// pollOnce reads at most one line and updates the published weight. A parse
// miss leaves the previous reading in place; a hard I/O error drops the
// connection so the next iteration reopens it.
func (r *Reader) pollOnce() {
	r.mu.Lock()
	p := r.port
	r.mu.Unlock()
	if p == nil {
		return
	}

	line, ok, err := p.ReadLine()
	if err != nil {
		log.Printf("scale read error, reconnecting: %v", err)
		r.closePort()
		return
	}
	if !ok {
		return
	}

	m := weightRe.FindString(line)
	if m == "" {
		return
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return
	}
	r.current.Store(fmt.Sprintf("%.2f", v))
}

// sleep waits for d unless a stop arrives first; reports whether the loop
// should continue.
func (r *Reader) sleep(d time.Duration) bool {
	select {
	case <-r.stop:
		return false
	case <-time.After(d):
		return true
	}
}

func (r *Reader) connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.port != nil
}

func (r *Reader) setPort(p Port) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.port = p
}

func (r *Reader) closePort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port != nil {
		r.port.Close()
		r.port = nil
	}
}
