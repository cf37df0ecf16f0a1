package render

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"weighbridge-backend/internal/store"
)

// Pool is a worker pool that renders finalized tickets to PDF files in the
// background, so closing a weighing never waits on disk or layout work.
type Pool struct {
	size     int
	jobs     chan int64
	store    store.Store
	renderer *Renderer
	outDir   string
}

// NewPool creates a new render pool writing into outDir.
func NewPool(size int, st store.Store, r *Renderer, outDir string) *Pool {
	return &Pool{
		size:     size,
		jobs:     make(chan int64, size),
		store:    st,
		renderer: r,
		outDir:   outDir,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		go p.worker(ctx, i)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	log.Printf("render worker %d started", id)
	for {
		select {
		case ticketID := <-p.jobs:
			p.renderTicket(ctx, ticketID)
		case <-ctx.Done():
			log.Printf("render worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a ticket for rendering.
func (p *Pool) Dispatch(ticketID int64) {
	p.jobs <- ticketID
}

// Jobs returns the jobs channel for testing.
func (p *Pool) Jobs() chan int64 {
	return p.jobs
}

// renderTicket fetches the ticket, renders it, and writes the PDF file. A
// failed render is logged and dropped; the ticket row itself is the durable
// record and the PDF can be regenerated on demand.
func (p *Pool) renderTicket(ctx context.Context, ticketID int64) {
	ticket, err := p.store.FetchTicket(ctx, ticketID)
	if err != nil {
		log.Printf("render worker: failed to fetch ticket %d: %v", ticketID, err)
		return
	}

	data, err := p.renderer.Render(ticket)
	if err != nil {
		log.Printf("render worker: failed to render ticket %d: %v", ticketID, err)
		return
	}

	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		log.Printf("render worker: failed to create output dir %s: %v", p.outDir, err)
		return
	}
	path := filepath.Join(p.outDir, p.renderer.FileName(ticket))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("render worker: failed to write %s: %v", path, err)
		return
	}
	log.Printf("ticket %d rendered to %s", ticketID, path)
}
