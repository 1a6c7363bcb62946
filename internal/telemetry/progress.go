package telemetry

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Snapshot is a point-in-time view of run progress.
type Snapshot struct {
	Sorts    int64
	Cells    int64
	Failures int64
}

// Snapshot returns the current totals.
func (r *Recorder) Snapshot() Snapshot {
	return Snapshot{Sorts: r.sorts.Load(), Cells: r.cells.Load(), Failures: r.failures.Load()}
}

// Progress periodically logs run progress from a Recorder. The zero interval
// disables it; Start and Stop are then no-ops.
type Progress struct {
	rec        *Recorder
	log        *zap.Logger
	interval   time.Duration
	totalCells int64

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started time.Time
}

// NewProgress reports against totalCells expected (algorithm, cell) results.
func NewProgress(rec *Recorder, log *zap.Logger, interval time.Duration, totalCells int) *Progress {
	if log == nil {
		log = zap.NewNop()
	}
	return &Progress{rec: rec, log: log, interval: interval, totalCells: int64(totalCells)}
}

// Start launches the logging loop. Calling Start on a running Progress
// restarts it.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	if p.interval <= 0 {
		return
	}
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.started = time.Now()
	go p.loop(p.stop, p.done)
}

// Stop ends the loop and logs a final snapshot.
func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop == nil {
		return
	}
	p.stopLocked()
	p.publish()
}

func (p *Progress) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		<-p.done
		p.stop, p.done = nil, nil
	}
}

func (p *Progress) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.publish()
		case <-stop:
			return
		}
	}
}

func (p *Progress) publish() {
	s := p.rec.Snapshot()
	elapsed := time.Since(p.started)
	var pct, rate float64
	if p.totalCells > 0 {
		pct = 100 * float64(s.Cells) / float64(p.totalCells)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(s.Sorts) / secs
	}
	p.log.Info("benchmark progress",
		zap.Int64("cells", s.Cells),
		zap.Int64("cells_total", p.totalCells),
		zap.Float64("percent", pct),
		zap.Int64("sorts", s.Sorts),
		zap.Float64("sorts_per_sec", rate),
		zap.Int64("verify_failures", s.Failures),
		zap.Duration("elapsed", elapsed))
}
