package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks runtime counters for a session.
type Metrics struct {
	// Input
	keyCount     atomic.Uint64
	clickCount   atomic.Uint64
	ignoredInput atomic.Uint64

	// Calculator
	actionCount      atomic.Uint64
	computationCount atomic.Uint64

	// Drawing
	drawCount   atomic.Uint64
	drawTotalNs atomic.Int64
	drawMaxNs   atomic.Int64

	// Configuration
	reloadCount      atomic.Uint64
	reloadErrorCount atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordKey records a key press that reached the keymap.
func (m *Metrics) RecordKey() {
	m.keyCount.Add(1)
}

// RecordClick records a pointer press on the widget.
func (m *Metrics) RecordClick() {
	m.clickCount.Add(1)
}

// RecordIgnored records input that mapped to no action.
func (m *Metrics) RecordIgnored() {
	m.ignoredInput.Add(1)
}

// RecordAction records an action applied to the engine. computed is true
// when the action produced a result.
func (m *Metrics) RecordAction(computed bool) {
	m.actionCount.Add(1)
	if computed {
		m.computationCount.Add(1)
	}
}

// RecordDraw records frame drawing time.
func (m *Metrics) RecordDraw(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.drawCount.Add(1)
	m.drawTotalNs.Add(ns)

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.drawMaxNs.Load()
		if ns <= old {
			break
		}
		if m.drawMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordReload records a configuration reload attempt.
func (m *Metrics) RecordReload(err error) {
	m.reloadCount.Add(1)
	if err != nil {
		m.reloadErrorCount.Add(1)
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	drawCount := m.drawCount.Load()

	var avgDrawNs int64
	if drawCount > 0 {
		avgDrawNs = m.drawTotalNs.Load() / int64(drawCount)
	}

	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		Keys:         m.keyCount.Load(),
		Clicks:       m.clickCount.Load(),
		Ignored:      m.ignoredInput.Load(),
		Actions:      m.actionCount.Load(),
		Computations: m.computationCount.Load(),
		Draws:        drawCount,
		AvgDrawNs:    avgDrawNs,
		MaxDrawNs:    m.drawMaxNs.Load(),
		Reloads:      m.reloadCount.Load(),
		ReloadErrors: m.reloadErrorCount.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	Keys         uint64
	Clicks       uint64
	Ignored      uint64
	Actions      uint64
	Computations uint64
	Draws        uint64
	AvgDrawNs    int64
	MaxDrawNs    int64
	Reloads      uint64
	ReloadErrors uint64
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer starts a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
