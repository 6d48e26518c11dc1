package reifier

import (
	"sync"

	"github.com/bisgardo/reification/internal/models"
)

// Sink receives diagnostics produced while processing requests
type Sink interface {
	Report(d models.Diagnostic)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(d models.Diagnostic)

// Report calls f(d)
func (f SinkFunc) Report(d models.Diagnostic) {
	f(d)
}

// Collector is a Sink that keeps every diagnostic in report order
type Collector struct {
	mu          sync.Mutex
	diagnostics []models.Diagnostic
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Report stores the diagnostic
func (c *Collector) Report(d models.Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns a copy of the collected diagnostics
func (c *Collector) Diagnostics() []models.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// BySeverity returns the collected diagnostics of one severity
func (c *Collector) BySeverity(severity models.Severity) []models.Diagnostic {
	var out []models.Diagnostic
	for _, d := range c.Diagnostics() {
		if d.Severity == severity {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any ERROR diagnostic was collected
func (c *Collector) HasErrors() bool {
	return len(c.BySeverity(models.SeverityError)) > 0
}

// Tee fans every diagnostic out to several sinks
type Tee []Sink

// Report forwards d to every sink
func (t Tee) Report(d models.Diagnostic) {
	for _, s := range t {
		s.Report(d)
	}
}
