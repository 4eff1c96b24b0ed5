// Package performance provides performance tracking and monitoring capabilities
// for the site service.
package performance

import (
	"sort"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers []*Marker      // Completed markers, oldest first
	active  int            // Operations started but not yet completed
	config  *TrackerConfig // Tracker configuration
	started time.Time
	mu      sync.RWMutex
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers            int           `json:"maxMarkers"`            // Maximum number of completed markers to retain
	Retention             time.Duration `json:"retention"`             // How long completed markers are kept
	SlowResponseThreshold time.Duration `json:"slowResponseThreshold"` // Duration counted as slow in summaries
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:            5000,
		Retention:             time.Hour,
		SlowResponseThreshold: 2 * time.Second,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		config:  config,
		started: time.Now(),
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation, scope string) *Marker {
	marker := &Marker{
		Operation: operation,
		Scope:     scope,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
		onClose:   t.record,
	}

	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return marker
}

// record stores a completed marker and enforces retention limits
func (t *Tracker) record(marker *Marker) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active--
	t.markers = append(t.markers, marker)
	if over := len(t.markers) - t.config.MaxMarkers; over > 0 {
		t.markers = append([]*Marker(nil), t.markers[over:]...)
	}
}

// Cleanup removes completed markers older than the retention window and
// returns how many were dropped
func (t *Tracker) Cleanup() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-t.config.Retention)
	keep := t.markers[:0]
	for _, marker := range t.markers {
		if marker.EndTime.After(cutoff) {
			keep = append(keep, marker)
		}
	}
	removed := len(t.markers) - len(keep)
	t.markers = keep
	return removed
}

// GetMetrics returns completed markers for an operation, or all when empty
func (t *Tracker) GetMetrics(operation string) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var metrics []Marker
	for _, marker := range t.markers {
		if operation == "" || marker.Operation == operation {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// Summary aggregates retained markers per operation, sorted by operation name
func (t *Tracker) Summary() []OperationSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	byOp := make(map[string]*OperationSummary)
	totals := make(map[string]time.Duration)
	for _, m := range t.markers {
		s, ok := byOp[m.Operation]
		if !ok {
			s = &OperationSummary{Operation: m.Operation}
			byOp[m.Operation] = s
		}
		s.Count++
		if !m.Success {
			s.Failures++
		}
		if m.Duration > s.MaxDuration {
			s.MaxDuration = m.Duration
		}
		if m.Duration > t.config.SlowResponseThreshold {
			s.SlowOperations++
		}
		totals[m.Operation] += m.Duration
	}

	summaries := make([]OperationSummary, 0, len(byOp))
	for op, s := range byOp {
		s.AverageDuration = totals[op] / time.Duration(s.Count)
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Operation < summaries[j].Operation
	})
	return summaries
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return map[string]any{
		"trackerUptime":       time.Since(t.started).String(),
		"activeOperations":    t.active,
		"completedOperations": len(t.markers),
	}
}
