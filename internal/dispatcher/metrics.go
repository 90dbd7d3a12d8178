package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Outcome names recorded by the dispatcher.
const (
	OutcomeShow      = "show"
	OutcomeCancel    = "cancel"
	OutcomeIgnore    = "ignore"
	OutcomeConfigure = "configure"
	OutcomeError     = "error"
)

// Metrics counts notifications handled by a Dispatcher.
type Metrics struct {
	mu sync.RWMutex

	kinds map[string]*KindMetrics

	total    uint64
	errors   uint64
	duration time.Duration
}

// KindMetrics holds counters for one notification kind ("char", "click",
// "colors").
type KindMetrics struct {
	Kind          string
	Count         uint64
	Outcomes      map[string]uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	Last          time.Time
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{
		kinds: make(map[string]*KindMetrics),
	}
}

// Record adds one handled notification.
func (m *Metrics) Record(kind, outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.duration += duration
	if outcome == OutcomeError {
		m.errors++
	}

	km := m.kinds[kind]
	if km == nil {
		km = &KindMetrics{Kind: kind, Outcomes: make(map[string]uint64)}
		m.kinds[kind] = km
	}
	km.Count++
	km.Outcomes[outcome]++
	km.TotalDuration += duration
	km.Last = time.Now()
	if duration > km.MaxDuration {
		km.MaxDuration = duration
	}
}

// Kinds returns copies of all counters ordered by count, highest first.
func (m *Metrics) Kinds() []*KindMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*KindMetrics, 0, len(m.kinds))
	for _, km := range m.kinds {
		out = append(out, km.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.kinds = make(map[string]*KindMetrics)
	m.total = 0
	m.errors = 0
	m.duration = 0
}

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	Total           uint64
	Errors          uint64
	AverageDuration time.Duration
	Timestamp       time.Time
}

// Snapshot returns the current totals.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := MetricsSnapshot{
		Total:     m.total,
		Errors:    m.errors,
		Timestamp: time.Now(),
	}
	if m.total > 0 {
		s.AverageDuration = m.duration / time.Duration(m.total)
	}
	return s
}

func (km *KindMetrics) clone() *KindMetrics {
	c := *km
	c.Outcomes = make(map[string]uint64, len(km.Outcomes))
	for k, v := range km.Outcomes {
		c.Outcomes[k] = v
	}
	return &c
}
