package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric types.
const (
	TypeCounter   = "counter"
	TypeGauge     = "gauge"
	TypeHistogram = "histogram"
)

// Collector keeps counters, gauges and histogram summaries in memory.
type Collector struct {
	metrics map[string]*Metric
	mu      sync.RWMutex
}

// Metric is one labelled series. Histograms keep count, sum, min and max;
// Value is the last observation.
type Metric struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Count     int64             `json:"count,omitempty"`
	Sum       float64           `json:"sum,omitempty"`
	Min       float64           `json:"min,omitempty"`
	Max       float64           `json:"max,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Mean is Sum/Count for histograms and Value otherwise.
func (m Metric) Mean() float64 {
	if m.Type != TypeHistogram || m.Count == 0 {
		return m.Value
	}
	return m.Sum / float64(m.Count)
}

func NewCollector() *Collector {
	return &Collector{
		metrics: make(map[string]*Metric),
	}
}

// IncCounter adds 1 to a counter.
func (c *Collector) IncCounter(name string, labels map[string]string) {
	c.AddCounter(name, 1, labels)
}

func (c *Collector) AddCounter(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	metric := c.get(name, TypeCounter, labels)
	metric.Value += value
	metric.Timestamp = time.Now().Unix()
}

func (c *Collector) SetGauge(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	metric := c.get(name, TypeGauge, labels)
	metric.Value = value
	metric.Timestamp = time.Now().Unix()
}

func (c *Collector) ObserveHistogram(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	metric := c.get(name, TypeHistogram, labels)
	if metric.Count == 0 || value < metric.Min {
		metric.Min = value
	}
	if metric.Count == 0 || value > metric.Max {
		metric.Max = value
	}
	metric.Count++
	metric.Sum += value
	metric.Value = value
	metric.Timestamp = time.Now().Unix()
}

// ObserveDuration records the time since start in seconds.
func (c *Collector) ObserveDuration(name string, start time.Time, labels map[string]string) {
	c.ObserveHistogram(name, time.Since(start).Seconds(), labels)
}

// get returns the series for name and labels, creating it. Callers hold mu.
func (c *Collector) get(name, metricType string, labels map[string]string) *Metric {
	key := buildKey(name, labels)
	metric, exists := c.metrics[key]
	if !exists {
		metric = &Metric{Name: name, Type: metricType, Labels: copyLabels(labels)}
		c.metrics[key] = metric
	}
	return metric
}

// buildKey joins name and labels sorted by label name, so label map order
// does not split a series.
func buildKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteString(":")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(labels[k])
	}
	return b.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

// GetMetric returns a copy of one series, or nil.
func (c *Collector) GetMetric(name string, labels map[string]string) *Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metric, ok := c.metrics[buildKey(name, labels)]
	if !ok {
		return nil
	}
	copied := *metric
	return &copied
}

// Snapshot returns copies of every series sorted by key.
func (c *Collector) Snapshot() []Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.metrics))
	for k := range c.metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Metric, 0, len(keys))
	for _, k := range keys {
		out = append(out, *c.metrics[k])
	}
	return out
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = make(map[string]*Metric)
}
