package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := NewCollector()
	c.IncCounter("files_total", map[string]string{"status": "success"})
	c.IncCounter("files_total", map[string]string{"status": "success"})
	c.AddCounter("files_total", 3, map[string]string{"status": "failed", "stage": "decode"})

	success := c.GetMetric("files_total", map[string]string{"status": "success"})
	require.NotNil(t, success)
	assert.Equal(t, float64(2), success.Value)
	assert.Equal(t, TypeCounter, success.Type)

	failed := c.GetMetric("files_total", map[string]string{"stage": "decode", "status": "failed"})
	require.NotNil(t, failed)
	assert.Equal(t, float64(3), failed.Value)

	assert.Nil(t, c.GetMetric("files_total", nil))
}

func TestLabelOrderDoesNotSplitSeries(t *testing.T) {
	assert.Equal(t,
		buildKey("m", map[string]string{"a": "1", "b": "2", "c": "3"}),
		buildKey("m", map[string]string{"c": "3", "b": "2", "a": "1"}),
	)
	assert.Equal(t, "m:a=1:b=2", buildKey("m", map[string]string{"b": "2", "a": "1"}))
	assert.Equal(t, "m", buildKey("m", nil))
}

func TestGauge(t *testing.T) {
	c := NewCollector()
	c.SetGauge("found", 4, nil)
	c.SetGauge("found", 2, nil)

	assert.Equal(t, float64(2), c.GetMetric("found", nil).Value)
}

func TestHistogram(t *testing.T) {
	c := NewCollector()
	for _, v := range []float64{0.5, 0.1, 0.9} {
		c.ObserveHistogram("duration", v, nil)
	}

	m := c.GetMetric("duration", nil)
	require.NotNil(t, m)
	assert.Equal(t, int64(3), m.Count)
	assert.InDelta(t, 1.5, m.Sum, 1e-9)
	assert.Equal(t, 0.1, m.Min)
	assert.Equal(t, 0.9, m.Max)
	assert.Equal(t, 0.9, m.Value)
	assert.InDelta(t, 0.5, m.Mean(), 1e-9)

	c.ObserveDuration("elapsed", time.Now().Add(-time.Second), nil)
	assert.GreaterOrEqual(t, c.GetMetric("elapsed", nil).Value, 1.0)
}

func TestSnapshotIsSortedCopy(t *testing.T) {
	c := NewCollector()
	labels := map[string]string{"status": "success"}
	c.IncCounter("b", labels)
	c.IncCounter("a", nil)

	labels["status"] = "mutated"
	snapshot := c.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "a", snapshot[0].Name)
	assert.Equal(t, "b", snapshot[1].Name)
	assert.Equal(t, "success", snapshot[1].Labels["status"])

	snapshot[0].Value = 100
	assert.Equal(t, float64(1), c.GetMetric("a", nil).Value)

	c.Reset()
	assert.Empty(t, c.Snapshot())
}

func TestConcurrentUpdates(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncCounter("n", nil)
				c.ObserveHistogram("h", float64(j), nil)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(800), c.GetMetric("n", nil).Value)
	assert.Equal(t, int64(800), c.GetMetric("h", nil).Count)
}
