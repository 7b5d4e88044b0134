package metrics

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Histogram Tests ---

func TestHistogramBasic(t *testing.T) {
	h := NewHistogram([]float64{10, 50, 100, 500})

	for _, v := range []float64{5, 25, 75, 200, 1000} {
		h.Observe(v)
	}

	assert.Equal(t, uint64(5), h.Count())
	assert.InDelta(t, (5.0+25+75+200+1000)/5, h.Mean(), 1e-9)
}

func TestHistogramSummary(t *testing.T) {
	h := NewHistogram([]float64{10, 50, 100})

	h.Observe(5)
	h.Observe(15)
	h.Observe(60)
	h.Observe(150)

	s := h.Summary()
	assert.Equal(t, uint64(4), s.Count)
	assert.Equal(t, 230.0, s.Sum)
	assert.Equal(t, 5.0, s.Min)
	assert.Equal(t, 150.0, s.Max)
	assert.Equal(t, 57.5, s.Mean)

	require.Len(t, s.Buckets, 4)
	cumulative := []uint64{1, 2, 3, 4}
	for i, b := range s.Buckets {
		assert.Equal(t, cumulative[i], b.Count, "bucket %d", i)
	}
	assert.True(t, math.IsInf(s.Buckets[3].UpperBound, 1))

	for _, p := range SummaryPercentiles {
		assert.Contains(t, s.Percentiles, p)
	}
}

func TestHistogramBoundaryValueLandsInBucket(t *testing.T) {
	h := NewHistogram([]float64{10, 20})
	h.Observe(10)

	s := h.Summary()
	assert.Equal(t, uint64(1), s.Buckets[0].Count)
}

func TestHistogramEmpty(t *testing.T) {
	h := NewHistogram([]float64{10, 50})

	s := h.Summary()
	assert.Zero(t, s.Count)
	assert.Zero(t, h.Mean())
	assert.Empty(t, s.Buckets)
	assert.Empty(t, s.Percentiles)
	assert.Zero(t, h.Percentile(0.5))
}

func TestHistogramNoBuckets(t *testing.T) {
	h := NewHistogram(nil)
	h.Observe(3)
	h.Observe(7)

	assert.Equal(t, 7.0, h.Percentile(0.5))
	assert.Len(t, h.Summary().Buckets, 1)
}

func TestHistogramUnsortedBuckets(t *testing.T) {
	h := NewHistogram([]float64{100, 10, 50, 10})
	h.Observe(30)

	s := h.Summary()
	require.Len(t, s.Buckets, 4)
	assert.Equal(t, []float64{10, 50, 100}, []float64{
		s.Buckets[0].UpperBound, s.Buckets[1].UpperBound, s.Buckets[2].UpperBound,
	})
	assert.Equal(t, uint64(1), s.Buckets[1].Count)
}

func TestHistogramDoesNotAliasBuckets(t *testing.T) {
	bounds := []float64{30, 20, 10}
	_ = NewHistogram(bounds)
	assert.Equal(t, []float64{30, 20, 10}, bounds)
}

// --- Percentile Tests ---

func TestHistogramPercentiles(t *testing.T) {
	h := NewHistogram([]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100})

	for i := 1; i <= 100; i++ {
		h.Observe(float64(i))
	}

	assert.InDelta(t, 50, h.Percentile(0.5), 10)
	assert.InDelta(t, 90, h.Percentile(0.9), 10)

	s := h.Summary()
	assert.InDelta(t, 99, s.Percentiles[0.99], 10)
	assert.LessOrEqual(t, s.Percentiles[0.5], s.Percentiles[0.9])
	assert.LessOrEqual(t, s.Percentiles[0.9], s.Percentiles[0.99])
}

func TestHistogramPercentileOverflow(t *testing.T) {
	h := NewHistogram([]float64{10})
	h.Observe(5000)

	assert.Equal(t, 5000.0, h.Percentile(0.99))
}

func TestHistogramPercentileFirstBucket(t *testing.T) {
	h := NewHistogram([]float64{100, 200})
	h.Observe(2)

	// Never reports more than the observed maximum.
	assert.Equal(t, 2.0, h.Percentile(0.5))
}

// --- Concurrency Tests ---

func TestHistogramConcurrency(t *testing.T) {
	h := NewHistogram([]float64{10, 50, 100, 500, 1000})

	var wg sync.WaitGroup
	for g := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				h.Observe(float64(g*100 + i))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(1000), h.Count())
}

func TestHistogramReset(t *testing.T) {
	h := NewHistogram([]float64{10, 50})
	h.Observe(5)
	h.Observe(25)

	h.Reset()

	assert.Zero(t, h.Count())
	assert.Zero(t, h.Mean())

	h.Observe(7)
	s := h.Summary()
	assert.Equal(t, 7.0, s.Min)
	assert.Equal(t, 7.0, s.Max)
}

// --- Benchmarks ---

func BenchmarkHistogramObserve(b *testing.B) {
	h := NewHistogram(LatencyBuckets)
	for b.Loop() {
		h.Observe(123)
	}
}
