package diagnosis

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eye-diagnosis-api/internal/knowledge"
)

// fixedSource always picks index and draws value.
type fixedSource struct {
	index int
	value float64
}

func (f fixedSource) Categorical([]float64) int { return f.index }
func (f fixedSource) Uniform(float64, float64) float64 { return f.value }

func noDelay() Options {
	opts := DefaultOptions()
	opts.DelayEnabled = false
	return opts
}

func newTestService(t *testing.T, rnd Source, opts Options) Service {
	t.Helper()
	kb, err := knowledge.Builtin()
	require.NoError(t, err)
	svc, err := NewService(kb, rnd, opts)
	require.NoError(t, err)
	return svc
}

func TestPredict_NormalScenario(t *testing.T) {
	svc := newTestService(t, fixedSource{index: 4, value: 0.91}, noDelay())

	res, err := svc.Predict(context.Background())
	require.NoError(t, err)

	kb, _ := knowledge.Builtin()
	assert.Equal(t, "Normal", res.Disease)
	assert.Equal(t, 0.91, res.Confidence)
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, kb.Condition(4), res.Data)
}

func TestPredict_GlaucomaScenario(t *testing.T) {
	svc := newTestService(t, fixedSource{index: 1, value: 0.87}, noDelay())

	res, err := svc.Predict(context.Background())
	require.NoError(t, err)

	kb, _ := knowledge.Builtin()
	assert.Equal(t, "Glaucoma", res.Disease)
	assert.Equal(t, 0.87, res.Confidence)
	assert.Equal(t, StatusDetected, res.Status)
	assert.Equal(t, kb.Condition(1), res.Data)
}

func TestPredict_RoundsConfidence(t *testing.T) {
	svc := newTestService(t, fixedSource{index: 0, value: 0.91499}, noDelay())
	res, err := svc.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.91, res.Confidence)

	svc = newTestService(t, fixedSource{index: 0, value: 0.915001}, noDelay())
	res, err = svc.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.92, res.Confidence)
}

func TestPredict_Properties(t *testing.T) {
	svc := newTestService(t, NewSource(), noDelay())

	for i := 0; i < 5000; i++ {
		res, err := svc.Predict(context.Background())
		require.NoError(t, err)

		assert.Equal(t, res.Data.Name, res.Disease)
		if res.Confidence < 0.85 || res.Confidence > 0.99 {
			t.Fatalf("confidence %v outside [0.85, 0.99]", res.Confidence)
		}
		scaled := res.Confidence * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Fatalf("confidence %v has more than 2 decimals", res.Confidence)
		}
		if (res.Data.Name == "Normal") != (res.Status == StatusHealthy) {
			t.Fatalf("status %q inconsistent with %q", res.Status, res.Data.Name)
		}
		if res.Status != StatusHealthy && res.Status != StatusDetected {
			t.Fatalf("unexpected status %q", res.Status)
		}
	}
}

func TestPredict_Distribution(t *testing.T) {
	if testing.Short() {
		t.Skip("distribution check is slow")
	}
	svc := newTestService(t, NewSource(), noDelay())

	const trials = 100000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		res, err := svc.Predict(context.Background())
		require.NoError(t, err)
		counts[res.Disease]++
	}

	want := map[string]float64{
		"Cataract":             0.15,
		"Glaucoma":             0.15,
		"Diabetic Retinopathy": 0.15,
		"Conjunctivitis":       0.15,
		"Normal":               0.40,
	}
	require.Len(t, counts, len(want))
	for name, p := range want {
		assert.InDelta(t, p, float64(counts[name])/trials, 0.01, name)
	}
}

func TestPredict_ConsecutiveDrawsIndependent(t *testing.T) {
	if testing.Short() {
		t.Skip("independence check is slow")
	}
	svc := newTestService(t, NewSource(), noDelay())

	const trials = 100000
	pairs := map[[2]string]int{}
	after := map[string]int{}
	prev := ""
	for i := 0; i < trials; i++ {
		res, err := svc.Predict(context.Background())
		require.NoError(t, err)
		if prev != "" {
			pairs[[2]string{prev, res.Disease}]++
			after[prev]++
		}
		prev = res.Disease
	}

	given := float64(after["Normal"])
	require.Greater(t, given, 0.0)
	assert.InDelta(t, 0.40, float64(pairs[[2]string{"Normal", "Normal"}])/given, 0.02)
	assert.InDelta(t, 0.15, float64(pairs[[2]string{"Normal", "Cataract"}])/given, 0.02)

	given = float64(after["Glaucoma"])
	require.Greater(t, given, 0.0)
	assert.InDelta(t, 0.40, float64(pairs[[2]string{"Glaucoma", "Normal"}])/given, 0.02)
	assert.InDelta(t, 0.15, float64(pairs[[2]string{"Glaucoma", "Glaucoma"}])/given, 0.02)
}

func TestPredict_DelayIsApplied(t *testing.T) {
	opts := DefaultOptions()
	opts.Delay = 50 * time.Millisecond
	svc := newTestService(t, NewSource(), opts)

	start := time.Now()
	_, err := svc.Predict(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), opts.Delay)
}

func TestPredict_ConcurrentDelaysOverlap(t *testing.T) {
	opts := DefaultOptions()
	opts.Delay = 100 * time.Millisecond
	svc := newTestService(t, NewSource(), opts)

	const n = 8
	var wg sync.WaitGroup
	durations := make([]time.Duration, n)
	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			began := time.Now()
			_, err := svc.Predict(context.Background())
			assert.NoError(t, err)
			durations[i] = time.Since(began)
		}(i)
	}
	wg.Wait()

	for _, d := range durations {
		assert.GreaterOrEqual(t, d, opts.Delay)
	}
	assert.Less(t, time.Since(start), time.Duration(n/2)*opts.Delay)
}

func TestPredict_RunsToCompletionAfterCancel(t *testing.T) {
	opts := DefaultOptions()
	opts.Delay = 80 * time.Millisecond
	svc := newTestService(t, fixedSource{index: 1, value: 0.87}, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := svc.Predict(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), opts.Delay)
	assert.Equal(t, "Glaucoma", res.Disease)
	assert.Equal(t, 0.87, res.Confidence)
}

func TestPredict_DisabledDelayIgnoresDuration(t *testing.T) {
	opts := DefaultOptions()
	opts.DelayEnabled = false
	opts.Delay = time.Minute
	svc := newTestService(t, NewSource(), opts)

	start := time.Now()
	_, err := svc.Predict(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewService_Errors(t *testing.T) {
	_, err := NewService(nil, NewSource(), DefaultOptions())
	assert.Error(t, err)

	kb, err := knowledge.Builtin()
	require.NoError(t, err)

	bad := []Options{
		{Delay: -time.Second, ConfidenceMin: 0.85, ConfidenceMax: 0.99, Precision: 2},
		{ConfidenceMin: 0.99, ConfidenceMax: 0.85, Precision: 2},
		{ConfidenceMin: 0.5, ConfidenceMax: 1.5, Precision: 2},
		{ConfidenceMin: 0.85, ConfidenceMax: 0.99, Precision: 9},
		{ConfidenceMin: 0.851, ConfidenceMax: 0.859, Precision: 2},
	}
	for _, opts := range bad {
		_, err := NewService(kb, NewSource(), opts)
		assert.Error(t, err, "%+v", opts)
	}
}

func TestNewService_DefaultsSource(t *testing.T) {
	kb, err := knowledge.Builtin()
	require.NoError(t, err)
	svc, err := NewService(kb, nil, noDelay())
	require.NoError(t, err)

	_, err = svc.Predict(context.Background())
	assert.NoError(t, err)
	assert.Same(t, kb, svc.Catalog())
}

func TestPredict_ClampsToRangeAfterRounding(t *testing.T) {
	opts := noDelay()
	opts.ConfidenceMin = 0.851
	opts.ConfidenceMax = 0.989
	svc := newTestService(t, fixedSource{index: 0, value: 0.851}, opts)
	res, err := svc.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.86, res.Confidence)

	svc = newTestService(t, fixedSource{index: 0, value: 0.989}, opts)
	res, err = svc.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.98, res.Confidence)
}
