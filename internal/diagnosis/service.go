package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"eye-diagnosis-api/internal/knowledge"
)

// Options tune the simulated classifier.
type Options struct {
	DelayEnabled  bool
	Delay         time.Duration
	ConfidenceMin float64
	ConfidenceMax float64
	Precision     int
}

// DefaultOptions returns the reference behaviour: 1.5s delay, confidence in [0.85, 0.99] at 2 digits.
func DefaultOptions() Options {
	return Options{
		DelayEnabled:  true,
		Delay:         1500 * time.Millisecond,
		ConfidenceMin: 0.85,
		ConfidenceMax: 0.99,
		Precision:     2,
	}
}

func (o Options) Validate() error {
	if o.Delay < 0 {
		return fmt.Errorf("delay must be >= 0, got %s", o.Delay)
	}
	if o.Precision < 0 || o.Precision > 6 {
		return fmt.Errorf("precision must be 0-6, got %d", o.Precision)
	}
	if o.ConfidenceMin < 0 || o.ConfidenceMax > 1 || o.ConfidenceMin > o.ConfidenceMax {
		return fmt.Errorf("confidence range must satisfy 0 <= min <= max <= 1, got [%v, %v]", o.ConfidenceMin, o.ConfidenceMax)
	}
	scale := math.Pow(10, float64(o.Precision))
	if math.Ceil(o.ConfidenceMin*scale-1e-9) > math.Floor(o.ConfidenceMax*scale+1e-9) {
		return fmt.Errorf("confidence range [%v, %v] holds no value at %d digits", o.ConfidenceMin, o.ConfidenceMax, o.Precision)
	}
	return nil
}

// Service stands in for an eye image classifier.
type Service interface {
	// Predict simulates classification of an image it never inspects.
	Predict(ctx context.Context) (Result, error)
	Catalog() *knowledge.Base
}

type service struct {
	kb    *knowledge.Base
	rnd   Source
	opts  Options
	scale float64
}

func NewService(kb *knowledge.Base, rnd Source, opts Options) (Service, error) {
	if kb == nil {
		return nil, errors.New("knowledge base is not initialized")
	}
	if rnd == nil {
		rnd = NewSource()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &service{
		kb:    kb,
		rnd:   rnd,
		opts:  opts,
		scale: math.Pow(10, float64(opts.Precision)),
	}, nil
}

func (s *service) Catalog() *knowledge.Base {
	return s.kb
}

// Predict always runs to completion, delay included. A caller that stops waiting is the
// transport's problem, so ctx is not consulted here.
func (s *service) Predict(_ context.Context) (Result, error) {
	// 1. Simulated inference latency
	if s.opts.DelayEnabled && s.opts.Delay > 0 {
		time.Sleep(s.opts.Delay)
	}

	// 2. Weighted pick, independent of any previous call
	i := s.rnd.Categorical(s.kb.Weights())

	// 3. Confidence, independent of the pick
	confidence := s.confidence()

	return newResult(s.kb.Condition(i), confidence), nil
}

func (s *service) confidence() float64 {
	lo, hi := s.opts.ConfidenceMin, s.opts.ConfidenceMax
	v := math.Round(s.rnd.Uniform(lo, hi)*s.scale) / s.scale
	if v < lo {
		v = math.Ceil(lo*s.scale-1e-9) / s.scale
	}
	if v > hi {
		v = math.Floor(hi*s.scale+1e-9) / s.scale
	}
	return v
}
