// Package timeline assembles independently produced speech clips into one
// time-aligned mono waveform using overlap-add composition.
package timeline

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"github.com/aobrainsystems/voxshift/internal/audio"
)

// ErrEmptyInput is returned when composition is requested with no segments.
var ErrEmptyInput = errors.New("no segments to compose")

// Segment is one synthesized utterance placed on the timeline. Start and End
// are in seconds; the audio may carry any sample rate and is resampled to
// the compositor's target rate during composition.
type Segment struct {
	Start float64
	End   float64
	Audio audio.Buffer
}

type options struct {
	workers int
	logger  *slog.Logger
}

// Option configures a Compositor.
type Option func(*options)

// WithWorkers bounds the number of concurrent per-segment resample workers.
// Zero or negative selects runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger sets the logger used for composition progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func defaultOptions() options {
	return options{
		workers: 0,
		logger:  slog.Default(),
	}
}

// Compositor places segments on a shared timeline at a fixed output rate.
type Compositor struct {
	sampleRate int
	workers    int
	log        *slog.Logger
}

// New returns a Compositor producing audio at sampleRate.
func New(sampleRate int, optFns ...Option) (*Compositor, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	workers := opts.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	return &Compositor{
		sampleRate: sampleRate,
		workers:    workers,
		log:        opts.logger,
	}, nil
}

// Compose sums every segment's audio into its assigned time window and
// returns the clamped mono waveform. The output spans at least
// minDuration seconds, extended to cover the latest segment end and the
// natural length of each segment's audio.
//
// Overlapping segments add their amplitudes rather than overwriting; the
// result does not depend on segment order. A segment whose window falls
// entirely outside the output contributes nothing.
//
// Resampling runs on a bounded worker pool; accumulation into the shared
// buffer is serialized afterwards, so no locking is needed on the
// accumulator itself.
func (c *Compositor) Compose(segments []Segment, minDuration float64) (audio.Buffer, error) {
	if len(segments) == 0 {
		return audio.Buffer{}, ErrEmptyInput
	}

	totalDuration := minDuration
	for _, seg := range segments {
		if seg.End > totalDuration {
			totalDuration = seg.End
		}
		if end := seg.Start + seg.Audio.Duration(); end > totalDuration {
			totalDuration = end
		}
	}

	totalSamples := int(math.Ceil(totalDuration * float64(c.sampleRate)))
	if totalSamples < 1 {
		totalSamples = 1
	}

	resampled := c.resampleAll(segments)

	// Accumulator is scoped to this call; wide enough that summed
	// overlaps cannot wrap before the final clamp.
	acc := make([]int32, totalSamples)
	for i, seg := range segments {
		c.accumulate(acc, seg, resampled[i])
	}

	out := make([]int16, totalSamples)
	for i, v := range acc {
		out[i] = audio.Clamp16(int(v))
	}

	c.log.Debug("composed timeline",
		"segments", len(segments),
		"samples", totalSamples,
		"duration_sec", totalDuration,
	)

	return audio.Buffer{SampleRate: c.sampleRate, Samples: out}, nil
}

// resampleAll converts every segment's audio to the target rate, preserving
// segment order in the result. Segments are independent, so this phase is
// parallel up to the configured worker bound.
func (c *Compositor) resampleAll(segments []Segment) []audio.Buffer {
	results := make([]audio.Buffer, len(segments))

	sem := make(chan struct{}, c.workers)

	var wg sync.WaitGroup
	for i, seg := range segments {
		wg.Add(1)

		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = audio.Resample(seg.Audio, c.sampleRate)
		}()
	}
	wg.Wait()

	return results
}

// accumulate adds the first writable samples of buf into acc at the
// segment's start index. Addition, never overwrite.
func (c *Compositor) accumulate(acc []int32, seg Segment, buf audio.Buffer) {
	startIndex := int(math.Round(seg.Start * float64(c.sampleRate)))

	windowSamples := int(math.Round((seg.End - seg.Start) * float64(c.sampleRate)))
	if windowSamples < 1 {
		windowSamples = 1
	}

	writable := len(buf.Samples)
	if windowSamples < writable {
		writable = windowSamples
	}
	if remaining := len(acc) - startIndex; remaining < writable {
		writable = remaining
	}

	for offset := 0; offset < writable; offset++ {
		acc[startIndex+offset] += int32(buf.Samples[offset])
	}
}
