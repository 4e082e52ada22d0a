package audio

import (
	"math"
	"testing"
)

func TestResample(t *testing.T) {
	t.Run("identity when rates match", func(t *testing.T) {
		b := Buffer{SampleRate: 24000, Samples: []int16{1, 2, 3}}
		got := Resample(b, 24000)
		if got.SampleRate != 24000 || len(got.Samples) != 3 {
			t.Fatalf("got %d samples at %d Hz", len(got.Samples), got.SampleRate)
		}
		for i := range b.Samples {
			if got.Samples[i] != b.Samples[i] {
				t.Errorf("sample[%d] = %d, want %d", i, got.Samples[i], b.Samples[i])
			}
		}
	})

	t.Run("downsample length follows ratio", func(t *testing.T) {
		b := Buffer{SampleRate: 24000, Samples: make([]int16, 24000)}
		got := Resample(b, 8000)
		if len(got.Samples) != 8000 {
			t.Errorf("got %d samples, want 8000", len(got.Samples))
		}
		if got.SampleRate != 8000 {
			t.Errorf("sample rate = %d, want 8000", got.SampleRate)
		}
	})

	t.Run("upsample length follows ratio", func(t *testing.T) {
		b := Buffer{SampleRate: 8000, Samples: make([]int16, 8000)}
		got := Resample(b, 24000)
		if len(got.Samples) != 24000 {
			t.Errorf("got %d samples, want 24000", len(got.Samples))
		}
	})

	t.Run("single sample input yields at least one output", func(t *testing.T) {
		b := Buffer{SampleRate: 48000, Samples: []int16{1234}}
		got := Resample(b, 8000)
		if len(got.Samples) < 1 {
			t.Fatal("expected at least one output sample")
		}
		if got.Samples[0] != 1234 {
			t.Errorf("sample[0] = %d, want 1234", got.Samples[0])
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		got := Resample(Buffer{SampleRate: 48000}, 24000)
		if len(got.Samples) != 0 {
			t.Errorf("got %d samples, want 0", len(got.Samples))
		}
		if got.SampleRate != 24000 {
			t.Errorf("sample rate = %d, want 24000", got.SampleRate)
		}
	})

	t.Run("constant signal stays within 1 of the constant", func(t *testing.T) {
		for _, v := range []int16{0, 1000, -1000, 32767, -32768} {
			src := make([]int16, 4410)
			for i := range src {
				src[i] = v
			}
			for _, rate := range []int{8000, 16000, 22050, 48000, 96000} {
				got := Resample(Buffer{SampleRate: 44100, Samples: src}, rate)
				for i, s := range got.Samples {
					if d := int(s) - int(v); d > 1 || d < -1 {
						t.Fatalf("rate %d value %d: sample[%d] = %d, drift > 1", rate, v, i, s)
					}
				}
			}
		}
	})

	t.Run("interpolation lands between neighbors", func(t *testing.T) {
		// Doubling the rate of [0, 100] inserts midpoints.
		b := Buffer{SampleRate: 1000, Samples: []int16{0, 100}}
		got := Resample(b, 2000)
		if len(got.Samples) != 4 {
			t.Fatalf("got %d samples, want 4", len(got.Samples))
		}
		want := []int16{0, 50, 100, 100}
		for i, w := range want {
			if got.Samples[i] != w {
				t.Errorf("sample[%d] = %d, want %d", i, got.Samples[i], w)
			}
		}
	})

	t.Run("never leaves int16 domain on a full-scale ramp", func(t *testing.T) {
		src := make([]int16, 1000)
		for i := range src {
			src[i] = int16(-32768 + (i*65535)/999)
		}
		got := Resample(Buffer{SampleRate: 44100, Samples: src}, 48000)
		for i, s := range got.Samples {
			if int(s) > 32767 || int(s) < -32768 {
				t.Fatalf("sample[%d] = %d out of domain", i, s)
			}
		}
	})
}

func TestBufferDuration(t *testing.T) {
	b := Buffer{SampleRate: 24000, Samples: make([]int16, 36000)}
	if got := b.Duration(); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("duration = %g, want 1.5", got)
	}

	if got := (Buffer{}).Duration(); got != 0 {
		t.Errorf("zero buffer duration = %g, want 0", got)
	}
}
