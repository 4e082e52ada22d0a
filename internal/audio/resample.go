package audio

import "math"

// Resample converts b to targetRate using linear interpolation. When the
// rates already match the input buffer is returned unchanged.
//
// Interpolating between two in-domain int16 values and rounding can never
// leave the int16 domain, so no clamping is applied here.
func Resample(b Buffer, targetRate int) Buffer {
	if targetRate == b.SampleRate {
		return b
	}
	if len(b.Samples) == 0 {
		return Buffer{SampleRate: targetRate}
	}

	ratio := float64(targetRate) / float64(b.SampleRate)

	newLen := int(math.Round(float64(len(b.Samples)) * ratio))
	if newLen < 1 {
		newLen = 1
	}

	last := len(b.Samples) - 1
	out := make([]int16, newLen)
	for i := range out {
		pos := float64(i) / ratio

		left := int(pos)
		if left > last {
			left = last
		}
		right := left + 1
		if right > last {
			right = last
		}

		alpha := pos - float64(left)
		v := float64(b.Samples[left])*(1-alpha) + float64(b.Samples[right])*alpha
		out[i] = int16(math.Round(v))
	}

	return Buffer{SampleRate: targetRate, Samples: out}
}
