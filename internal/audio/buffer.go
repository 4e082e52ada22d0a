package audio

// Buffer holds mono PCM audio as signed 16-bit samples at a fixed rate.
// Buffers are value types: once constructed the sample slice is never
// mutated, so copies may share it freely.
type Buffer struct {
	SampleRate int
	Samples    []int16
}

// Duration returns the buffer length in seconds.
func (b Buffer) Duration() float64 {
	if b.SampleRate < 1 {
		return 0
	}

	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Clamp16 saturates v into the int16 sample domain.
func Clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}

	return int16(v)
}
