package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrInvalidContainer is returned when WAV input is malformed: too short,
// missing RIFF/WAVE markers, or missing a data chunk.
var ErrInvalidContainer = errors.New("invalid WAV container")

// ErrUnsupportedFormat is returned when WAV input encodes samples at a bit
// depth other than 16.
var ErrUnsupportedFormat = errors.New("unsupported WAV format")

const headerSize = 44

// Parse decodes a RIFF/WAVE byte stream into a mono Buffer.
//
// The chunk list is walked starting at offset 12; unrecognized chunks are
// skipped. Multi-channel input is downmixed to mono by averaging the
// per-channel values of each frame.
func Parse(data []byte) (Buffer, error) {
	if len(data) < headerSize {
		return Buffer{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidContainer, len(data), headerSize)
	}
	if string(data[0:4]) != "RIFF" {
		return Buffer{}, fmt.Errorf("%w: missing RIFF marker (got %q)", ErrInvalidContainer, string(data[0:4]))
	}
	if string(data[8:12]) != "WAVE" {
		return Buffer{}, fmt.Errorf("%w: missing WAVE marker (got %q)", ErrInvalidContainer, string(data[8:12]))
	}

	var (
		channels   int
		sampleRate int
		haveFmt    bool
		pcm        []byte
		haveData   bool
	)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if body+size > len(data) {
			return Buffer{}, fmt.Errorf("%w: chunk %q of %d bytes exceeds input", ErrInvalidContainer, id, size)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Buffer{}, fmt.Errorf("%w: fmt chunk of %d bytes", ErrInvalidContainer, size)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample := int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if bitsPerSample != 16 {
				return Buffer{}, fmt.Errorf("%w: %d bits per sample, want 16", ErrUnsupportedFormat, bitsPerSample)
			}
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
			haveData = true
		}

		offset = body + size
		// RIFF chunks are padded to an even boundary.
		if size%2 != 0 {
			offset++
		}
	}

	if !haveFmt {
		return Buffer{}, fmt.Errorf("%w: no fmt chunk found", ErrInvalidContainer)
	}
	if !haveData {
		return Buffer{}, fmt.Errorf("%w: no data chunk found", ErrInvalidContainer)
	}
	if channels < 1 || sampleRate < 1 {
		return Buffer{}, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidContainer, channels, sampleRate)
	}

	samples := decodePCM16(pcm)
	if channels > 1 {
		samples = downmix(samples, channels)
	}

	return Buffer{SampleRate: sampleRate, Samples: samples}, nil
}

// Serialize encodes a Buffer as a canonical WAV byte stream: a 44-byte PCM
// header followed by the little-endian 16-bit samples.
func Serialize(b Buffer) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
		blockAlign    = channels * bitsPerSample / 8
	)

	dataSize := len(b.Samples) * 2
	riffSize := 4 + (8 + 16) + (8 + dataSize)
	byteRate := b.SampleRate * blockAlign

	out := make([]byte, headerSize+dataSize)
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(riffSize))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], channels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(b.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], blockAlign)
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	for i, s := range b.Samples {
		binary.LittleEndian.PutUint16(out[headerSize+i*2:], uint16(s))
	}

	return out
}

// ReadFile parses the WAV file at path.
func ReadFile(path string) (Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("reading %s: %w", path, err)
	}

	buf, err := Parse(data)
	if err != nil {
		return Buffer{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	return buf, nil
}

// WriteFile serializes b and writes it to path.
func WriteFile(path string, b Buffer) error {
	if err := os.WriteFile(path, Serialize(b), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func decodePCM16(raw []byte) []int16 {
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return samples
}

// downmix averages interleaved frames into a single channel, rounding to
// nearest and saturating into the int16 domain.
func downmix(interleaved []int16, channels int) []int16 {
	frames := len(interleaved) / channels
	mono := make([]int16, frames)
	for f := range frames {
		sum := 0
		for ch := range channels {
			sum += int(interleaved[f*channels+ch])
		}
		avg := math.Round(float64(sum) / float64(channels))
		mono[f] = Clamp16(int(avg))
	}

	return mono
}
