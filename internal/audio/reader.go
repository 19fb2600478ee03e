package audio

import (
	"errors"
	"fmt"
	"os"

	gioaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/rootsai/beatscan/internal/tempo"
)

var (
	// ErrNotWAV indicates the file is not a RIFF/WAVE container at all.
	ErrNotWAV = errors.New("audio: not a WAV file")

	// ErrCorruptAudio indicates a recognized container with unreadable or
	// truncated sample data.
	ErrCorruptAudio = errors.New("audio: corrupt or truncated audio data")

	// ErrUnsupportedEncoding indicates a valid WAV whose encoding
	// (channel count, bit depth) is outside what the reader handles.
	ErrUnsupportedEncoding = errors.New("audio: unsupported WAV encoding")
)

// ReadWAV decodes a PCM WAV file into a mono waveform with samples
// normalized to [-1, 1]. Stereo input is downmixed by averaging the
// channels. The two failure modes are kept distinct: a file that is not a
// WAV at all wraps ErrNotWAV, while a WAV with unreadable sample data
// wraps ErrCorruptAudio.
func ReadWAV(path string) (tempo.Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return tempo.Waveform{}, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return tempo.Waveform{}, fmt.Errorf("%w: %s", ErrNotWAV, path)
	}

	duration, err := decoder.Duration()
	if err != nil {
		return tempo.Waveform{}, fmt.Errorf("%w: %v", ErrCorruptAudio, err)
	}

	numChans := int(decoder.NumChans)
	if numChans != 1 && numChans != 2 {
		return tempo.Waveform{}, fmt.Errorf("%w: %d channels", ErrUnsupportedEncoding, numChans)
	}

	totalFrames := int(duration.Seconds() * float64(decoder.SampleRate))
	buf := &gioaudio.IntBuffer{
		Format: &gioaudio.Format{
			NumChannels: numChans,
			SampleRate:  int(decoder.SampleRate),
		},
		Data:           make([]int, totalFrames*numChans),
		SourceBitDepth: int(decoder.BitDepth),
	}

	n, err := decoder.PCMBuffer(buf)
	if err != nil {
		return tempo.Waveform{}, fmt.Errorf("%w: %v", ErrCorruptAudio, err)
	}
	if n == 0 {
		return tempo.Waveform{}, fmt.Errorf("%w: no samples", ErrCorruptAudio)
	}

	scale := 1.0 / float64(int(1)<<(uint(decoder.BitDepth)-1))
	samples := downmix(buf.Data[:n], numChans, scale)

	return tempo.Waveform{
		Samples:    samples,
		SampleRate: int(decoder.SampleRate),
	}, nil
}

// downmix converts interleaved integer PCM to normalized mono float64.
func downmix(data []int, numChans int, scale float64) []float64 {
	frames := len(data) / numChans
	out := make([]float64, frames)
	switch numChans {
	case 1:
		for i := range out {
			out[i] = float64(data[i]) * scale
		}
	case 2:
		for i := range out {
			l := float64(data[2*i]) * scale
			r := float64(data[2*i+1]) * scale
			out[i] = (l + r) * 0.5
		}
	}
	return out
}
