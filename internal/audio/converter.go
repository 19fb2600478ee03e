package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rootsai/beatscan/internal/tempo"
	"github.com/rootsai/beatscan/pkg/utils"
)

// ErrUnsupportedFormat indicates a container format outside the allowlist.
// Distinct from ErrCorruptAudio: the format was never attempted.
var ErrUnsupportedFormat = errors.New("audio: unsupported audio format")

// supportedExtensions mirrors the formats ffmpeg is asked to handle.
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".aiff": true,
	".aif":  true,
}

// IsSupportedFormat reports whether the file extension (with leading dot,
// any case) is in the decode allowlist.
func IsSupportedFormat(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// SupportedFormats returns the allowlisted extensions, for error messages.
func SupportedFormats() []string {
	out := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		out = append(out, ext)
	}
	return out
}

// ConvertToMonoWAV converts any supported audio file to mono 16-bit PCM
// WAV in outputDir and returns the new path. The source sample rate is
// preserved; rate normalization is the analysis pipeline's job, so the
// original rate stays visible in results. Conversion goes through a temp
// file renamed into place on success.
func ConvertToMonoWAV(ctx context.Context, inputPath, outputDir string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	if err := utils.MakeDir(outputDir); err != nil {
		return "", err
	}

	outputPath := filepath.Join(outputDir, uuid.NewString()+".wav")
	tmpPath := outputPath + ".tmp.wav"
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",
		"-v", "quiet",
		"-i", inputPath,
		"-ac", "1", // mono
		"-c:a", "pcm_s16le",
		tmpPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: ffmpeg: %v (%s)", ErrCorruptAudio, err, out)
	}

	if err := utils.MoveFile(tmpPath, outputPath); err != nil {
		return "", err
	}

	return outputPath, nil
}

// Decode turns a supported audio file into a mono waveform: allowlist
// check, ffmpeg conversion to canonical WAV, then WAV decode. The caller
// owns cleanup of tempDir contents.
func Decode(ctx context.Context, inputPath, tempDir string) (tempo.Waveform, error) {
	ext := filepath.Ext(inputPath)
	if !IsSupportedFormat(ext) {
		return tempo.Waveform{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	wavPath, err := ConvertToMonoWAV(ctx, inputPath, tempDir)
	if err != nil {
		return tempo.Waveform{}, err
	}
	defer os.Remove(wavPath)

	return ReadWAV(wavPath)
}
