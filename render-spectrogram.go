// Debug tool: renders spectrogram PNGs for WAV files so onset content can
// be eyeballed when a detection result looks off.
//
// Usage: go run render-spectrogram.go -in testdata -out /tmp/spectrograms
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/eligwz/spectrogram"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func main() {
	inputDir := flag.String("in", "testdata", "directory of WAV files to render")
	outputDir := flag.String("out", "spectrograms", "directory for PNG output")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatal(err)
	}

	err := filepath.WalkDir(*inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || filepath.Ext(path) != ".wav" {
			return nil
		}

		fmt.Printf("Rendering %s...\n", path)

		file, err := os.Open(path)
		if err != nil {
			log.Printf("Error opening %s: %v", path, err)
			return nil
		}
		defer file.Close()

		decoder := wav.NewDecoder(file)
		if !decoder.IsValidFile() {
			log.Printf("Invalid WAV file: %s", path)
			return nil
		}

		duration, err := decoder.Duration()
		if err != nil {
			log.Printf("Error getting duration from %s: %v", path, err)
			return nil
		}

		totalSamples := int(duration.Seconds() * float64(decoder.SampleRate))
		if totalSamples == 0 {
			log.Printf("No samples in %s", path)
			return nil
		}

		buf := &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: int(decoder.NumChans),
				SampleRate:  int(decoder.SampleRate),
			},
			Data:           make([]int, totalSamples*int(decoder.NumChans)),
			SourceBitDepth: int(decoder.BitDepth),
		}

		if _, err := decoder.PCMBuffer(buf); err != nil {
			log.Printf("Error reading samples from %s: %v", path, err)
			return nil
		}

		samples := make([]float64, len(buf.Data))
		maxVal := float64(int(1) << (uint(decoder.BitDepth) - 1))
		for i, v := range buf.Data {
			samples[i] = float64(v) / maxVal
		}

		width := 2048
		height := 512
		img := spectrogram.NewImage128(image.Rect(0, 0, width, height))

		black := spectrogram.ParseColor("000000")
		draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

		spectrogram.Drawfft(
			img,
			samples,
			uint32(decoder.SampleRate),
			uint32(height), // bins
			false,          // RECTANGLE (use Hamming window)
			false,          // DFT (use FFT instead)
			true,           // MAG (magnitude)
			false,          // LOG10 (linear scale)
		)

		outputPath := filepath.Join(*outputDir, filepath.Base(path)+".png")
		if err := spectrogram.SavePng(img, outputPath); err != nil {
			log.Printf("Error saving PNG for %s: %v", outputPath, err)
			return nil
		}

		fmt.Printf("Saved spectrogram to %s\n", outputPath)
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}
}
