package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// DecodeFile декодирует исходный файл корпуса в моно float32
// на частоте движка. Поддерживаются WAV (PCM16, float32) и MP3
func DecodeFile(path string) ([]float32, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(path)
	case ".mp3":
		return decodeMP3(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", path)
	}
}

// decodeWAV читает WAV и приводит его к частоте движка
func decodeWAV(path string) ([]float32, error) {
	w, err := readWAV(path)
	if err != nil {
		return nil, err
	}

	samples := w.samples
	if w.sampleRate != SampleRate {
		samples = resampleLinear(samples, w.sampleRate, SampleRate)
	}

	log.Printf("[Decode] %s: %d samples at %d Hz -> %d samples",
		path, len(w.samples), w.sampleRate, len(samples))
	return samples, nil
}

// decodeMP3 декодирует MP3 без FFmpeg: go-mp3 отдаёт
// signed 16-bit stereo interleaved PCM
func decodeMP3(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	pcmData := make([]byte, decoder.Length())
	n, err := io.ReadFull(decoder, pcmData)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}
	pcmData = pcmData[:n]

	// 2 байта на семпл, 2 канала
	numSamples := n / 4
	mono := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		left := int16(binary.LittleEndian.Uint16(pcmData[i*4:]))
		right := int16(binary.LittleEndian.Uint16(pcmData[i*4+2:]))
		mono[i] = (float32(left)/32768.0 + float32(right)/32768.0) / 2.0
	}

	srcRate := decoder.SampleRate()
	if srcRate != SampleRate {
		mono = resampleLinear(mono, srcRate, SampleRate)
	}

	log.Printf("[Decode] %s: %d samples at %d Hz -> %d samples",
		path, numSamples, srcRate, len(mono))
	return mono, nil
}

// resampleLinear выполняет линейную интерполяцию для ресемплинга
func resampleLinear(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate {
		return samples
	}

	ratio := float64(srcRate) / float64(dstRate)
	newLen := int(float64(len(samples)) / ratio)
	resampled := make([]float32, newLen)

	for i := 0; i < newLen; i++ {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := float32(srcPos - float64(srcIdx))

		if srcIdx+1 < len(samples) {
			resampled[i] = samples[srcIdx]*(1-frac) + samples[srcIdx+1]*frac
		} else if srcIdx < len(samples) {
			resampled[i] = samples[srcIdx]
		}
	}

	return resampled
}
