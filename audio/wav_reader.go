package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// wavData разобранный WAV файл: моно float32 и исходная частота
type wavData struct {
	samples    []float32
	sampleRate int
}

// readWAV читает RIFF/WAVE файл: PCM16 или IEEE float32.
// Многоканальный сигнал сводится в моно усреднением каналов
func readWAV(path string) (*wavData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a WAVE file: %s", path)
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bits       int
		data       []byte
	)

	// Идём по чанкам: fmt описывает формат, data содержит семплы,
	// остальные пропускаются
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(f, hdr[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			chunk := make([]byte, size)
			if _, err := io.ReadFull(f, chunk); err != nil {
				return nil, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			format = binary.LittleEndian.Uint16(chunk[0:2])
			channels = int(binary.LittleEndian.Uint16(chunk[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(chunk[4:8]))
			bits = int(binary.LittleEndian.Uint16(chunk[14:16]))
		case "data":
			data = make([]byte, size)
			if _, err := io.ReadFull(f, data); err != nil {
				return nil, fmt.Errorf("failed to read data chunk: %w", err)
			}
		default:
			// Чанки выровнены по чётной границе
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("failed to skip chunk %s: %w", id, err)
			}
		}

		if id == "data" && channels > 0 {
			break
		}
	}

	if channels == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("WAV file has no fmt chunk: %s", path)
	}
	if data == nil {
		return nil, fmt.Errorf("WAV file has no data chunk: %s", path)
	}

	var mono []float32
	switch {
	case format == 1 && bits == 16:
		mono = pcm16ToMono(data, channels)
	case format == 3 && bits == 32:
		mono = float32ToMono(data, channels)
	default:
		return nil, fmt.Errorf("unsupported WAV format %d/%d bits in %s", format, bits, path)
	}

	return &wavData{samples: mono, sampleRate: sampleRate}, nil
}

// pcm16ToMono переводит interleaved PCM16 в моно float32 [-1, 1]
func pcm16ToMono(data []byte, channels int) []float32 {
	frameBytes := channels * 2
	numFrames := len(data) / frameBytes
	mono := make([]float32, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			s := int16(binary.LittleEndian.Uint16(data[i*frameBytes+ch*2:]))
			sum += float32(s) / 32768.0
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// float32ToMono переводит interleaved IEEE float32 в моно
func float32ToMono(data []byte, channels int) []float32 {
	frameBytes := channels * 4
	numFrames := len(data) / frameBytes
	mono := make([]float32, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			bits := binary.LittleEndian.Uint32(data[i*frameBytes+ch*4:])
			sum += math.Float32frombits(bits)
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
