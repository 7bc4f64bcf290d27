package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeTestWAV пишет маленький WAV файл с заданным форматом
func writeTestWAV(t *testing.T, path string, format uint16, channels, sampleRate, bits int, payload []byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test WAV: %v", err)
	}
	defer f.Close()

	byteRate := sampleRate * channels * bits / 8
	blockAlign := channels * bits / 8

	f.WriteString("RIFF")
	binary.Write(f, binary.LittleEndian, uint32(36+len(payload)))
	f.WriteString("WAVE")
	f.WriteString("fmt ")
	binary.Write(f, binary.LittleEndian, uint32(16))
	binary.Write(f, binary.LittleEndian, format)
	binary.Write(f, binary.LittleEndian, uint16(channels))
	binary.Write(f, binary.LittleEndian, uint32(sampleRate))
	binary.Write(f, binary.LittleEndian, uint32(byteRate))
	binary.Write(f, binary.LittleEndian, uint16(blockAlign))
	binary.Write(f, binary.LittleEndian, uint16(bits))
	f.WriteString("data")
	binary.Write(f, binary.LittleEndian, uint32(len(payload)))
	f.Write(payload)
}

// TestDecodeWAV_PCM16 декодирование 16-битного моно WAV на частоте движка
func TestDecodeWAV_PCM16(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	samples := []int16{0, 16384, -16384, 32767}
	payload := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(payload[i*2:], uint16(s))
	}
	writeTestWAV(t, path, 1, 1, SampleRate, 16, payload)

	mono, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}

	if len(mono) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(mono))
	}
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0}
	for i := range want {
		if diff := mono[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("Sample %d: expected %f, got %f", i, want[i], mono[i])
		}
	}
}

// TestDecodeWAV_Float32Stereo стерео float32 сводится в моно усреднением
func TestDecodeWAV_Float32Stereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")

	// Три кадра: (0.5, -0.5), (0.25, 0.25), (1, 0)
	frames := [][2]float32{{0.5, -0.5}, {0.25, 0.25}, {1, 0}}
	payload := make([]byte, len(frames)*8)
	for i, fr := range frames {
		binary.LittleEndian.PutUint32(payload[i*8:], math.Float32bits(fr[0]))
		binary.LittleEndian.PutUint32(payload[i*8+4:], math.Float32bits(fr[1]))
	}
	writeTestWAV(t, path, 3, 2, SampleRate, 32, payload)

	mono, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}

	want := []float32{0, 0.25, 0.5}
	if len(mono) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(mono))
	}
	for i := range want {
		if diff := mono[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("Sample %d: expected %f, got %f", i, want[i], mono[i])
		}
	}
}

// TestDecodeWAV_Resample файл на другой частоте приводится к частоте движка
func TestDecodeWAV_Resample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slow.wav")

	srcRate := SampleRate / 2
	numSamples := srcRate / 10 // 100мс
	payload := make([]byte, numSamples*2)
	for i := 0; i < numSamples; i++ {
		binary.LittleEndian.PutUint16(payload[i*2:], uint16(int16(8192)))
	}
	writeTestWAV(t, path, 1, 1, srcRate, 16, payload)

	mono, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}

	// Длительность сохраняется: 100мс на частоте движка
	want := SampleRate / 10
	if mono == nil || len(mono) < want-2 || len(mono) > want+2 {
		t.Errorf("Expected ~%d samples after resample, got %d", want, len(mono))
	}
}

// TestDecodeFile_Unsupported неизвестное расширение и мусорный файл
func TestDecodeFile_Unsupported(t *testing.T) {
	if _, err := DecodeFile("notes.txt"); err == nil {
		t.Error("Expected error for unsupported extension")
	}

	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("not a riff file at all"), 0644); err != nil {
		t.Fatalf("Failed to write junk file: %v", err)
	}
	if _, err := DecodeFile(path); err == nil {
		t.Error("Expected error for non-RIFF data")
	}
}

// TestResampleLinear длина и форма сигнала при ресемплинге
func TestResampleLinear(t *testing.T) {
	src := []float32{0, 1, 2, 3, 4, 5, 6, 7}

	same := resampleLinear(src, 48000, 48000)
	if len(same) != len(src) {
		t.Errorf("Same-rate resample changed length: %d", len(same))
	}

	half := resampleLinear(src, 48000, 24000)
	if len(half) != 4 {
		t.Fatalf("Expected 4 samples at half rate, got %d", len(half))
	}
	// Линейная рампа остаётся рампой с шагом 2
	for i := 0; i < len(half); i++ {
		if diff := half[i] - float32(i*2); diff > 1e-6 || diff < -1e-6 {
			t.Errorf("Sample %d: expected %d, got %f", i, i*2, half[i])
		}
	}
}
