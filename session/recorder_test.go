package session

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestWAVWriter_HeaderAndData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.wav")
	w, err := NewWAVWriter(path, 48000, 2)
	if err != nil {
		t.Fatalf("NewWAVWriter failed: %v", err)
	}

	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = 0.5
	}
	if err := w.Write(samples); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if w.SamplesWritten() != 100 {
		t.Errorf("expected 100 samples written, got %d", w.SamplesWritten())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) != 44+200 {
		t.Fatalf("expected 244 bytes, got %d", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if ch := binary.LittleEndian.Uint16(data[22:24]); ch != 2 {
		t.Errorf("expected 2 channels in header, got %d", ch)
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 48000 {
		t.Errorf("expected rate 48000 in header, got %d", rate)
	}
	if size := binary.LittleEndian.Uint32(data[40:44]); size != 200 {
		t.Errorf("expected data size 200 in header, got %d", size)
	}
	// 0.5*32767 = 16383.5, конвертация в PCM16 усекает к нулю
	if s := int16(binary.LittleEndian.Uint16(data[44:46])); s != 16383 {
		t.Errorf("unexpected first sample %d", s)
	}
}

func TestWAVWriter_ClampsSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	w, err := NewWAVWriter(path, 48000, 1)
	if err != nil {
		t.Fatalf("NewWAVWriter failed: %v", err)
	}
	if err := w.Write([]float32{2.0, -2.0}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	w.Close()

	data, _ := os.ReadFile(path)
	first := int16(binary.LittleEndian.Uint16(data[44:46]))
	second := int16(binary.LittleEndian.Uint16(data[46:48]))
	if first != 32767 {
		t.Errorf("expected positive clamp 32767, got %d", first)
	}
	if second != -32767 {
		t.Errorf("expected negative clamp -32767, got %d", second)
	}
}

func TestRecorder_WritesFedSamples(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, "test-session", true)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}

	batch := make([]float32, 256)
	for i := range batch {
		batch[i] = 0.1
	}
	for i := 0; i < 10; i++ {
		rec.Feed(batch)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if rec.wav.SamplesWritten() != 2560 {
		t.Errorf("expected 2560 samples, got %d", rec.wav.SamplesWritten())
	}

	wavInfo, err := os.Stat(filepath.Join(dir, "performance_test-session.wav"))
	if err != nil {
		t.Fatalf("WAV file missing: %v", err)
	}
	if wavInfo.Size() != 44+2560*2 {
		t.Errorf("unexpected WAV size %d", wavInfo.Size())
	}

	mp3Info, err := os.Stat(filepath.Join(dir, "performance_test-session.mp3"))
	if err != nil {
		t.Fatalf("MP3 file missing: %v", err)
	}
	if mp3Info.Size() == 0 {
		t.Error("expected non-empty MP3 file")
	}
}

func TestRecorder_CloseTwice(t *testing.T) {
	rec, err := NewRecorder(t.TempDir(), "twice", false)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
