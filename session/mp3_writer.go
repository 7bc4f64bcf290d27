package session

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/braheezy/shine-mp3/pkg/mp3"
)

// MP3Writer стриминговый писатель MP3 через shine-mp3 (чистый Go)
type MP3Writer struct {
	file       *os.File
	encoder    *mp3.Encoder
	filePath   string
	sampleRate int
	channels   int

	// shine кодирует блоками по 1152 семпла на канал, накапливаем
	buffer []int16

	samplesWritten int64
	mu             sync.Mutex
	closed         bool
}

// NewMP3Writer создаёт новый MP3 writer
func NewMP3Writer(filePath string, sampleRate, channels int) (*MP3Writer, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	encoder := mp3.NewEncoder(sampleRate, channels)

	return &MP3Writer{
		file:       file,
		encoder:    encoder,
		filePath:   filePath,
		sampleRate: sampleRate,
		channels:   channels,
		buffer:     make([]int16, 0, 8192),
	}, nil
}

// Write записывает float32 семплы
func (w *MP3Writer) Write(samples []float32) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	for _, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		w.buffer = append(w.buffer, int16(s*32767))
	}
	w.samplesWritten += int64(len(samples))

	minBufferSize := 1152 * w.channels * 4
	if len(w.buffer) >= minBufferSize {
		w.encoder.Write(w.file, w.buffer)
		w.buffer = w.buffer[:0]
	}
	return nil
}

// SamplesWritten возвращает число записанных семплов
func (w *MP3Writer) SamplesWritten() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.samplesWritten
}

// Duration возвращает длительность записи
func (w *MP3Writer) Duration() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.duration()
}

func (w *MP3Writer) duration() time.Duration {
	frames := w.samplesWritten / int64(w.channels)
	return time.Duration(frames) * time.Second / time.Duration(w.sampleRate)
}

// Close дописывает хвост буфера и закрывает файл
func (w *MP3Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	if len(w.buffer) > 0 {
		blockSize := 1152 * w.channels
		for len(w.buffer)%blockSize != 0 {
			w.buffer = append(w.buffer, 0)
		}
		w.encoder.Write(w.file, w.buffer)
	}
	duration := w.duration()
	w.mu.Unlock()

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	log.Printf("[Recorder] MP3 closed: %s (duration=%v)", w.filePath, duration)
	return nil
}

// FilePath возвращает путь к файлу
func (w *MP3Writer) FilePath() string {
	return w.filePath
}
