package session

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
)

// WAVWriter потоковый писатель WAV. Заголовок пишется сразу с нулевым
// размером данных и обновляется по ходу записи
type WAVWriter struct {
	file           *os.File
	filePath       string
	sampleRate     int
	channels       int
	bitsPerSample  int
	samplesWritten int64
	mu             sync.Mutex
}

// NewWAVWriter создаёт файл и пишет предварительный заголовок
func NewWAVWriter(filePath string, sampleRate, channels int) (*WAVWriter, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create WAV file: %w", err)
	}

	w := &WAVWriter{
		file:          file,
		filePath:      filePath,
		sampleRate:    sampleRate,
		channels:      channels,
		bitsPerSample: 16,
	}

	if err := w.writeHeader(); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

func (w *WAVWriter) writeHeader() error {
	w.file.Seek(0, 0)

	byteRate := w.sampleRate * w.channels * w.bitsPerSample / 8
	blockAlign := w.channels * w.bitsPerSample / 8
	dataSize := uint32(w.samplesWritten * int64(w.bitsPerSample/8))

	w.file.WriteString("RIFF")
	binary.Write(w.file, binary.LittleEndian, uint32(36+dataSize))
	w.file.WriteString("WAVE")

	w.file.WriteString("fmt ")
	binary.Write(w.file, binary.LittleEndian, uint32(16))
	binary.Write(w.file, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(w.file, binary.LittleEndian, uint16(w.channels))
	binary.Write(w.file, binary.LittleEndian, uint32(w.sampleRate))
	binary.Write(w.file, binary.LittleEndian, uint32(byteRate))
	binary.Write(w.file, binary.LittleEndian, uint16(blockAlign))
	binary.Write(w.file, binary.LittleEndian, uint16(w.bitsPerSample))

	w.file.WriteString("data")
	binary.Write(w.file, binary.LittleEndian, dataSize)

	return nil
}

// Write дописывает float32 семплы, конвертируя в PCM16
func (w *WAVWriter) Write(samples []float32) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		sample := int16(s * 32767)
		if err := binary.Write(w.file, binary.LittleEndian, sample); err != nil {
			return err
		}
		w.samplesWritten++
	}
	return nil
}

// SamplesWritten возвращает число записанных семплов
func (w *WAVWriter) SamplesWritten() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.samplesWritten
}

// FlushHeader обновляет заголовок, не трогая позицию записи.
// Вызывается периодически, чтобы файл оставался читаемым при
// аварийном завершении
func (w *WAVWriter) FlushHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	pos, err := w.file.Seek(0, 1)
	if err != nil {
		return err
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	_, err = w.file.Seek(pos, 0)
	return err
}

// Finalize записывает окончательный заголовок
func (w *WAVWriter) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeHeader()
}

// Close завершает запись и закрывает файл
func (w *WAVWriter) Close() error {
	w.Finalize()
	return w.file.Close()
}

// FilePath возвращает путь к файлу
func (w *WAVWriter) FilePath() string {
	return w.filePath
}
