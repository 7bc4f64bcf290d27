package synth

import (
	"fmt"
	"path/filepath"

	"antiphon/audio"
)

// SourceBank держит декодированные исходные файлы корпуса в памяти.
// Индексация совпадает с таблицей файлов корпуса
type SourceBank struct {
	samples [][]float32
	names   []string
}

// LoadSourceBank декодирует все файлы корпуса из baseDir. Отсутствие
// или нечитаемость любого файла считается фатальной ошибкой
func LoadSourceBank(baseDir string, names []string) (*SourceBank, error) {
	bank := &SourceBank{
		samples: make([][]float32, len(names)),
		names:   append([]string(nil), names...),
	}
	for i, name := range names {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, name)
		}
		data, err := audio.DecodeFile(path)
		if err != nil {
			return nil, fmt.Errorf("source file %s: %w", name, err)
		}
		bank.samples[i] = data
	}
	return bank, nil
}

// Len возвращает число файлов банка
func (b *SourceBank) Len() int {
	return len(b.samples)
}

// Segment возвращает хвост файла fileIndex начиная с startTime.
// Срез указывает в банк, копия не делается
func (b *SourceBank) Segment(fileIndex int, startTime float64) ([]float32, error) {
	if fileIndex < 0 || fileIndex >= len(b.samples) {
		return nil, fmt.Errorf("file index %d out of range [0, %d)", fileIndex, len(b.samples))
	}
	data := b.samples[fileIndex]
	start := int(startTime * float64(audio.SampleRate))
	if start < 0 {
		start = 0
	}
	if start >= len(data) {
		return nil, fmt.Errorf("start time %.3fs beyond end of %s", startTime, b.names[fileIndex])
	}
	return data[start:], nil
}
