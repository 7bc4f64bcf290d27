package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Row одна строка файла признаков при записи
type Row struct {
	FileName  string
	StartTime float64
	Vector    FeatureVector
}

// WriteFile записывает файл признаков корпуса на диск.
// Формат совпадает с тем, что читает Load
func WriteFile(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create corpus file: %w", err)
	}

	if err := Write(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write corpus %s: %w", path, err)
	}
	return f.Close()
}

// Write записывает строки признаков в writer, по одной строке на окно
func Write(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no feature rows to write")
	}

	dim := len(rows[0].Vector)
	bw := bufio.NewWriter(w)
	for n, row := range rows {
		if len(row.Vector) != dim {
			return fmt.Errorf("row %d: vector dimension %d, want %d", n, len(row.Vector), dim)
		}
		bw.WriteString(row.FileName)
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(row.StartTime, 'f', 6, 64))
		for _, c := range row.Vector {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatFloat(c, 'f', 6, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
