package corpus

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// Table таблица корпуса: пары (вектор признаков, аудио-окно) плюс
// дедуплицированная таблица имён исходных файлов.
// Строится один раз при загрузке и далее только читается
type Table struct {
	vectors   []FeatureVector
	windows   []AudioWindow
	files     []string
	fileIndex map[string]int
	dim       int
}

// Load читает файл признаков корпуса с диска.
// Формат: по одной непустой строке на окно, поля разделены пробелами
// или табуляцией: имя файла, время начала в секундах, затем ровно D
// коэффициентов. D выводится из последней непустой строки
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus %s: %w", path, err)
	}

	log.Printf("[Corpus] Loaded: %d windows, %d source files, dim=%d (%s)",
		t.Len(), len(t.files), t.dim, path)
	return t, nil
}

// Parse разбирает файл признаков из reader и строит таблицу.
// Любое несовпадение числа коэффициентов с объявленной размерностью
// ошибка всей загрузки, а не пропуск строки
func Parse(r io.Reader) (*Table, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("corpus file has no non-empty lines")
	}

	// Размерность объявляется последней непустой строкой:
	// число токенов минус имя файла и время начала
	dim := len(strings.Fields(lines[len(lines)-1])) - 2
	if dim <= 0 {
		return nil, fmt.Errorf("corpus file declares non-positive dimensionality %d", dim)
	}

	t := &Table{
		vectors:   make([]FeatureVector, 0, len(lines)),
		windows:   make([]AudioWindow, 0, len(lines)),
		fileIndex: make(map[string]int),
		dim:       dim,
	}

	for n, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != dim+2 {
			return nil, fmt.Errorf("corpus line %d: expected %d coefficients, got %d",
				n+1, dim, len(fields)-2)
		}

		start, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("corpus line %d: bad start time %q: %w", n+1, fields[1], err)
		}

		vec := make(FeatureVector, dim)
		for i, tok := range fields[2:] {
			c, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("corpus line %d: bad coefficient %q: %w", n+1, tok, err)
			}
			vec[i] = c
		}

		fi, ok := t.fileIndex[fields[0]]
		if !ok {
			// Новое имя получает следующий индекс, порядок первого
			// появления сохраняется
			fi = len(t.files)
			t.fileIndex[fields[0]] = fi
			t.files = append(t.files, fields[0])
		}

		t.vectors = append(t.vectors, vec)
		t.windows = append(t.windows, AudioWindow{
			ID:              n,
			SourceFileIndex: fi,
			StartTime:       start,
		})
	}

	return t, nil
}

// Len возвращает число окон в корпусе
func (t *Table) Len() int {
	return len(t.windows)
}

// Dim возвращает размерность векторов признаков
func (t *Table) Dim() int {
	return t.dim
}

// Window возвращает окно по id
func (t *Table) Window(id int) (AudioWindow, error) {
	if id < 0 || id >= len(t.windows) {
		return AudioWindow{}, fmt.Errorf("window id %d out of range [0, %d)", id, len(t.windows))
	}
	return t.windows[id], nil
}

// Vector возвращает вектор признаков окна по id, nil если id вне
// диапазона. Возвращаемый slice принадлежит таблице и не должен
// изменяться
func (t *Table) Vector(id int) FeatureVector {
	if id < 0 || id >= len(t.vectors) {
		return nil
	}
	return t.vectors[id]
}

// Files возвращает имена исходных файлов в порядке первого появления
func (t *Table) Files() []string {
	out := make([]string, len(t.files))
	copy(out, t.files)
	return out
}

// FilePath возвращает имя исходного файла по индексу таблицы файлов
func (t *Table) FilePath(fileIndex int) (string, error) {
	if fileIndex < 0 || fileIndex >= len(t.files) {
		return "", fmt.Errorf("file index %d out of range [0, %d)", fileIndex, len(t.files))
	}
	return t.files[fileIndex], nil
}
