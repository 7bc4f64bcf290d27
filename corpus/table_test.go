package corpus

import (
	"strings"
	"testing"
)

// TestParse_BuildsTableAndFileTable проверяет построение таблицы корпуса
// и таблицы файлов в порядке первого появления
func TestParse_BuildsTableAndFileTable(t *testing.T) {
	src := strings.Join([]string{
		"drums.wav 0.000 1.0 2.0 3.0",
		"drums.wav 0.250 1.5 2.5 3.5",
		"bass.wav 0.000 0.1 0.2 0.3",
		"",
		"drums.wav 0.500 2.0 3.0 4.0",
		"voice.wav 1.250 9.0 8.0 7.0",
	}, "\n")

	tbl, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if tbl.Len() != 5 {
		t.Errorf("Expected 5 windows, got %d", tbl.Len())
	}
	if tbl.Dim() != 3 {
		t.Errorf("Expected dim=3, got %d", tbl.Dim())
	}

	// Порядок первого появления: drums, bass, voice
	files := tbl.Files()
	want := []string{"drums.wav", "bass.wav", "voice.wav"}
	if len(files) != len(want) {
		t.Fatalf("Expected %d files, got %d", len(want), len(files))
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("File %d: expected %s, got %s", i, want[i], files[i])
		}
	}

	// id окна равен позиции строки, индексы файлов дедуплицированы
	w, err := tbl.Window(3)
	if err != nil {
		t.Fatalf("Window(3) failed: %v", err)
	}
	if w.ID != 3 {
		t.Errorf("Expected window ID 3, got %d", w.ID)
	}
	if w.SourceFileIndex != 0 {
		t.Errorf("Expected drums.wav index 0, got %d", w.SourceFileIndex)
	}
	if w.StartTime != 0.5 {
		t.Errorf("Expected start time 0.5, got %f", w.StartTime)
	}

	w4, _ := tbl.Window(4)
	if w4.SourceFileIndex != 2 {
		t.Errorf("Expected voice.wav index 2, got %d", w4.SourceFileIndex)
	}

	vec := tbl.Vector(2)
	if vec[0] != 0.1 || vec[1] != 0.2 || vec[2] != 0.3 {
		t.Errorf("Unexpected vector for window 2: %v", vec)
	}
}

// TestParse_EmptyFile проверяет что пустой файл ошибка загрузки
func TestParse_EmptyFile(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("Expected error for empty corpus file")
	}
	if _, err := Parse(strings.NewReader("\n\n  \n")); err == nil {
		t.Error("Expected error for corpus file with only blank lines")
	}
}

// TestParse_NonPositiveDim проверяет что строка без коэффициентов
// даёт неположительную размерность и ошибку
func TestParse_NonPositiveDim(t *testing.T) {
	if _, err := Parse(strings.NewReader("drums.wav 0.0\n")); err == nil {
		t.Error("Expected error for zero-dimension corpus")
	}
}

// TestParse_DimensionMismatch проверяет что несовпадение числа
// коэффициентов в любой строке ошибка всей загрузки
func TestParse_DimensionMismatch(t *testing.T) {
	// Последняя строка объявляет D=3, вторая содержит только 2
	src := "a.wav 0.0 1 2 3\n" +
		"a.wav 0.5 1 2\n" +
		"a.wav 1.0 4 5 6\n"

	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Error("Expected error for dimension mismatch")
	}
}

// TestParse_TabDelimited проверяет разбор строк с табуляцией
func TestParse_TabDelimited(t *testing.T) {
	tbl, err := Parse(strings.NewReader("a.wav\t0.125\t1.0\t2.0\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tbl.Dim() != 2 {
		t.Errorf("Expected dim=2, got %d", tbl.Dim())
	}
	w, _ := tbl.Window(0)
	if w.StartTime != 0.125 {
		t.Errorf("Expected start 0.125, got %f", w.StartTime)
	}
}

// TestWrite_RoundTrip проверяет что записанный файл признаков
// читается обратно в ту же таблицу
func TestWrite_RoundTrip(t *testing.T) {
	rows := []Row{
		{FileName: "kick.wav", StartTime: 0, Vector: FeatureVector{1.5, -2.25, 0.001}},
		{FileName: "snare.wav", StartTime: 0.75, Vector: FeatureVector{-0.5, 3.125, 8}},
		{FileName: "kick.wav", StartTime: 1.5, Vector: FeatureVector{0, 0, 42}},
	}

	var sb strings.Builder
	if err := Write(&sb, rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	tbl, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Parse of written corpus failed: %v", err)
	}

	if tbl.Len() != len(rows) {
		t.Fatalf("Expected %d windows, got %d", len(rows), tbl.Len())
	}
	if got := len(tbl.Files()); got != 2 {
		t.Errorf("Expected 2 distinct files, got %d", got)
	}

	const eps = 1e-6
	for id, row := range rows {
		vec := tbl.Vector(id)
		for i := range row.Vector {
			if diff := vec[i] - row.Vector[i]; diff > eps || diff < -eps {
				t.Errorf("Window %d coeff %d: expected %f, got %f", id, i, row.Vector[i], vec[i])
			}
		}
	}
}

// TestWrite_MixedDimensions проверяет отказ записи при разной размерности строк
func TestWrite_MixedDimensions(t *testing.T) {
	rows := []Row{
		{FileName: "a.wav", StartTime: 0, Vector: FeatureVector{1, 2}},
		{FileName: "a.wav", StartTime: 1, Vector: FeatureVector{1, 2, 3}},
	}
	var sb strings.Builder
	if err := Write(&sb, rows); err == nil {
		t.Error("Expected error for mixed vector dimensions")
	}
}
