// Package corpus предоставляет неизменяемую таблицу аудио-окон корпуса
// и точный поиск ближайших соседей по вектору признаков
package corpus

// FeatureVector вектор признаков фиксированной размерности D.
// Размерность едина для всей сессии и задаётся файлом корпуса
type FeatureVector []float64

// Clone возвращает независимую копию вектора
func (v FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(v))
	copy(out, v)
	return out
}

// AudioWindow одно индексированное окно исходного файла корпуса
type AudioWindow struct {
	ID              int     // позиция в таблице корпуса, стабильна на всю сессию
	SourceFileIndex int     // индекс в таблице файлов
	StartTime       float64 // смещение от начала исходного файла, секунды
}

// Match результат поиска: id окна и квадрат евклидова расстояния до запроса
type Match struct {
	ID       int
	Distance float64
}
