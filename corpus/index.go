package corpus

import (
	"fmt"
	"sort"
)

// Index точный поиск k ближайших соседей по таблице корпуса.
// Метрика: квадрат евклидова расстояния без нормализации,
// масштаб измерений целиком на совести анализатора.
// Поиск детерминирован и не имеет побочных эффектов; случайный
// выбор среди k результатов делает вызывающая сторона
type Index struct {
	table *Table
}

// NewIndex создаёт индекс над построенной таблицей корпуса
func NewIndex(t *Table) *Index {
	return &Index{table: t}
}

// Len возвращает число проиндексированных окон
func (ix *Index) Len() int {
	return ix.table.Len()
}

// Search возвращает k окон с минимальным расстоянием до query,
// отсортированных по неубыванию расстояния, при равенстве по
// возрастанию id. Требуется 1 <= k <= N и len(query) == Dim
func (ix *Index) Search(query FeatureVector, k int) ([]Match, error) {
	n := ix.table.Len()
	if k < 1 || k > n {
		return nil, fmt.Errorf("k=%d out of range [1, %d]", k, n)
	}
	if len(query) != ix.table.dim {
		return nil, fmt.Errorf("query dimension %d does not match corpus dimension %d",
			len(query), ix.table.dim)
	}

	matches := make([]Match, n)
	for id, vec := range ix.table.vectors {
		matches[id] = Match{ID: id, Distance: sqDistance(query, vec)}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})

	return matches[:k], nil
}

// sqDistance вычисляет квадрат евклидова расстояния между векторами
func sqDistance(a, b FeatureVector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
