// Проверка файла корпуса: загрузка, статистика, пробный поиск
// Запуск: go run ./cmd/testcorpus -corpus corpus.txt -id 0 -k 5
//
// Берёт вектор указанного окна как запрос и печатает k ближайших
// соседей. Первым всегда должно идти само окно с нулевой дистанцией

package main

import (
	"flag"
	"log"

	"antiphon/corpus"
)

func main() {
	corpusPath := flag.String("corpus", "corpus.txt", "Path to corpus feature file")
	id := flag.Int("id", 0, "Window id to use as the query")
	k := flag.Int("k", 5, "Number of neighbours")
	flag.Parse()

	log.Println("=== Проверка корпуса ===")

	table, err := corpus.Load(*corpusPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки корпуса: %v", err)
	}

	log.Printf("Окон: %d, файлов: %d, размерность: %d", table.Len(), len(table.Files()), table.Dim())
	for i, f := range table.Files() {
		log.Printf("  файл %d: %s", i, f)
	}

	index := corpus.NewIndex(table)
	if *k > index.Len() {
		*k = index.Len()
	}

	query := table.Vector(*id)
	if query == nil {
		log.Fatalf("Окно %d вне диапазона [0, %d)", *id, table.Len())
	}

	matches, err := index.Search(query, *k)
	if err != nil {
		log.Fatalf("Ошибка поиска: %v", err)
	}

	log.Printf("Ближайшие к окну %d:", *id)
	for rank, m := range matches {
		w, err := table.Window(m.ID)
		if err != nil {
			log.Fatalf("Ошибка чтения окна %d: %v", m.ID, err)
		}
		name, _ := table.FilePath(w.SourceFileIndex)
		log.Printf("  %d. окно %d (%s @ %.2f сек), дистанция %.4f",
			rank+1, m.ID, name, w.StartTime, m.Distance)
	}

	if matches[0].ID != *id || matches[0].Distance != 0 {
		log.Fatalf("Самопроверка не прошла: ожидалось окно %d с нулевой дистанцией", *id)
	}
	log.Println("Самопроверка пройдена")
}
