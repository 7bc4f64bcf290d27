// Офлайн-проверка подбора ответов на записи
// Запуск: go run ./cmd/testmatch -corpus corpus.txt -in take.wav
//
// Файл записи режется на окна той же длины, что при построении
// корпуса, каждое окно прогоняется через анализатор и ищется в
// индексе. Печатаются ближайшие окна корпуса по каждому окну записи
// и итоговое распределение лучших совпадений по исходным файлам

package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"antiphon/analysis"
	"antiphon/audio"
	"antiphon/corpus"
)

func main() {
	corpusPath := flag.String("corpus", "corpus.txt", "Path to corpus feature file")
	in := flag.String("in", "", "Recording to analyze (WAV or MP3)")
	k := flag.Int("k", 3, "Neighbours to print per window")
	windowSec := flag.Float64("window", 0.5, "Window length in seconds")
	flag.Parse()

	if *in == "" {
		log.Fatal("Укажите файл записи: -in take.wav")
	}

	log.Println("=== Офлайн-подбор ответов ===")

	table, err := corpus.Load(*corpusPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки корпуса: %v", err)
	}
	index := corpus.NewIndex(table)

	cfg := analysis.DefaultConfig()
	cfg.NumCoeffs = table.Dim()
	analyzer, err := analysis.NewAnalyzer(cfg)
	if err != nil {
		log.Fatalf("Ошибка инициализации анализатора: %v", err)
	}

	samples, err := audio.DecodeFile(*in)
	if err != nil {
		log.Fatalf("Ошибка чтения записи: %v", err)
	}
	log.Printf("Запись: %d семплов (%.1f сек)\n", len(samples),
		float64(len(samples))/float64(audio.SampleRate))

	windowSamples := int(*windowSec * float64(audio.SampleRate))
	if windowSamples < 1 {
		log.Fatalf("Слишком короткое окно: %.3f сек", *windowSec)
	}

	// Лучшие совпадения копятся по исходным файлам корпуса
	hits := make([]int, len(table.Files()))
	windows := 0

	for off := 0; off+windowSamples <= len(samples); off += windowSamples {
		feat := analyzer.WindowFeatures(samples[off : off+windowSamples])
		matches, err := index.Search(feat, *k)
		if err != nil {
			log.Fatalf("Ошибка поиска: %v", err)
		}

		var parts []string
		for _, m := range matches {
			parts = append(parts, formatMatch(table, m))
		}
		log.Printf("  %6.2fs: %s", float64(off)/float64(audio.SampleRate),
			strings.Join(parts, "; "))

		best, _ := table.Window(matches[0].ID)
		hits[best.SourceFileIndex]++
		windows++
	}

	if windows == 0 {
		log.Fatal("Запись короче одного окна")
	}

	log.Println("\n" + strings.Repeat("═", 60))
	log.Println("РАСПРЕДЕЛЕНИЕ ЛУЧШИХ СОВПАДЕНИЙ")
	log.Println(strings.Repeat("═", 60))
	for fi, n := range hits {
		if n == 0 {
			continue
		}
		name, _ := table.FilePath(fi)
		log.Printf("  %-30s %4d окон (%.0f%%)", name, n,
			float64(n)/float64(windows)*100)
	}
}

func formatMatch(table *corpus.Table, m corpus.Match) string {
	w, err := table.Window(m.ID)
	if err != nil {
		return fmt.Sprintf("окно %d d=%.3f", m.ID, m.Distance)
	}
	name, _ := table.FilePath(w.SourceFileIndex)
	return fmt.Sprintf("%s @ %.2fs d=%.3f", name, w.StartTime, m.Distance)
}
