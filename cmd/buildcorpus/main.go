// Построение файла признаков корпуса из директории с аудио
// Запуск: go run ./cmd/buildcorpus -audio-dir ./samples -out corpus.txt
//
// Каждый файл режется на окна фиксированной длины, для каждого окна
// считается средний MFCC-вектор. Результат пишется в текстовый файл
// корпуса: имя файла, время начала окна, коэффициенты

package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"antiphon/analysis"
	"antiphon/audio"
	"antiphon/corpus"
)

func main() {
	audioDir := flag.String("audio-dir", ".", "Directory with WAV/MP3 source files")
	out := flag.String("out", "corpus.txt", "Output corpus file")
	windowSec := flag.Float64("window", 0.5, "Window length in seconds")
	coeffs := flag.Int("coeffs", 13, "MFCC coefficients per window")
	flag.Parse()

	log.Println("=== Построение корпуса ===")
	log.Printf("Директория: %s", *audioDir)
	log.Printf("Окно: %.2f сек, коэффициентов: %d", *windowSec, *coeffs)

	cfg := analysis.DefaultConfig()
	cfg.NumCoeffs = *coeffs
	analyzer, err := analysis.NewAnalyzer(cfg)
	if err != nil {
		log.Fatalf("Ошибка инициализации анализатора: %v", err)
	}

	entries, err := os.ReadDir(*audioDir)
	if err != nil {
		log.Fatalf("Ошибка чтения директории: %v", err)
	}

	windowSamples := int(*windowSec * float64(audio.SampleRate))
	var rows []corpus.Row

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".wav" && ext != ".mp3" {
			continue
		}

		path := filepath.Join(*audioDir, entry.Name())
		samples, err := audio.DecodeFile(path)
		if err != nil {
			log.Fatalf("Ошибка декодирования %s: %v", entry.Name(), err)
		}

		count := 0
		for start := 0; start+windowSamples <= len(samples); start += windowSamples {
			vec := analyzer.WindowFeatures(samples[start : start+windowSamples])
			rows = append(rows, corpus.Row{
				FileName:  entry.Name(),
				StartTime: float64(start) / float64(audio.SampleRate),
				Vector:    vec,
			})
			count++
		}
		log.Printf("%s: %d окон (%.1f сек)", entry.Name(), count,
			float64(len(samples))/float64(audio.SampleRate))
	}

	if len(rows) == 0 {
		log.Fatalf("В %s не нашлось ни одного окна", *audioDir)
	}

	if err := corpus.WriteFile(*out, rows); err != nil {
		log.Fatalf("Ошибка записи корпуса: %v", err)
	}
	log.Printf("Готово! %d окон записано в %s", len(rows), *out)
}
