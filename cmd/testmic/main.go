// Простой тест живого анализа с микрофона
// Запуск: go run ./cmd/testmic
// Остановка: Ctrl+C
//
// Захватывает микрофон, прогоняет через MFCC-анализатор и дважды в
// секунду печатает текущий вектор признаков

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"antiphon/analysis"
	"antiphon/audio"
)

func main() {
	device := flag.String("device", "", "Capture device name substring")
	listDevices := flag.Bool("list-devices", false, "List audio devices and exit")
	flag.Parse()

	log.Println("=== Тест анализа с микрофона ===")

	capture, err := audio.NewCapture()
	if err != nil {
		log.Fatalf("Ошибка инициализации захвата: %v", err)
	}
	defer capture.Close()

	if *listDevices {
		devices, err := capture.ListDevices()
		if err != nil {
			log.Fatalf("Ошибка перечисления устройств: %v", err)
		}
		for _, d := range devices {
			log.Printf("  %s (input=%v output=%v)", d.Name, d.IsInput, d.IsOutput)
		}
		return
	}

	if *device != "" {
		if err := capture.SetDeviceByName(*device); err != nil {
			log.Fatalf("Ошибка выбора устройства: %v", err)
		}
	}

	analyzer, err := analysis.NewAnalyzer(analysis.DefaultConfig())
	if err != nil {
		log.Fatalf("Ошибка инициализации анализатора: %v", err)
	}

	if err := capture.Start(); err != nil {
		log.Fatalf("Ошибка запуска захвата: %v", err)
	}
	log.Println("Захват начался, нажмите Ctrl+C для остановки...")

	go func() {
		for samples := range capture.Data() {
			analyzer.Push(samples)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			vec := analyzer.Current()
			parts := make([]string, len(vec))
			for i, v := range vec {
				parts[i] = fmt.Sprintf("%7.2f", v)
			}
			log.Printf("MFCC: [%s]", strings.Join(parts, " "))
		case <-stopChan:
			log.Println("Остановка...")
			capture.Stop()
			return
		}
	}
}
