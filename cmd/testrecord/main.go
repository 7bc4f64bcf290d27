// Простой тест записи микрофона через session.Recorder
// Запуск: go run ./cmd/testrecord -out recordings
// Остановка: Ctrl+C
//
// Пишет recordings/performance_testrecord.wav (и .mp3 с флагом -mp3)

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"antiphon/audio"
	"antiphon/session"
)

func main() {
	out := flag.String("out", "recordings", "Output directory")
	mp3 := flag.Bool("mp3", false, "Also write an MP3 track")
	device := flag.String("device", "", "Capture device name substring")
	flag.Parse()

	log.Println("=== Тест записи микрофона ===")
	log.Printf("Формат: %d Гц, стерео, 16 бит", audio.SampleRate)
	log.Println("Нажмите Ctrl+C для остановки...")

	capture, err := audio.NewCapture()
	if err != nil {
		log.Fatalf("Ошибка инициализации захвата: %v", err)
	}
	defer capture.Close()

	if *device != "" {
		if err := capture.SetDeviceByName(*device); err != nil {
			log.Fatalf("Ошибка выбора устройства: %v", err)
		}
	}

	recorder, err := session.NewRecorder(*out, "testrecord", *mp3)
	if err != nil {
		log.Fatalf("Ошибка создания рекордера: %v", err)
	}

	if err := capture.Start(); err != nil {
		log.Fatalf("Ошибка запуска захвата: %v", err)
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)

		var frames int64
		start := time.Now()
		nextReport := start.Add(5 * time.Second)

		for {
			select {
			case <-quit:
				return
			case mono, ok := <-capture.Data():
				if !ok {
					return
				}
				// Рекордер ждёт интерлив-стерео, дублируем моно в оба канала
				stereo := make([]float32, len(mono)*2)
				for i, s := range mono {
					stereo[i*2] = s
					stereo[i*2+1] = s
				}
				recorder.Feed(stereo)
				frames += int64(len(mono))

				if now := time.Now(); now.After(nextReport) {
					log.Printf("Записано: %.1f сек (%d кадров)",
						now.Sub(start).Seconds(), frames)
					nextReport = now.Add(5 * time.Second)
				}
			}
		}
	}()

	<-stopChan
	log.Println("Остановка записи...")

	capture.Stop()
	close(quit)
	<-done

	if err := recorder.Close(); err != nil {
		log.Fatalf("Ошибка закрытия рекордера: %v", err)
	}
	log.Println("Готово")
}
