// Package session реализует сессию диалога: темповую сетку, общие
// часы задач, планировщик очередей "вопрос-ответ" и запись выступления
package session

import (
	"fmt"
	"time"
)

// Tempo темповая сетка сессии. Все длительности планировщика
// выводятся из трёх целых параметров, полученных при запуске
type Tempo struct {
	BPM               int `json:"bpm"`
	BeatsPerMeasure   int `json:"beatsPerMeasure"`
	MeasuresPerPhrase int `json:"measuresPerPhrase"`
}

// NewTempo проверяет параметры и собирает сетку
func NewTempo(bpm, beatsPerMeasure, measuresPerPhrase int) (Tempo, error) {
	if bpm <= 0 {
		return Tempo{}, fmt.Errorf("bpm must be positive, got %d", bpm)
	}
	if beatsPerMeasure <= 0 {
		return Tempo{}, fmt.Errorf("beats per measure must be positive, got %d", beatsPerMeasure)
	}
	if measuresPerPhrase <= 0 {
		return Tempo{}, fmt.Errorf("measures per phrase must be positive, got %d", measuresPerPhrase)
	}
	return Tempo{
		BPM:               bpm,
		BeatsPerMeasure:   beatsPerMeasure,
		MeasuresPerPhrase: measuresPerPhrase,
	}, nil
}

// Beat возвращает длительность доли
func (t Tempo) Beat() time.Duration {
	return time.Minute / time.Duration(t.BPM)
}

// Measure возвращает длительность такта
func (t Tempo) Measure() time.Duration {
	return t.Beat() * time.Duration(t.BeatsPerMeasure)
}

// Phrase возвращает длительность фразы
func (t Tempo) Phrase() time.Duration {
	return t.Measure() * time.Duration(t.MeasuresPerPhrase)
}

// BeatsPerPhrase возвращает число долей во фразе
func (t Tempo) BeatsPerPhrase() int {
	return t.BeatsPerMeasure * t.MeasuresPerPhrase
}

func (t Tempo) String() string {
	return fmt.Sprintf("%d bpm, %d/%d", t.BPM, t.BeatsPerMeasure, t.MeasuresPerPhrase)
}
