package api

import (
	"antiphon/audio"
	"antiphon/session"
)

// Message единица обмена монитора: одна структура для WebSocket и
// gRPC-канала, чтобы не держать два набора типов
type Message struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`

	// поток событий таймлайна
	Event *session.Event `json:"event,omitempty"`

	// ответы на команды
	Status  *Status        `json:"status,omitempty"`
	Devices []audio.Device `json:"devices,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Status снимок состояния сессии для монитора
type Status struct {
	Session       session.Info `json:"session"`
	CorpusWindows int          `json:"corpusWindows"`
	CorpusFiles   int          `json:"corpusFiles"`
	GateOpen      bool         `json:"gateOpen"`
}
