package session

import "time"

// EventType тип события сессии
type EventType string

const (
	// EventBeat очередная доля метронома
	EventBeat EventType = "beat"
	// EventEcho смена фазы записи/воспроизведения эха
	EventEcho EventType = "echo"
	// EventResponse запущенная нота-ответ из корпуса
	EventResponse EventType = "response"
	// EventGate переключение гейта громкости синтеза
	EventGate EventType = "gate"
)

const (
	// EchoPhaseRecord фаза захвата дубля
	EchoPhaseRecord = "record"
	// EchoPhasePlayback фаза воспроизведения дубля
	EchoPhasePlayback = "playback"
)

// Event событие таймлайна сессии для монитора и журнала
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// для beat
	Beat       int  `json:"beat,omitempty"`
	Downbeat   bool `json:"downbeat,omitempty"`
	SystemTurn bool `json:"systemTurn,omitempty"`

	// для echo
	Phase string `json:"phase,omitempty"`

	// для response
	WindowID  int     `json:"windowId,omitempty"`
	File      string  `json:"file,omitempty"`
	StartTime float64 `json:"startTime,omitempty"`
	Distance  float64 `json:"distance,omitempty"`

	// для gate
	GateOpen bool `json:"gateOpen,omitempty"`
}
