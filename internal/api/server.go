// Package api поднимает монитор сессии: WebSocket-поток событий
// таймлайна с командами статуса и gRPC-канал управления с тем же
// форматом сообщений
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"antiphon/audio"
	"antiphon/corpus"
	"antiphon/internal/config"
	"antiphon/session"
	"antiphon/synth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	Config  *config.Config
	Session *session.Session
	Capture *audio.Capture
	Gate    *synth.Gate
	Table   *corpus.Table

	// останавливает сессию целиком по команде монитора
	stop context.CancelFunc

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	streams map[Control_StreamServer]bool
}

func NewServer(cfg *config.Config, sess *session.Session, capture *audio.Capture,
	gate *synth.Gate, table *corpus.Table, stop context.CancelFunc) *Server {
	return &Server{
		Config:  cfg,
		Session: sess,
		Capture: capture,
		Gate:    gate,
		Table:   table,
		stop:    stop,
		clients: make(map[*websocket.Conn]bool),
		streams: make(map[Control_StreamServer]bool),
	}
}

// Start поднимает HTTP-монитор и, если настроен адрес, gRPC-канал.
// Блокируется на HTTP-сервере
func (s *Server) Start() {
	if s.Config.GRPCAddr != "" {
		go s.startGRPCServer()
	}
	if s.Config.Port == "0" {
		return
	}

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/api/status", s.handleStatusAPI)

	log.Printf("[Monitor] Listening on :%s", s.Config.Port)
	if err := http.ListenAndServe(":"+s.Config.Port, nil); err != nil {
		log.Fatal("ListenAndServe:", err)
	}
}

// PumpEvents транслирует события таймлайна всем подключённым
// клиентам до закрытия канала
func (s *Server) PumpEvents(events <-chan session.Event) {
	for ev := range events {
		ev := ev
		s.broadcast(Message{Type: "event", Event: &ev})
	}
}

func (s *Server) status() *Status {
	return &Status{
		Session:       s.Session.Snapshot(),
		CorpusWindows: s.Table.Len(),
		CorpusFiles:   len(s.Table.Files()),
		GateOpen:      s.Gate.IsOpen(),
	}
}

func (s *Server) broadcast(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("[Monitor] Write error: %v", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
	for stream := range s.streams {
		if err := stream.Send(&msg); err != nil {
			delete(s.streams, stream)
		}
	}
}

// writeConn сериализует записи в соединение с broadcast
func (s *Server) writeConn(conn *websocket.Conn, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[Monitor] Write error: %v", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Monitor] Upgrade:", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		s.processMessage(func(m Message) { s.writeConn(conn, m) }, msg)
	}
}

func (s *Server) processMessage(reply func(Message), msg Message) {
	switch msg.Type {
	case "get_status":
		reply(Message{Type: "status", Status: s.status()})

	case "get_devices":
		devices, err := s.Capture.ListDevices()
		if err != nil {
			reply(Message{Type: "error", Error: err.Error()})
			return
		}
		reply(Message{Type: "devices", Devices: devices})

	case "stop_session":
		log.Printf("[Monitor] Stop requested")
		reply(Message{Type: "session_stopping"})
		s.stop()

	default:
		reply(Message{Type: "error", Error: "unknown command: " + msg.Type})
	}
}

func (s *Server) handleStatusAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.status())
}
