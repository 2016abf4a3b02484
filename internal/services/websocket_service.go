package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"slidecast/internal/engine"
	"slidecast/internal/logger"
)

// Event types pushed to connected clients
const (
	EventEngineSignal     = "engine_signal"
	EventPerformanceStats = "performance_statistics"
	EventShowOpened       = "show_opened"
	EventSlidesChanged    = "slides_changed"
	EventSlideChanged     = "slide_changed"
	EventDevicesChanged   = "devices_changed"
	EventSettingsChanged  = "settings_changed"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 32
)

// Event is a message pushed to every connected client
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// EventPublisher accepts events for broadcast
type EventPublisher interface {
	Publish(event Event)
}

// Client is one WebSocket connection
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// WebSocketService fans events out to WebSocket clients
type WebSocketService struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once
	log        zerolog.Logger
}

// NewWebSocketService creates a new hub; call Run to start delivery
func NewWebSocketService() *WebSocketService {
	return &WebSocketService{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        logger.Component("websocket"),
	}
}

// Run processes registrations and broadcasts until Stop is called
func (s *WebSocketService) Run() {
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			s.mu.Unlock()
			s.log.Debug().Int("clients", s.ClientCount()).Msg("websocket client registered")

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.mu.Unlock()

		case message := <-s.broadcast:
			s.mu.Lock()
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Slow client, drop it
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.mu.Unlock()

		case <-s.done:
			s.mu.Lock()
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and disconnects all clients
func (s *WebSocketService) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// ClientCount returns the number of registered clients
func (s *WebSocketService) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Publish queues event for every client. Events are dropped when the queue is full.
func (s *WebSocketService) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Str("type", event.Type).Msg("failed to marshal event")
		return
	}

	select {
	case s.broadcast <- data:
	default:
		s.log.Warn().Str("type", event.Type).Msg("event queue full, dropping event")
	}
}

// ForwardSignals publishes every engine signal as an engine_signal event
func (s *WebSocketService) ForwardSignals(signals *engine.Signals) (func(), error) {
	return signals.Subscribe(func(signal engine.Signal) {
		s.Publish(Event{Type: EventEngineSignal, Data: signal})
	})
}

// ServeClient registers conn and blocks until it disconnects
func (s *WebSocketService) ServeClient(conn *websocket.Conn) {
	client := &Client{conn: conn, send: make(chan []byte, clientSendSize)}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go s.writePump(client)
	s.readPump(client)
}

// readPump discards client messages and detects disconnects
func (s *WebSocketService) readPump(client *Client) {
	defer func() {
		select {
		case s.unregister <- client:
		case <-s.done:
		}
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

func (s *WebSocketService) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
