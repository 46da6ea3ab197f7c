// Package stream broadcasts rig frames to websocket clients and accepts
// personality commands from them.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexmotion/internal/bus"
	"github.com/normanking/cortexmotion/internal/logging"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/normanking/cortexmotion/internal/rig"
)

// Message types on the wire.
const (
	TypeFrame       = "frame"
	TypeState       = "state"
	TypePersonality = "personality"
	TypePreset      = "preset"
	TypeReset       = "reset"
	TypeError       = "error"
	TypeEvent       = "event"
	TypeLog         = "log"
)

// ForwardedEvents are the bus events relayed to every client.
var ForwardedEvents = []bus.EventType{
	bus.EventTypeLegStateChanged,
	bus.EventTypePersonalityChanged,
	bus.EventTypeParametersOverridden,
	bus.EventTypeRigReset,
	bus.EventTypeProfileReloaded,
	bus.EventTypeProfileReloadFailed,
}

// Message is the envelope for both directions.
type Message struct {
	Type   string              `json:"type"`
	Frame  *rig.Frame          `json:"frame,omitempty"`
	State  *rig.State          `json:"state,omitempty"`
	Traits *personality.Traits `json:"traits,omitempty"`
	Preset string              `json:"preset,omitempty"`
	Error  string              `json:"error,omitempty"`
	Event  *EventMessage       `json:"event,omitempty"`
	Log    *logging.LogEntry   `json:"log,omitempty"`
}

// EventMessage is a bus event as sent to clients.
type EventMessage struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data,omitempty"`
}

// Controller is the part of the rig clients may drive.
type Controller interface {
	SetTraits(t personality.Traits)
	Reset()
	State() rig.State
}

// Recorder receives client counts and drops; metrics.Collector satisfies it.
type Recorder interface {
	ClientConnected()
	ClientDisconnected()
	FrameDropped()
}

type nopRecorder struct{}

func (nopRecorder) ClientConnected()    {}
func (nopRecorder) ClientDisconnected() {}
func (nopRecorder) FrameDropped()       {}

// Config tunes per-client buffering.
type Config struct {
	SendBuffer   int
	WriteTimeout time.Duration
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected client.
type Hub struct {
	upgrader websocket.Upgrader
	cfg      Config
	ctrl     Controller

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool

	log     zerolog.Logger
	bus     *bus.EventBus
	sub     bus.SubscriptionID
	metrics Recorder
}

// NewHub creates a hub. ctrl may be nil for a read-only stream. With a
// non-nil bus the hub relays ForwardedEvents until Close.
func NewHub(cfg Config, ctrl Controller, log zerolog.Logger, b *bus.EventBus, rec Recorder) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 16
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	h := &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		cfg:     cfg,
		ctrl:    ctrl,
		clients: make(map[string]*client),
		log:     log,
		bus:     b,
		metrics: rec,
	}
	h.sub = b.Subscribe(h.forward, ForwardedEvents...)
	return h
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues f for every client. Clients whose queue is full miss
// this frame.
func (h *Hub) Broadcast(f rig.Frame) {
	h.broadcast(Message{Type: TypeFrame, Frame: &f})
}

// SendLog relays a log entry to every client. It has the signature of
// logging.Logger.SetOnLog.
func (h *Hub) SendLog(e logging.LogEntry) {
	h.broadcast(Message{Type: TypeLog, Log: &e})
}

func (h *Hub) forward(e bus.Event) {
	h.broadcast(Message{Type: TypeEvent, Event: &EventMessage{Name: string(e.Type), Data: e.Data}})
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("type", msg.Type).Msg("Failed to encode message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.metrics.FrameDropped()
		}
	}
}

// ServeHTTP upgrades the request and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	h.metrics.ClientConnected()
	h.log.Info().Str("client", c.id).Str("remote", r.RemoteAddr).Msg("Stream client connected")
	h.bus.Publish(bus.Event{Type: bus.EventTypeClientConnected, Data: map[string]any{"client": c.id}})

	if h.ctrl != nil {
		st := h.ctrl.State()
		h.reply(c, Message{Type: TypeState, State: &st})
	}

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		h.metrics.ClientDisconnected()
		h.log.Info().Str("client", c.id).Msg("Stream client disconnected")
		h.bus.Publish(bus.Event{Type: bus.EventTypeClientDisconnected, Data: map[string]any{"client": c.id}})
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug().Err(err).Str("client", c.id).Msg("WebSocket write failed")
			h.remove(c)
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug().Err(err).Str("client", c.id).Msg("WebSocket read error")
			}
			return
		}
		h.handle(c, msg)
	}
}

func (h *Hub) handle(c *client, msg Message) {
	if h.ctrl == nil {
		h.reply(c, Message{Type: TypeError, Error: "stream is read-only"})
		return
	}

	switch msg.Type {
	case TypePersonality:
		if msg.Traits == nil {
			h.reply(c, Message{Type: TypeError, Error: "personality message without traits"})
			return
		}
		h.ctrl.SetTraits(msg.Traits.Clamped())
	case TypePreset:
		p, ok := personality.Preset(msg.Preset)
		if !ok {
			h.reply(c, Message{Type: TypeError, Error: "unknown preset " + msg.Preset})
			return
		}
		h.ctrl.SetTraits(p.Traits)
	case TypeReset:
		h.ctrl.Reset()
	case TypeState:
	default:
		h.reply(c, Message{Type: TypeError, Error: "unknown message type " + msg.Type})
		return
	}

	st := h.ctrl.State()
	h.reply(c, Message{Type: TypeState, State: &st})
}

// reply queues msg for one client, dropping it if the queue is full.
func (h *Hub) reply(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		h.metrics.FrameDropped()
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.bus.Unsubscribe(h.sub)

	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}
