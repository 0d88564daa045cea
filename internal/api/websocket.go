// internal/api/websocket.go
package api

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/services"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// WebSocketConnection is the part of *websocket.Conn the hub uses.
type WebSocketConnection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
}

var _ WebSocketConnection = (*websocket.Conn)(nil)

// BacklogFunc returns the logged events with seq > afterSeq in seq order.
type BacklogFunc func(afterSeq int) []models.EventLogEntry

// eventsFrame is the only frame the hub sends.
type eventsFrame struct {
	Type  string                 `json:"type"`
	Items []models.EventLogEntry `json:"items"`
}

// WebSocketClient is one observer connection.
type WebSocketClient struct {
	conn      WebSocketConnection
	role      services.Role
	afterSeq  int
	send      chan []byte
	closed    int32
	lastSeen  atomic.Int64
	createdAt time.Time

	// cursor is the highest seq queued to send; owned by the hub loop.
	cursor int
}

func newWebSocketClient(conn WebSocketConnection, role services.Role, afterSeq, buffer int) *WebSocketClient {
	now := time.Now()
	client := &WebSocketClient{
		conn:      conn,
		role:      role,
		afterSeq:  afterSeq,
		send:      make(chan []byte, buffer),
		createdAt: now,
	}
	client.lastSeen.Store(now.UnixNano())
	return client
}

// Touch records activity from the peer.
func (client *WebSocketClient) Touch() {
	client.lastSeen.Store(time.Now().UnixNano())
}

// IsExpired reports whether the peer has been silent longer than timeout.
func (client *WebSocketClient) IsExpired(timeout time.Duration, now time.Time) bool {
	return now.Sub(time.Unix(0, client.lastSeen.Load())) > timeout
}

// Close closes the connection once; the writer exits when the hub closes send.
func (client *WebSocketClient) Close() {
	if atomic.CompareAndSwapInt32(&client.closed, 0, 1) && client.conn != nil {
		client.conn.Close()
	}
}

// WebSocketManager fans sequenced events out to observers. Each client
// first receives the backlog after its after_seq, then live batches. Both
// are produced by the single run loop, which tracks a per-client cursor so
// that no event is skipped or repeated.
type WebSocketManager struct {
	clients    map[*WebSocketClient]bool
	register   chan *WebSocketClient
	unregister chan *WebSocketClient
	resync     chan string
	wake       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex

	pendingMu sync.Mutex
	pending   []models.EventLogEntry

	backlog     BacklogFunc
	sendBuffer  int
	pingTimeout time.Duration
	logger      *utils.Logger
	metrics     *utils.MetricsCollector
}

// NewWebSocketManager creates a hub reading replays from backlog. Start
// must be called before clients connect.
func NewWebSocketManager(backlog BacklogFunc, sendBuffer int, pingTimeout time.Duration) *WebSocketManager {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	if pingTimeout <= 0 {
		pingTimeout = 60 * time.Second
	}
	return &WebSocketManager{
		clients:     make(map[*WebSocketClient]bool),
		register:    make(chan *WebSocketClient, 64),
		unregister:  make(chan *WebSocketClient, 64),
		resync:      make(chan string, 1),
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		backlog:     backlog,
		sendBuffer:  sendBuffer,
		pingTimeout: pingTimeout,
		logger:      utils.GetLogger(),
		metrics:     utils.GetMetricsCollector(),
	}
}

// Start runs the hub loop in the background.
func (m *WebSocketManager) Start() {
	go m.run()
}

// Close disconnects every client and stops the loop.
func (m *WebSocketManager) Close() {
	m.stopOnce.Do(func() { close(m.done) })
}

// Publish queues sequenced events for delivery. It never blocks.
func (m *WebSocketManager) Publish(events []models.EventLogEntry) {
	if len(events) == 0 {
		return
	}
	m.pendingMu.Lock()
	m.pending = append(m.pending, events...)
	m.pendingMu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Resync drops every connection so clients reconnect and replay from
// their last seen seq. Used after the event log was replaced.
func (m *WebSocketManager) Resync(reason string) {
	select {
	case m.resync <- reason:
	default:
	}
}

// Register hands a connected client to the hub.
func (m *WebSocketManager) Register(client *WebSocketClient) bool {
	select {
	case m.register <- client:
		return true
	case <-m.done:
		return false
	}
}

// Unregister removes a client; safe to call more than once.
func (m *WebSocketManager) Unregister(client *WebSocketClient) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

func (m *WebSocketManager) run() {
	ticker := time.NewTicker(m.pingTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case client := <-m.register:
			m.addClient(client)
		case client := <-m.unregister:
			m.removeClient(client)
		case <-m.wake:
			m.flush()
		case reason := <-m.resync:
			m.dropAll(reason)
		case now := <-ticker.C:
			m.expire(now)
		case <-m.done:
			m.dropAll("server shutting down")
			return
		}
	}
}

func (m *WebSocketManager) addClient(client *WebSocketClient) {
	m.mutex.Lock()
	m.clients[client] = true
	m.mutex.Unlock()
	m.metrics.SetGauge(utils.MetricWSConnections, int64(m.count()))

	client.cursor = client.afterSeq
	backlog := m.backlog(client.afterSeq)
	if len(backlog) > 0 {
		if !m.deliver(client, backlog) {
			return
		}
	}
	m.logger.Debug("WebSocket client registered", map[string]interface{}{
		"role":      string(client.role),
		"after_seq": client.afterSeq,
		"replayed":  len(backlog),
	})
}

func (m *WebSocketManager) removeClient(client *WebSocketClient) {
	m.mutex.Lock()
	_, ok := m.clients[client]
	if ok {
		delete(m.clients, client)
		close(client.send)
	}
	m.mutex.Unlock()
	if ok {
		m.metrics.SetGauge(utils.MetricWSConnections, int64(m.count()))
	}
}

func (m *WebSocketManager) flush() {
	m.pendingMu.Lock()
	batch := m.pending
	m.pending = nil
	m.pendingMu.Unlock()
	if len(batch) == 0 {
		return
	}
	m.metrics.IncrementCounter(utils.MetricBroadcastBatches)

	for _, client := range m.snapshotClients() {
		m.deliver(client, batch)
	}
}

// deliver queues the events after client.cursor. A client whose queue is
// full is dropped and must reconnect with its last seen seq.
func (m *WebSocketManager) deliver(client *WebSocketClient, events []models.EventLogEntry) bool {
	items := make([]models.EventLogEntry, 0, len(events))
	for _, event := range events {
		if event.Seq > client.cursor {
			items = append(items, event)
		}
	}
	if len(items) == 0 {
		return true
	}

	frame, err := json.Marshal(eventsFrame{Type: "events", Items: items})
	if err != nil {
		m.logger.Error("Failed to encode events frame", map[string]interface{}{"error": err.Error()})
		return true
	}

	select {
	case client.send <- frame:
		client.cursor = items[len(items)-1].Seq
		return true
	default:
		m.metrics.IncrementCounter(utils.MetricWSDropped)
		m.logger.Warn("Dropping slow WebSocket client", map[string]interface{}{
			"role":   string(client.role),
			"cursor": client.cursor,
		})
		m.removeClient(client)
		client.Close()
		return false
	}
}

func (m *WebSocketManager) expire(now time.Time) {
	for _, client := range m.snapshotClients() {
		if client.IsExpired(m.pingTimeout, now) {
			m.logger.Info("WebSocket client timed out", map[string]interface{}{"role": string(client.role)})
			m.removeClient(client)
			client.Close()
		}
	}
}

func (m *WebSocketManager) dropAll(reason string) {
	clients := m.snapshotClients()
	for _, client := range clients {
		m.removeClient(client)
	}
	if len(clients) > 0 {
		m.logger.Info("WebSocket clients disconnected", map[string]interface{}{
			"count":  len(clients),
			"reason": reason,
		})
	}
}

func (m *WebSocketManager) snapshotClients() []*WebSocketClient {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]*WebSocketClient, 0, len(m.clients))
	for client := range m.clients {
		out = append(out, client)
	}
	return out
}

func (m *WebSocketManager) count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// GetStatus summarizes the connected observers.
func (m *WebSocketManager) GetStatus() map[string]interface{} {
	m.mutex.RLock()
	byRole := map[string]int{}
	for client := range m.clients {
		byRole[string(client.role)]++
	}
	total := len(m.clients)
	m.mutex.RUnlock()

	m.pendingMu.Lock()
	pending := len(m.pending)
	m.pendingMu.Unlock()

	return map[string]interface{}{
		"connections":  total,
		"by_role":      byRole,
		"pending":      pending,
		"send_buffer":  m.sendBuffer,
		"ping_timeout": m.pingTimeout.String(),
		"dropped":      m.metrics.GetCounterValue(utils.MetricWSDropped),
	}
}
