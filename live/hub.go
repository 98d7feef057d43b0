package live

import (
	"log/slog"
	"strconv"
	"sync"
)

// Subscriber is one receiving end of a room, usually a websocket client.
// Send must not block; it reports false when the message was dropped.
type Subscriber interface {
	ID() string
	Send(msg []byte) bool
}

func MatchRoom(matchID int) string { return "match:" + strconv.Itoa(matchID) }

func TournamentRoom(tournamentID int) string { return "tournament:" + strconv.Itoa(tournamentID) }

// Hub tracks room membership. Joins and leaves take effect before they return,
// so a subscriber sees every broadcast made after Join.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Subscriber
	member map[string]map[string]struct{} // subscriber id -> rooms
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]Subscriber),
		member: make(map[string]map[string]struct{}),
		logger: logger,
	}
}

func (h *Hub) Join(room string, s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[string]Subscriber)
	}
	h.rooms[room][s.ID()] = s
	if _, ok := h.member[s.ID()]; !ok {
		h.member[s.ID()] = make(map[string]struct{})
	}
	h.member[s.ID()][room] = struct{}{}
	h.logger.Debug("subscriber joined room", "room", room, "subscriber_id", s.ID(), "room_size", len(h.rooms[room]))
}

// Leave is a no-op for unknown subscribers and rooms.
func (h *Hub) Leave(room, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(room, subscriberID)
}

// LeaveAll removes the subscriber from every room, e.g. when its socket closes.
func (h *Hub) LeaveAll(subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.member[subscriberID] {
		h.leaveLocked(room, subscriberID)
	}
}

func (h *Hub) leaveLocked(room, subscriberID string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	if _, ok := members[subscriberID]; !ok {
		return
	}
	delete(members, subscriberID)
	if len(members) == 0 {
		delete(h.rooms, room)
		h.logger.Debug("room closed as it is empty", "room", room)
	}
	if rooms, ok := h.member[subscriberID]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(h.member, subscriberID)
		}
	}
}

// RoomSize returns the number of subscribers in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast delivers msg to everyone in room and returns how many accepted it.
// Slow subscribers whose buffers are full miss the message.
func (h *Hub) Broadcast(room string, msg []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, s := range h.rooms[room] {
		if s.Send(msg) {
			delivered++
			continue
		}
		h.logger.Warn("subscriber send buffer full, message dropped", "room", room, "subscriber_id", id)
	}
	return delivered
}
