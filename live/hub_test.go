package live

import (
	"io"
	"log/slog"
	"sync"
	"testing"
)

type fakeSubscriber struct {
	id   string
	full bool

	mu   sync.Mutex
	msgs [][]byte
}

func (s *fakeSubscriber) ID() string { return s.id }

func (s *fakeSubscriber) Send(msg []byte) bool {
	if s.full {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return true
}

func (s *fakeSubscriber) received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.msgs...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHubBroadcastReachesRoomMembersOnly(t *testing.T) {
	h := NewHub(discardLogger())
	a := &fakeSubscriber{id: "a"}
	b := &fakeSubscriber{id: "b"}
	other := &fakeSubscriber{id: "other"}

	h.Join(MatchRoom(1), a)
	h.Join(MatchRoom(1), b)
	h.Join(MatchRoom(2), other)

	if n := h.Broadcast(MatchRoom(1), []byte("x")); n != 2 {
		t.Fatalf("delivered = %d, want 2", n)
	}
	if len(a.received()) != 1 || len(b.received()) != 1 {
		t.Fatalf("room members got %d and %d messages", len(a.received()), len(b.received()))
	}
	if len(other.received()) != 0 {
		t.Fatalf("subscriber of another room got %d messages", len(other.received()))
	}
}

func TestHubLeave(t *testing.T) {
	h := NewHub(discardLogger())
	a := &fakeSubscriber{id: "a"}
	h.Join(MatchRoom(1), a)
	h.Join(TournamentRoom(9), a)

	h.Leave(MatchRoom(1), "nobody")
	h.Leave("match:404", "a")
	if got := h.RoomSize(MatchRoom(1)); got != 1 {
		t.Fatalf("unknown leave changed room size to %d", got)
	}

	h.Leave(MatchRoom(1), "a")
	if got := h.RoomSize(MatchRoom(1)); got != 0 {
		t.Fatalf("room size after leave = %d", got)
	}
	if n := h.Broadcast(MatchRoom(1), []byte("x")); n != 0 {
		t.Fatalf("delivered %d after leave", n)
	}

	h.LeaveAll("a")
	if got := h.RoomSize(TournamentRoom(9)); got != 0 {
		t.Fatalf("tournament room size after LeaveAll = %d", got)
	}
}

func TestHubSkipsFullSubscribers(t *testing.T) {
	h := NewHub(discardLogger())
	slow := &fakeSubscriber{id: "slow", full: true}
	fast := &fakeSubscriber{id: "fast"}
	h.Join(MatchRoom(1), slow)
	h.Join(MatchRoom(1), fast)

	if n := h.Broadcast(MatchRoom(1), []byte("x")); n != 1 {
		t.Fatalf("delivered = %d, want 1", n)
	}
	if len(fast.received()) != 1 {
		t.Fatal("fast subscriber missed the message")
	}
}
