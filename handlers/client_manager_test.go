package handlers

import (
	"errors"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"
	"go.uber.org/zap"
)

type countingSender struct {
	mutex sync.Mutex
	got   []interface{}
	err   error
}

func (s *countingSender) SendMessage(msg interface{}) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, msg)
	return nil
}

func (s *countingSender) count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.got)
}

func TestClientManagerDelivery(t *testing.T) {
	cm := NewClientManager(zap.NewNop())
	a, b, c := &countingSender{}, &countingSender{}, &countingSender{}
	cm.AddClient("a", a)
	cm.AddClient("b", b)
	cm.AddClient("c", c)
	testutil.AssertEqual(t, "count", cm.Count(), 3)

	cm.SendTo("b", "direct")
	cm.SendTo("nobody", "lost")
	cm.BroadcastToAll("everyone")
	cm.BroadcastToOthers("a", "not a")

	testutil.AssertEqual(t, "a", a.count(), 1)
	testutil.AssertEqual(t, "b", b.count(), 3)
	testutil.AssertEqual(t, "c", c.count(), 2)

	cm.RemoveClient("c")
	cm.BroadcastToAll("after removal")
	testutil.AssertEqual(t, "c after removal", c.count(), 2)
	testutil.AssertEqual(t, "count after removal", cm.Count(), 2)
}

func TestClientManagerFailingSender(t *testing.T) {
	cm := NewClientManager(zap.NewNop())
	broken := &countingSender{err: errors.New("buffer full")}
	healthy := &countingSender{}
	cm.AddClient("broken", broken)
	cm.AddClient("healthy", healthy)

	// one failing client does not stop delivery to the rest
	cm.BroadcastToAll("hello")
	cm.SendTo("broken", "direct")

	testutil.AssertEqual(t, "healthy", healthy.count(), 1)
	testutil.AssertEqual(t, "broken", broken.count(), 0)
}
