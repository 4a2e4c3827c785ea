package operation

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/commitfit/internal/input"
	"github.com/commitfit/internal/region"
	"github.com/commitfit/internal/transport"
	"github.com/commitfit/pkg/models"
)

type sentCall struct {
	endpoint string
	body     models.RepoRef
}

type reply struct {
	payload string
	err     error
}

// staticSender answers every call with the same reply.
type staticSender struct {
	mu    sync.Mutex
	calls []sentCall
	reply reply
}

func (s *staticSender) Send(_ context.Context, endpoint string, body models.RepoRef) (json.RawMessage, error) {
	s.mu.Lock()
	s.calls = append(s.calls, sentCall{endpoint: endpoint, body: body})
	s.mu.Unlock()

	if s.reply.err != nil {
		return nil, s.reply.err
	}
	return json.RawMessage(s.reply.payload), nil
}

func (s *staticSender) Calls() []sentCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentCall(nil), s.calls...)
}

// gatedSender blocks every call until the test releases it.
type gatedSender struct {
	mu      sync.Mutex
	calls   []sentCall
	gates   map[int]chan reply
	arrived chan int
}

func newGatedSender() *gatedSender {
	return &gatedSender{
		gates:   make(map[int]chan reply),
		arrived: make(chan int, 16),
	}
}

func (s *gatedSender) gate(i int) chan reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateLocked(i)
}

func (s *gatedSender) gateLocked(i int) chan reply {
	g, ok := s.gates[i]
	if !ok {
		g = make(chan reply, 1)
		s.gates[i] = g
	}
	return g
}

func (s *gatedSender) Send(ctx context.Context, endpoint string, body models.RepoRef) (json.RawMessage, error) {
	s.mu.Lock()
	i := len(s.calls)
	s.calls = append(s.calls, sentCall{endpoint: endpoint, body: body})
	g := s.gateLocked(i)
	s.mu.Unlock()

	s.arrived <- i

	select {
	case r := <-g:
		if r.err != nil {
			return nil, r.err
		}
		return json.RawMessage(r.payload), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release answers call i.
func (s *gatedSender) release(i int, r reply) {
	s.gate(i) <- r
}

// awaitCall waits until call i reached the sender.
func (s *gatedSender) awaitCall(t *testing.T, i int) {
	t.Helper()
	select {
	case got := <-s.arrived:
		require.Equal(t, i, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("call %d never reached the sender", i)
	}
}

type harness struct {
	board  *region.Board
	layout region.Layout
	fields *input.Fields
	ctrl   *Controller
}

func newHarness(t *testing.T, def Definition, sender transport.Sender, discardStale bool) *harness {
	t.Helper()

	board := region.NewBoard(nil)
	layout := region.DefaultLayout(def.Kind)
	fields := input.NewFields("octocat", "Hello-World")

	ctrl, err := NewController(Config{
		Definition:   def,
		Input:        fields,
		Sender:       sender,
		Status:       board.Region(layout.Status),
		Result:       board.Region(layout.Result),
		DiscardStale: discardStale,
	})
	require.NoError(t, err)

	return &harness{board: board, layout: layout, fields: fields, ctrl: ctrl}
}

func (h *harness) status() string {
	return h.board.Get(h.layout.Status).Message
}

func (h *harness) statusOutput() string {
	return h.board.Get(h.layout.Status).Output
}

func (h *harness) resultEmpty() bool {
	return h.board.Get(h.layout.Result).Empty()
}
