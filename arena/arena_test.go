package arena

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"derby/protocol"
	"derby/race"
)

type fakeConn struct {
	sendCh chan []byte
}

func (f *fakeConn) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	f.sendCh <- cp
	return nil
}

func (f *fakeConn) Close() error {
	return nil
}

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	engine, err := race.New(race.Config{
		PoolSize:  20,
		PerRound:  10,
		BaseSpeed: 10,
		Distances: []int{1200, 1400},
		Seed:      1,
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	// Short cadence keeps the tests fast; the engine is interval-agnostic.
	return New(engine, 2*time.Millisecond)
}

func watch(t *testing.T, a *Arena, fc Conn) string {
	t.Helper()
	reply := make(chan WatchResult, 1)
	a.Inbox <- Watch{Conn: fc, Reply: reply}
	res := <-reply
	if res.ClientID == "" {
		t.Fatalf("expected client id, got empty")
	}
	return res.ClientID
}

// nextState reads snapshots from fc until the deadline, returning the first
// one accepted by keep (or any state when keep is nil).
func nextState(t *testing.T, fc *fakeConn, keep func(protocol.State) bool) protocol.State {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case b := <-fc.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil || env.T != protocol.MsgState {
				continue
			}
			st, err := protocol.DecodePayload[protocol.State](env)
			if err != nil {
				t.Fatalf("decode state: %v", err)
			}
			if keep == nil || keep(st) {
				return st
			}
		case <-timeout:
			t.Fatalf("timed out waiting for a matching state snapshot")
		}
	}
}

func TestArenaWatchReceivesIdleSnapshot(t *testing.T) {
	a := newTestArena(t)
	go a.Run()
	defer a.Stop()

	fc := &fakeConn{sendCh: make(chan []byte, 64)}
	watch(t, a, fc)

	st := nextState(t, fc, nil)
	if st.Round != race.RoundNotStarted {
		t.Fatalf("round = %d, want %d before start", st.Round, race.RoundNotStarted)
	}
	if !st.Paused {
		t.Fatalf("expected idle engine to report paused")
	}
	if len(st.Lanes) != 0 {
		t.Fatalf("expected no lanes before start, got %d", len(st.Lanes))
	}
}

func TestArenaStartBeginsRacing(t *testing.T) {
	a := newTestArena(t)
	go a.Run()
	defer a.Stop()

	fc := &fakeConn{sendCh: make(chan []byte, 256)}
	watch(t, a, fc)
	a.Inbox <- Command{Verb: protocol.VerbStart}

	st := nextState(t, fc, func(st protocol.State) bool {
		return st.Round == 0 && len(st.Lanes) > 0
	})
	if len(st.Competitors) != 20 {
		t.Fatalf("roster size = %d, want 20", len(st.Competitors))
	}
	if len(st.Racing) != 10 || len(st.Lanes) != 10 {
		t.Fatalf("racing = %d lanes = %d, want 10 each", len(st.Racing), len(st.Lanes))
	}
	if st.Distance != 1200 {
		t.Fatalf("round distance = %d, want 1200", st.Distance)
	}

	// Lanes must advance between snapshots while unpaused.
	nextState(t, fc, func(st protocol.State) bool {
		for _, lane := range st.Lanes {
			if lane.Distance > 0 {
				return true
			}
		}
		return false
	})
}

func TestArenaPauseStopsTicking(t *testing.T) {
	a := newTestArena(t)
	go a.Run()
	defer a.Stop()

	fc := &fakeConn{sendCh: make(chan []byte, 256)}
	watch(t, a, fc)
	a.Inbox <- Command{Verb: protocol.VerbStart}
	nextState(t, fc, func(st protocol.State) bool { return st.Round == 0 })

	a.Inbox <- Command{Verb: protocol.VerbPause}
	nextState(t, fc, func(st protocol.State) bool { return st.Paused })

	// With the cadence cancelled and no commands in flight, no further
	// snapshot may arrive.
	select {
	case b := <-fc.sendCh:
		env, err := protocol.DecodeEnvelope(b)
		if err == nil && env.T == protocol.MsgState {
			t.Fatalf("received a snapshot while paused; cadence still running")
		}
	case <-time.After(50 * time.Millisecond):
	}

	a.Inbox <- Command{Verb: protocol.VerbResume}
	nextState(t, fc, func(st protocol.State) bool { return !st.Paused })
}

func TestArenaRunsRaceToCompletion(t *testing.T) {
	a := newTestArena(t)
	go a.Run()
	defer a.Stop()

	fc := &fakeConn{sendCh: make(chan []byte, 1024)}
	watch(t, a, fc)
	a.Inbox <- Command{Verb: protocol.VerbStart}

	st := nextState(t, fc, func(st protocol.State) bool {
		return st.Round == st.Rounds
	})
	if !st.Paused {
		t.Fatalf("terminal state must report paused")
	}
	if len(st.Results) != st.Rounds {
		t.Fatalf("results = %d, want %d", len(st.Results), st.Rounds)
	}
	for round, res := range st.Results {
		if len(res.Rankings) != 10 {
			t.Fatalf("round %d rankings = %d, want 10", round, len(res.Rankings))
		}
		for i, r := range res.Rankings {
			if r.Rank != i+1 {
				t.Fatalf("round %d rank[%d] = %d, want %d", round, i, r.Rank, i+1)
			}
			if r.Elapsed == "" {
				t.Fatalf("round %d rank %d has no elapsed display", round, r.Rank)
			}
		}
	}
}

func TestArenaResetClearsResultsKeepsRoster(t *testing.T) {
	a := newTestArena(t)
	go a.Run()
	defer a.Stop()

	fc := &fakeConn{sendCh: make(chan []byte, 1024)}
	watch(t, a, fc)
	a.Inbox <- Command{Verb: protocol.VerbStart}
	nextState(t, fc, func(st protocol.State) bool { return st.Round == 0 })

	a.Inbox <- Command{Verb: protocol.VerbReset}
	st := nextState(t, fc, func(st protocol.State) bool {
		return st.Round == race.RoundNotStarted
	})
	if !st.Paused {
		t.Fatalf("reset engine must report paused")
	}
	if len(st.Results) != 0 || len(st.Lanes) != 0 {
		t.Fatalf("reset left results=%d lanes=%d", len(st.Results), len(st.Lanes))
	}
	if len(st.Competitors) != 20 {
		t.Fatalf("reset discarded the roster: %d competitors", len(st.Competitors))
	}
}

type failingConn struct {
	closed atomic.Bool
}

func (f *failingConn) Send([]byte) error { return errors.New("send failed") }

func (f *failingConn) Close() error {
	f.closed.Store(true)
	return nil
}

func TestArenaEvictsFailingWatcher(t *testing.T) {
	a := newTestArena(t)
	go a.Run()
	defer a.Stop()

	bad := &failingConn{}
	good := &fakeConn{sendCh: make(chan []byte, 1024)}
	watch(t, a, bad)
	watch(t, a, good)

	a.Inbox <- Command{Verb: protocol.VerbStart}

	deadline := time.After(2 * time.Second)
	for !bad.closed.Load() {
		select {
		case <-good.sendCh:
		case <-deadline:
			t.Fatalf("failing watcher was never evicted")
		}
	}

	// The healthy watcher keeps receiving after the eviction.
	nextState(t, good, nil)
}

func TestArenaLeaveClosesConn(t *testing.T) {
	a := newTestArena(t)
	go a.Run()
	defer a.Stop()

	fc := &fakeConn{sendCh: make(chan []byte, 64)}
	id := watch(t, a, fc)
	a.Inbox <- Leave{ClientID: id}

	// A later command must not broadcast to the departed watcher. Drain what
	// was already in flight first.
	a.Inbox <- Command{Verb: protocol.VerbStart}
	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case <-fc.sendCh:
			continue
		default:
		}
		break
	}
	time.Sleep(50 * time.Millisecond)
	select {
	case <-fc.sendCh:
		t.Fatalf("departed watcher still receives broadcasts")
	default:
	}
}
