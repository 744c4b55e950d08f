package arena

import (
	"log"
	"sort"
	"time"

	"github.com/segmentio/ksuid"

	"derby/protocol"
	"derby/race"
)

// Arena owns one engine and runs it on a single goroutine: commands and
// watcher churn arrive through Inbox, simulation ticks through a cancellable
// ticker. Nothing else ever touches the engine, which keeps every engine
// operation on one execution context.
type Arena struct {
	Inbox chan any

	engine    *race.Engine
	tickEvery time.Duration
	watchers  map[string]Conn

	ticker *time.Ticker
	tickC  <-chan time.Time // nil while the cadence is stopped

	quit chan struct{}
}

func New(engine *race.Engine, tickEvery time.Duration) *Arena {
	if tickEvery <= 0 {
		tickEvery = protocol.DefaultTickMillis * time.Millisecond
	}
	return &Arena{
		Inbox:     make(chan any, 256),
		engine:    engine,
		tickEvery: tickEvery,
		watchers:  make(map[string]Conn),
		quit:      make(chan struct{}),
	}
}

func (a *Arena) Stop() {
	close(a.quit)
}

// TickEvery is the effective cadence interval.
func (a *Arena) TickEvery() time.Duration { return a.tickEvery }

// Run processes commands and ticks until Stop. Every command is followed by a
// broadcast, so watchers see pause and reset immediately even though the
// cadence is stopped.
func (a *Arena) Run() {
	defer a.stopCadence()
	for {
		select {
		case <-a.quit:
			return
		case cmd := <-a.Inbox:
			a.handleCommand(cmd)
			a.reconcileCadence()
			a.broadcastState()
		case <-a.tickC:
			a.engine.Tick()
			a.reconcileCadence()
			a.broadcastState()
		}
	}
}

func (a *Arena) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Watch:
		id := ksuid.New().String()
		a.watchers[id] = c.Conn
		c.Reply <- WatchResult{ClientID: id}
	case Leave:
		if conn, ok := a.watchers[c.ClientID]; ok {
			_ = conn.Close()
			delete(a.watchers, c.ClientID)
		}
	case Command:
		switch c.Verb {
		case protocol.VerbStart:
			a.engine.Start()
		case protocol.VerbPause:
			a.engine.Pause()
		case protocol.VerbResume:
			a.engine.Resume()
		case protocol.VerbReset:
			a.engine.Reset()
		default:
			log.Printf("arena: unknown command verb %q", c.Verb)
		}
	}
}

// reconcileCadence arms or cancels the ticker to match the engine. Pauses and
// round completion stop it on the spot; a round transition re-arms it only
// after the new round's state is fully set up inside Tick.
func (a *Arena) reconcileCadence() {
	ticking := a.engine.Ticking()
	if ticking && a.ticker == nil {
		a.ticker = time.NewTicker(a.tickEvery)
		a.tickC = a.ticker.C
	}
	if !ticking && a.ticker != nil {
		a.stopCadence()
	}
}

func (a *Arena) stopCadence() {
	if a.ticker != nil {
		a.ticker.Stop()
		a.ticker = nil
		a.tickC = nil
	}
}

func (a *Arena) broadcastState() {
	if len(a.watchers) == 0 {
		return
	}
	b, err := protocol.Encode(protocol.MsgState, a.buildSnapshot())
	if err != nil {
		return
	}

	var failed []string
	for id, conn := range a.watchers {
		if err := conn.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		_ = a.watchers[id].Close()
		delete(a.watchers, id)
	}
}

func (a *Arena) buildSnapshot() protocol.State {
	roster := a.engine.Roster()
	lanes := a.engine.Lanes()
	results := a.engine.Results()

	snapshot := protocol.State{
		Round:       a.engine.Round(),
		Rounds:      a.engine.Rounds(),
		Paused:      a.engine.Paused(),
		Distance:    a.engine.RoundDistance(),
		Racing:      a.engine.Racing(),
		Competitors: make([]protocol.CompetitorSnapshot, 0, len(roster)),
		Lanes:       make([]protocol.LaneSnapshot, 0, len(lanes)),
		Results:     make([]protocol.ResultSnapshot, 0, len(results)),
	}
	for id, c := range roster {
		snapshot.Competitors = append(snapshot.Competitors, protocol.CompetitorSnapshot{
			ID:      id,
			Name:    c.Name,
			Color:   c.Color,
			Fitness: c.Fitness,
		})
	}
	sort.Slice(snapshot.Competitors, func(i, j int) bool {
		return snapshot.Competitors[i].ID < snapshot.Competitors[j].ID
	})
	for id, lane := range lanes {
		ls := protocol.LaneSnapshot{
			ID:       id,
			Distance: lane.Distance,
			Rank:     lane.Rank,
			Finished: lane.Finished,
		}
		if lane.Finished {
			ls.Elapsed = race.FormatElapsed(lane.FinishElapsed)
		}
		snapshot.Lanes = append(snapshot.Lanes, ls)
	}
	sort.Slice(snapshot.Lanes, func(i, j int) bool {
		return snapshot.Lanes[i].ID < snapshot.Lanes[j].ID
	})
	for _, res := range results {
		rs := protocol.ResultSnapshot{
			Distance:  res.Distance,
			StartedAt: res.StartedAt.UnixMilli(),
			Rankings:  make([]protocol.RankingSnapshot, 0, len(res.Rankings)),
		}
		for _, r := range res.Rankings {
			rs.Rankings = append(rs.Rankings, protocol.RankingSnapshot{
				ID:      r.CompetitorID,
				Rank:    r.Rank,
				Elapsed: r.FinishDisplay,
			})
		}
		snapshot.Results = append(snapshot.Results, rs)
	}
	return snapshot
}
