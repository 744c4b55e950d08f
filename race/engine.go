package race

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// RoundNotStarted is the round index before the first Start.
const RoundNotStarted = -1

// Config is supplied at construction; the engine hardcodes none of it.
type Config struct {
	PoolSize  int
	PerRound  int
	BaseSpeed float64
	Distances []int // strictly ascending, one per round
	Seed      int64
	Now       func() time.Time // defaults to time.Now
}

// Engine is the race state machine. It owns all timing bookkeeping and is not
// safe for concurrent use: the caller drives Start/Tick/Pause/Resume/Reset
// from a single goroutine and reads snapshots from the same one.
type Engine struct {
	cfg Config
	rng *rand.Rand
	now func() time.Time

	roster   map[int]Competitor
	schedule []int

	round       int // RoundNotStarted, 0..len(schedule)-1 active, len(schedule) terminal
	paused      bool
	racing      []int // ascending; tick processing and finish tie-break order
	lanes       map[int]*Lane
	finished    int
	roundStart  time.Time
	pausedTotal time.Duration
	pauseStart  time.Time // zero while not paused

	results []RoundResult
}

func New(cfg Config) (*Engine, error) {
	if cfg.PoolSize <= 0 {
		return nil, fmt.Errorf("race: pool size %d must be positive", cfg.PoolSize)
	}
	if cfg.PerRound <= 0 || cfg.PerRound > cfg.PoolSize {
		return nil, fmt.Errorf("race: competitors per round %d must be in 1..%d", cfg.PerRound, cfg.PoolSize)
	}
	if cfg.BaseSpeed <= 0 {
		return nil, fmt.Errorf("race: base speed %v must be positive", cfg.BaseSpeed)
	}
	schedule, err := NewSchedule(cfg.Distances)
	if err != nil {
		return nil, err
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		now:      cfg.Now,
		schedule: schedule,
		round:    RoundNotStarted,
		paused:   true,
	}, nil
}

// Start regenerates the roster and schedule, clears previous round and result
// state, and opens round 0. A no-op unless the engine is idle (never started,
// or reset).
func (e *Engine) Start() {
	if e.round != RoundNotStarted {
		return
	}
	e.roster = GenerateRoster(e.rng, e.cfg.PoolSize)
	// The schedule is constant across invocations, so regenerating it yields
	// the copy already validated in New.
	e.results = nil
	e.round = 0
	e.beginRound()
}

func (e *Engine) beginRound() {
	e.racing = SelectRound(e.rng, e.roster, e.cfg.PerRound)
	sort.Ints(e.racing)
	e.lanes = make(map[int]*Lane, len(e.racing))
	for _, id := range e.racing {
		e.lanes[id] = &Lane{}
	}
	e.finished = 0
	e.pausedTotal = 0
	e.pauseStart = time.Time{}
	e.roundStart = e.now()
	e.paused = false
}

// Tick advances every unfinished competitor in the active round by one
// simulation step. A no-op while paused, idle, or terminal.
//
// Competitors are processed in ascending id order, so when several cross the
// line within one tick their ranks follow id order.
func (e *Engine) Tick() {
	if !e.Ticking() {
		return
	}
	for _, id := range e.racing {
		comp, ok := e.roster[id]
		if !ok {
			panic(fmt.Sprintf("race: competitor %d is racing without a roster entry", id))
		}
		lane := e.lanes[id]
		if lane.Finished {
			continue
		}
		if lane.Distance <= FinishLine {
			randomFactor := MinRandomFactor + e.rng.Float64()*(MaxRandomFactor-MinRandomFactor)
			distanceFactor := 1 - (lane.Distance-DistanceFactorBase)/DistanceFactorScale
			lane.Distance += (e.cfg.BaseSpeed + float64(comp.Fitness)/100) * randomFactor * distanceFactor
		}
		// The finish check runs off the distance itself, not cached flags, so
		// an externally bumped lane still finishes on its next tick.
		if lane.Distance > FinishLine {
			e.finished++
			lane.Finished = true
			lane.Rank = e.finished
			lane.FinishElapsed = e.now().Sub(e.roundStart) - e.pausedTotal
		}
	}
	if e.finished == len(e.racing) {
		e.completeRound()
	}
}

func (e *Engine) completeRound() {
	rankings := make([]Ranking, 0, len(e.racing))
	for _, id := range e.racing {
		lane := e.lanes[id]
		rankings = append(rankings, Ranking{
			CompetitorID:  id,
			Rank:          lane.Rank,
			FinishDisplay: FormatElapsed(lane.FinishElapsed),
		})
	}
	sort.Slice(rankings, func(i, j int) bool { return rankings[i].Rank < rankings[j].Rank })
	e.results = append(e.results, RoundResult{
		Rankings:  rankings,
		Distance:  e.schedule[e.round],
		StartedAt: e.roundStart,
	})

	e.round++
	if e.round == len(e.schedule) {
		// Terminal: no active round, no further ticks.
		e.paused = true
		e.racing = nil
		e.lanes = nil
		e.finished = 0
		e.pausedTotal = 0
		e.pauseStart = time.Time{}
		return
	}
	e.beginRound()
}

// Pause freezes the clock for the active round. A no-op when idle, terminal,
// or already paused.
func (e *Engine) Pause() {
	if !e.roundActive() || e.paused {
		return
	}
	e.pauseStart = e.now()
	e.paused = true
}

// Resume closes out the pending pause, adding its duration to the round's
// paused total. A no-op when no pause is pending.
func (e *Engine) Resume() {
	if e.pauseStart.IsZero() {
		return
	}
	e.pausedTotal += e.now().Sub(e.pauseStart)
	e.pauseStart = time.Time{}
	e.paused = false
}

// Reset returns the engine to idle, discarding round state and results. The
// roster survives until the next Start regenerates it.
func (e *Engine) Reset() {
	e.round = RoundNotStarted
	e.paused = true
	e.racing = nil
	e.lanes = nil
	e.finished = 0
	e.pausedTotal = 0
	e.pauseStart = time.Time{}
	e.results = nil
}

func (e *Engine) roundActive() bool {
	return e.round >= 0 && e.round < len(e.schedule)
}

// Ticking reports whether the cadence should be running: an active round, not
// paused.
func (e *Engine) Ticking() bool {
	return e.roundActive() && !e.paused
}

// Done reports whether all rounds have completed.
func (e *Engine) Done() bool {
	return e.round == len(e.schedule)
}

// Round is the current round index: -1 idle, len(schedule) terminal.
func (e *Engine) Round() int { return e.round }

func (e *Engine) Paused() bool { return e.paused }

// Rounds is the configured number of rounds.
func (e *Engine) Rounds() int { return len(e.schedule) }

// RoundDistance is the active round's configured distance, 0 when no round is
// active.
func (e *Engine) RoundDistance() int {
	if !e.roundActive() {
		return 0
	}
	return e.schedule[e.round]
}

// Roster returns a copy of the competitor pool.
func (e *Engine) Roster() map[int]Competitor {
	out := make(map[int]Competitor, len(e.roster))
	for id, c := range e.roster {
		out[id] = c
	}
	return out
}

// Racing returns the ids running the active round, ascending.
func (e *Engine) Racing() []int {
	out := make([]int, len(e.racing))
	copy(out, e.racing)
	return out
}

// Lanes returns a copy of the active round's per-competitor state.
func (e *Engine) Lanes() map[int]Lane {
	out := make(map[int]Lane, len(e.lanes))
	for id, lane := range e.lanes {
		out[id] = *lane
	}
	return out
}

// Results returns the completed rounds in order.
func (e *Engine) Results() []RoundResult {
	out := make([]RoundResult, len(e.results))
	copy(out, e.results)
	return out
}
