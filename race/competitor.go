package race

import "time"

// Competitor identity is fixed once generated; only the fitness score is random.
type Competitor struct {
	ID      int
	Name    string
	Color   string
	Fitness int // 1..100
}

// Lane is one competitor's live state within the active round. A fresh set of
// lanes replaces the old one at every round transition.
type Lane struct {
	Distance      float64
	Rank          int // 0 until finished
	Finished      bool
	FinishElapsed time.Duration // 0 until finished, paused intervals excluded
}

type Ranking struct {
	CompetitorID  int
	Rank          int
	FinishDisplay string
}

// RoundResult is appended once per completed round, in round order, and never
// modified afterwards.
type RoundResult struct {
	Rankings  []Ranking // ascending by rank
	Distance  int
	StartedAt time.Time
}
