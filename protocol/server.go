package protocol

type Welcome struct {
	ClientID   string `json:"clientId"`
	TickMillis int    `json:"tickMillis"`
}

// State is the full snapshot a presentation layer needs: the roster, the
// active round's lanes, the completed results, and the engine flags.
type State struct {
	Round       int                  `json:"round"` // -1 idle, round count when finished
	Rounds      int                  `json:"rounds"`
	Paused      bool                 `json:"paused"`
	Distance    int                  `json:"distance,omitempty"` // active round's configured distance
	Racing      []int                `json:"racing,omitempty"`
	Competitors []CompetitorSnapshot `json:"competitors,omitempty"`
	Lanes       []LaneSnapshot       `json:"lanes,omitempty"`
	Results     []ResultSnapshot     `json:"results,omitempty"`
}

type CompetitorSnapshot struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Fitness int    `json:"fitness"`
}

type LaneSnapshot struct {
	ID       int     `json:"id"`
	Distance float64 `json:"distance"`
	Rank     int     `json:"rank,omitempty"`
	Finished bool    `json:"finished,omitempty"`
	Elapsed  string  `json:"elapsed,omitempty"` // display string, paused time excluded
}

type ResultSnapshot struct {
	Distance  int               `json:"distance"`
	StartedAt int64             `json:"startedAt"` // unix millis of the round start
	Rankings  []RankingSnapshot `json:"rankings"`
}

type RankingSnapshot struct {
	ID      int    `json:"id"`
	Rank    int    `json:"rank"`
	Elapsed string `json:"elapsed"`
}
