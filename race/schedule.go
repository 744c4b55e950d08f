package race

import "fmt"

// NewSchedule validates the configured round distances and returns a copy.
// The schedule is fixed by configuration, never derived from the roster.
func NewSchedule(distances []int) ([]int, error) {
	if len(distances) == 0 {
		return nil, fmt.Errorf("race: schedule needs at least one round")
	}
	for i, d := range distances {
		if d <= 0 {
			return nil, fmt.Errorf("race: round %d distance %d must be positive", i, d)
		}
		if i > 0 && d <= distances[i-1] {
			return nil, fmt.Errorf("race: distances must be strictly ascending, got %d after %d", d, distances[i-1])
		}
	}
	out := make([]int, len(distances))
	copy(out, distances)
	return out, nil
}
