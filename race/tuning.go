package race

const (
	FinishLine          = 100.0
	MinFitness          = 1
	MaxFitness          = 100
	MinRandomFactor     = 0.7
	MaxRandomFactor     = 1.3
	DistanceFactorBase  = 1200.0 // first round's distance, kept verbatim for every round
	DistanceFactorScale = 10000.0
)
