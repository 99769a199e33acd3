package quiz

import (
	"globequiz/internal/geo"
)

// Tier is the result class of a guess
type Tier string

const (
	TierCorrect       Tier = "correct"
	TierClose         Tier = "close"
	TierSomewhatClose Tier = "somewhat-close"
	TierWrong         Tier = "wrong"
)

// Distance thresholds in kilometres, both inclusive
const (
	CloseKm         = 300
	SomewhatCloseKm = 500
)

// Points awarded per tier
var tierPoints = map[Tier]int{
	TierCorrect:       1000,
	TierClose:         500,
	TierSomewhatClose: 100,
	TierWrong:         0,
}

// Points returns the score a tier is worth
func (t Tier) Points() int {
	return tierPoints[t]
}

// Result is the outcome of scoring one guess
type Result struct {
	Tier       Tier
	Points     int
	DistanceKm float64 // between the two centroids
}

// Classify scores a wrong country by centroid distance alone
func Classify(km float64) Result {
	tier := TierWrong
	switch {
	case km <= CloseKm:
		tier = TierClose
	case km <= SomewhatCloseKm:
		tier = TierSomewhatClose
	}
	return Result{Tier: tier, Points: tier.Points(), DistanceKm: km}
}

// ScoreGuess scores guessed against target. Matching ids always score as
// correct, whatever the centroids say.
func ScoreGuess(guessed, target *geo.Country) Result {
	km := geo.Distance(guessed.Centroid(), target.Centroid())
	if guessed.ID == target.ID {
		return Result{Tier: TierCorrect, Points: TierCorrect.Points(), DistanceKm: km}
	}
	return Classify(km)
}
