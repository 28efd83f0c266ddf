// Package ranking implements the Elo-style rating arithmetic used to update
// player rankings after finalized matches. All functions are pure; persistence
// is the caller's concern.
package ranking

import "math"

const (
	// DefaultK is the K-factor used for club-level play.
	DefaultK = 32

	// BaseRating is assigned to players without a prior rating.
	BaseRating = 1200
)

// WinProbability returns the expected probability that side A beats side B:
// 1 / (1 + 10^((Rb - Ra) / 400)). Equal ratings yield exactly 0.5; extreme
// differences saturate towards 0 or 1 without ever reaching them.
func WinProbability(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// Delta returns the rounded rating adjustment K * (S - E) for an actual score
// S (1 for a win, 0 for a loss) against expected probability E.
func Delta(k int, score, expected float64) int {
	return int(math.Round(float64(k) * (score - expected)))
}

// NewRating applies the full update R' = round(R + K * (S - E)).
func NewRating(current int, score, expected float64, k int) int {
	return int(math.Round(float64(current) + float64(k)*(score-expected)))
}

// Effective substitutes BaseRating for missing or non-positive ratings.
func Effective(rating int) int {
	if rating <= 0 {
		return BaseRating
	}
	return rating
}

// TeamAverage returns the arithmetic mean of the effective ratings of a side.
// An empty roster averages to BaseRating so callers never divide by zero.
func TeamAverage(ratings []int) float64 {
	if len(ratings) == 0 {
		return BaseRating
	}
	sum := 0
	for _, r := range ratings {
		sum += Effective(r)
	}
	return float64(sum) / float64(len(ratings))
}

// Clamp floors a rating at zero. Ratings never go negative.
func Clamp(rating int) int {
	if rating < 0 {
		return 0
	}
	return rating
}
