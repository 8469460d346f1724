// Package elo computes rating changes using integer arithmetic only.
// Expected scores are scaled by 1000.
package elo

const (
	StartingRating = 1200
	MinRating      = 100
	KFactor        = 32
)

// ExpectedScore returns the player's expected score against opponent, x1000.
// The curve is linear between anchor points at rating gaps of 100, 200, 400
// and 800, flat beyond 800, and symmetric: a player's expected score and their
// opponent's always sum to 1000.
func ExpectedScore(player, opponent int) int {
	diff := opponent - player
	if diff < 0 {
		return 1000 - underdogScore(-diff)
	}
	return underdogScore(diff)
}

// underdogScore is the expected score of a player rated gap points below
// their opponent
func underdogScore(gap int) int {
	switch {
	case gap <= 100:
		return 500 - (gap*140)/100
	case gap <= 200:
		return 360 - ((gap-100)*119)/100
	case gap <= 400:
		return 241 - ((gap-200)*150)/200
	case gap <= 800:
		return 91 - ((gap-400)*81)/400
	default:
		return 10
	}
}

// RatingChange returns the signed rating delta for player after a game
// against opponent
func RatingChange(player, opponent int, won bool) int {
	actual := 0
	if won {
		actual = 1000
	}
	return KFactor * (actual - ExpectedScore(player, opponent)) / 1000
}

// Apply adds change to rating, never dropping below MinRating
func Apply(rating, change int) int {
	return max(rating+change, MinRating)
}

// GameOver returns the winner's gain and both new ratings. The loser drops by
// the magnitude of the winner's change.
func GameOver(winnerRating, loserRating int) (change, winnerNew, loserNew int) {
	change = RatingChange(winnerRating, loserRating, true)
	winnerNew = winnerRating + change
	loserNew = Apply(loserRating, -abs(change))
	return change, winnerNew, loserNew
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
