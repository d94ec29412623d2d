package game

import "errors"

const (
	StatMin = 0
	StatMax = 100

	ScoreMin = -100
	ScoreMax = 100

	StarterCash = 500.0

	StatHunger = "Hunger"
	StatEnergy = "Energy"
	StatMood   = "Mood"

	// Daily decay applied by AdvanceDay.
	DailyHungerDecay = 10
	DailyEnergyDecay = 5
	DailyMoodDecay   = 3

	// Relationship bump for a plain conversation.
	TalkBonus = 2
)

// StatNames is the fixed stat set; a Player carries exactly these keys.
var StatNames = []string{StatHunger, StatEnergy, StatMood}

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrNotAdjacent        = errors.New("zone is not adjacent")
	ErrItemNotHeld        = errors.New("item not held")
	ErrUnknownStat        = errors.New("unknown stat")
)

func IsStatName(name string) bool {
	for _, s := range StatNames {
		if s == name {
			return true
		}
	}
	return false
}

func clampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

func clampScore(v int) int {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}
