// Package presentation describes the feedback a parkour session sends to a
// participant: chat messages, sound cues, a progress widget and client-side
// block changes.
package presentation

import (
	"github.com/ayoisaiah/parkour/internal/geom"
)

// Cue is a named sound played to a participant.
type Cue string

const (
	CueLevelUp    Cue = "level-up"
	CueLevelUpLow Cue = "level-up-low"
	CuePickup     Cue = "pickup"
	CuePickupHigh Cue = "pickup-high"
	CueFail       Cue = "fail"
	CueFirework   Cue = "firework"
)

// Progress is the state of the countdown widget.
type Progress struct {
	Label string `json:"label"`
	// Fraction is the share of the target time still remaining, in [0, 1].
	Fraction float64 `json:"fraction"`
	Urgent   bool    `json:"urgent"`
}

// Sink receives every piece of feedback produced for a participant.
// Implementations must be safe for concurrent use since the countdown
// publishes from its own goroutine.
type Sink interface {
	Notify(participant, key string, placeholders ...string)
	PlayCue(participant string, cue Cue)
	SetProgressWidget(participant string, priority int, p Progress)
	ClearProgressWidget(participant string, priority int)
	ShowBlock(participant string, block geom.Block, material geom.Material, variant int)
	RestoreBlock(participant string, block geom.Block)
}
