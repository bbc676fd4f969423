package session

import (
	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/engine"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

// Msg is everything the driver loop consumes: player actions, server
// envelopes and its own timer callbacks.
type Msg interface{ isSessionMsg() }

// SubmitText is the send button. Outside a move it goes to the guide or the
// narrator depending on phase; during a move it rolls once a stat is chosen.
type SubmitText struct{ Text string }

type SelectMove struct{ Move engine.PendingMove }

type SelectStat struct{ Stat character.Stat }

// ManualDice carries player-entered die faces, unparsed.
type ManualDice struct {
	Action     string
	Challenge1 string
	Challenge2 string
}

type Roll struct {
	// Adds is the optional flat bonus as typed. Blank or junk counts as 0.
	Adds string
	// Manual switches from random dice to the entered faces.
	Manual       *ManualDice
	PlayerAction string
}

type BurnMomentum struct{}

type KeepRoll struct{}

type CancelMove struct{}

type EditStat struct {
	Stat  character.Stat
	Value int
}

type ConfirmStats struct{}

type EditVow struct {
	Description string
	Rank        character.Rank
}

type Finalize struct{}

type EditMeter struct {
	Meter character.Meter
	Value int
}

type MarkProgress struct{ VowIndex int }

type RequestOracle struct {
	Collection string
	Table      string
}

type RequestManualOracle struct {
	Collection string
	Table      string
	Roll       int
}

type RequestInspire struct{}

type GetView struct {
	Reply chan View
}

type Shutdown struct{}

type inbound struct{ env protocol.Inbound }

type revealTick struct{ gen int }

type runFn struct{ fn func() }

func (SubmitText) isSessionMsg()          {}
func (SelectMove) isSessionMsg()          {}
func (SelectStat) isSessionMsg()          {}
func (Roll) isSessionMsg()                {}
func (BurnMomentum) isSessionMsg()        {}
func (KeepRoll) isSessionMsg()            {}
func (CancelMove) isSessionMsg()          {}
func (EditStat) isSessionMsg()            {}
func (ConfirmStats) isSessionMsg()        {}
func (EditVow) isSessionMsg()             {}
func (Finalize) isSessionMsg()            {}
func (EditMeter) isSessionMsg()           {}
func (MarkProgress) isSessionMsg()        {}
func (RequestOracle) isSessionMsg()       {}
func (RequestManualOracle) isSessionMsg() {}
func (RequestInspire) isSessionMsg()      {}
func (GetView) isSessionMsg()             {}
func (Shutdown) isSessionMsg()            {}
func (inbound) isSessionMsg()             {}
func (revealTick) isSessionMsg()          {}
func (runFn) isSessionMsg()               {}
