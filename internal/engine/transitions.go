package engine

import "slices"

// Transitions lists which commands each phase accepts. CmdCancel is
// accepted everywhere so idle is reachable from every phase.
var Transitions = map[Phase][]CommandType{
	PhaseIdle:         {CmdSelectMove, CmdCancel},
	PhaseMoveSelected: {CmdSelectMove, CmdSelectStat, CmdCancel},
	PhaseStatSelected: {CmdSelectMove, CmdSelectStat, CmdRoll, CmdCancel},
	PhaseAwaitingBurn: {CmdBurn, CmdKeep, CmdCancel},
}

func allowed(p Phase, cmd CommandType) bool {
	return slices.Contains(Transitions[p], cmd)
}

func known(cmd CommandType) bool {
	for _, cmds := range Transitions {
		if slices.Contains(cmds, cmd) {
			return true
		}
	}
	return false
}

func idle() State {
	return State{Phase: PhaseIdle}
}

// NewIdleState is the engine's resting state.
func NewIdleState() State {
	return idle()
}
