package table

import (
	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

type Msg interface{ isTableMsg() }

// Join registers a connection. The table greets it on Outbox right away.
type Join struct {
	ClientID string
	Outbox   chan protocol.Inbound
}

type Leave struct{ ClientID string }

type FromClient struct {
	ClientID string
	Msg      protocol.Outbound
}

// Reject answers a frame the connection could not decode.
type Reject struct {
	ClientID string
	Message  string
}

type Shutdown struct{}

type GetState struct {
	Reply chan View
}

type View struct {
	NumClients int
	Phase      string
	Character  character.Character
	Journal    []protocol.Block
	Generating bool
}

// generated carries the result of a guide turn back into the loop.
type generated struct {
	clientID string
	locked   bool
	out      protocol.Inbound
	journal  []protocol.Block
}

func (Join) isTableMsg()       {}
func (Leave) isTableMsg()      {}
func (FromClient) isTableMsg() {}
func (Reject) isTableMsg()     {}
func (Shutdown) isTableMsg()   {}
func (GetState) isTableMsg()   {}
func (generated) isTableMsg()  {}
