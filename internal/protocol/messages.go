package protocol

import "github.com/DoyleJ11/ironsworn-play/internal/character"

const (
	TypeCreationPhase    = "creation_phase"
	TypeInspire          = "inspire"
	TypeCreationResponse = "creation_response"
	TypeCreationResume   = "creation_resume"
	TypeCreationReady    = "creation_ready"
	TypePlayResume       = "play_resume"
	TypeNarrative        = "narrative"
	TypeMoveOutcome      = "move_outcome"
	TypeOracleResult     = "oracle_result"
	TypeCharacterUpdate  = "character_update"
	TypeLoading          = "loading"
	TypeReady            = "ready"
	TypeError            = "error"

	TypeCreationChat     = "creation_chat"
	TypeFinalizeCreation = "finalize_creation"
	TypeProgressMark     = "progress_mark"
	TypeMoveResult       = "move_result"
	TypeOracle           = "oracle"
	TypeOracleManual     = "oracle_manual"
)

const (
	PhaseCreation = "creation"
	PhaseActive   = "active"
)

// Block is one pre-rendered transcript entry replayed on resume.
type Block struct {
	Type string `json:"type"` // "user" | "assistant" | ...
	HTML string `json:"html"`
}

const (
	BlockUser      = "user"
	BlockAssistant = "assistant"
)

type Message interface {
	MessageType() string
}

// Inbound is the closed set of server -> client envelopes.
type Inbound interface {
	Message
	isInbound()
}

// Outbound is the closed set of client -> server envelopes.
type Outbound interface {
	Message
	isOutbound()
}

// Server -> Client

type CreationPhase struct {
	Phase string `json:"phase"`
}

type Inspire struct {
	Text string `json:"text"`
}

type CreationResponse struct {
	Message      string  `json:"message"`
	SuggestedVow *string `json:"suggestedVow"`
}

// Vow returns the suggested vow, treating a blank suggestion as none.
func (r CreationResponse) Vow() (string, bool) {
	if r.SuggestedVow == nil || *r.SuggestedVow == "" {
		return "", false
	}
	return *r.SuggestedVow, true
}

type CreationResume struct {
	Blocks []Block `json:"blocks"`
}

type CreationReady struct {
	Character *character.Character `json:"character"`
}

type PlayResume struct {
	Blocks []Block `json:"blocks"`
}

type Narrative struct {
	Blocks        []Block  `json:"blocks,omitempty"`
	Narrative     string   `json:"narrative,omitempty"`
	NarrativeHTML string   `json:"narrativeHtml,omitempty"`
	Location      string   `json:"location,omitempty"`
	NPCs          []string `json:"npcs,omitempty"`
}

type MoveOutcome struct {
	MoveName        string `json:"moveName"`
	MoveOutcomeText string `json:"moveOutcomeText"`
}

type OracleRoll struct {
	CollectionName string `json:"collectionName,omitempty"`
	TableName      string `json:"tableName"`
	Roll           int    `json:"roll"`
	ResultText     string `json:"resultText"`
}

type OracleResult struct {
	Result OracleRoll `json:"result"`
}

// CharacterUpdate travels both ways: the server broadcasts the authoritative
// record and the client pushes its edits.
type CharacterUpdate struct {
	Character character.Character `json:"character"`
}

type Loading struct{}

type Ready struct{}

type ServerError struct {
	Message string `json:"message"`
}

// Client -> Server

type CreationChat struct {
	Text string `json:"text"`
}

type FinalizeCreation struct {
	Character NewCharacter `json:"character"`
}

// NewCharacter is a finished creation: stats and vows only. The server sets
// the starting meters.
type NewCharacter struct {
	Name string `json:"name,omitempty"`
	character.Stats
	Vows []character.Vow `json:"vows"`
}

// Start is the record play begins with.
func (n NewCharacter) Start() character.Character {
	c := character.New(n.Name, n.Stats)
	c.Vows = append(c.Vows, n.Vows...)
	return c
}

type NarrativeRequest struct {
	Text string `json:"text"`
}

type InspireRequest struct{}

type ProgressMark struct {
	VowIndex int `json:"vowIndex"`
}

type MoveResult struct {
	CategoryKey  string `json:"categoryKey"`
	MoveKey      string `json:"moveKey"`
	Stat         string `json:"stat"`
	StatValue    int    `json:"statValue"`
	Adds         int    `json:"adds"`
	ActionDie    int    `json:"actionDie"`
	Challenge1   int    `json:"challenge1"`
	Challenge2   int    `json:"challenge2"`
	ActionScore  int    `json:"actionScore"`
	Outcome      string `json:"outcome"`
	PlayerAction string `json:"playerAction"`
}

type OracleRequest struct {
	CollectionKey string `json:"collectionKey"`
	TableKey      string `json:"tableKey"`
}

type OracleManual struct {
	CollectionKey string `json:"collectionKey"`
	TableKey      string `json:"tableKey"`
	Roll          int    `json:"roll"`
}

func (CreationPhase) MessageType() string    { return TypeCreationPhase }
func (Inspire) MessageType() string          { return TypeInspire }
func (CreationResponse) MessageType() string { return TypeCreationResponse }
func (CreationResume) MessageType() string   { return TypeCreationResume }
func (CreationReady) MessageType() string    { return TypeCreationReady }
func (PlayResume) MessageType() string       { return TypePlayResume }
func (Narrative) MessageType() string        { return TypeNarrative }
func (MoveOutcome) MessageType() string      { return TypeMoveOutcome }
func (OracleResult) MessageType() string     { return TypeOracleResult }
func (CharacterUpdate) MessageType() string  { return TypeCharacterUpdate }
func (Loading) MessageType() string          { return TypeLoading }
func (Ready) MessageType() string            { return TypeReady }
func (ServerError) MessageType() string      { return TypeError }
func (CreationChat) MessageType() string     { return TypeCreationChat }
func (FinalizeCreation) MessageType() string { return TypeFinalizeCreation }
func (NarrativeRequest) MessageType() string { return TypeNarrative }
func (InspireRequest) MessageType() string   { return TypeInspire }
func (ProgressMark) MessageType() string     { return TypeProgressMark }
func (MoveResult) MessageType() string       { return TypeMoveResult }
func (OracleRequest) MessageType() string    { return TypeOracle }
func (OracleManual) MessageType() string     { return TypeOracleManual }

func (CreationPhase) isInbound()    {}
func (Inspire) isInbound()          {}
func (CreationResponse) isInbound() {}
func (CreationResume) isInbound()   {}
func (CreationReady) isInbound()    {}
func (PlayResume) isInbound()       {}
func (Narrative) isInbound()        {}
func (MoveOutcome) isInbound()      {}
func (OracleResult) isInbound()     {}
func (CharacterUpdate) isInbound()  {}
func (Loading) isInbound()          {}
func (Ready) isInbound()            {}
func (ServerError) isInbound()      {}

func (CharacterUpdate) isOutbound()  {}
func (CreationChat) isOutbound()     {}
func (FinalizeCreation) isOutbound() {}
func (NarrativeRequest) isOutbound() {}
func (InspireRequest) isOutbound()   {}
func (ProgressMark) isOutbound()     {}
func (MoveResult) isOutbound()       {}
func (OracleRequest) isOutbound()    {}
func (OracleManual) isOutbound()     {}
