package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownType = errors.New("unknown message type")
var ErrMalformed = errors.New("malformed message")

type envelope struct {
	Type string `json:"type"`
}

// Encode writes m as a JSON object carrying its type discriminator.
func Encode(m Message) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.MessageType(), err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.MessageType(), err)
	}
	fields["type"], _ = json.Marshal(m.MessageType())
	return json.Marshal(fields)
}

// PeekType reads the type discriminator of a frame without decoding the rest.
func PeekType(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return env.Type, nil
}

// DecodeInbound parses a server frame into its variant.
func DecodeInbound(data []byte) (Inbound, error) {
	t, err := PeekType(data)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeCreationPhase:
		return in[CreationPhase](data)
	case TypeInspire:
		return in[Inspire](data)
	case TypeCreationResponse:
		return in[CreationResponse](data)
	case TypeCreationResume:
		return in[CreationResume](data)
	case TypeCreationReady:
		return in[CreationReady](data)
	case TypePlayResume:
		return in[PlayResume](data)
	case TypeNarrative:
		return in[Narrative](data)
	case TypeMoveOutcome:
		return in[MoveOutcome](data)
	case TypeOracleResult:
		return in[OracleResult](data)
	case TypeCharacterUpdate:
		return in[CharacterUpdate](data)
	case TypeLoading:
		return Loading{}, nil
	case TypeReady:
		return Ready{}, nil
	case TypeError:
		return in[ServerError](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
}

// DecodeOutbound parses a client frame into its variant.
func DecodeOutbound(data []byte) (Outbound, error) {
	t, err := PeekType(data)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeCharacterUpdate:
		return out[CharacterUpdate](data)
	case TypeCreationChat:
		return out[CreationChat](data)
	case TypeFinalizeCreation:
		return out[FinalizeCreation](data)
	case TypeNarrative:
		return out[NarrativeRequest](data)
	case TypeInspire:
		return InspireRequest{}, nil
	case TypeProgressMark:
		return out[ProgressMark](data)
	case TypeMoveResult:
		return out[MoveResult](data)
	case TypeOracle:
		return out[OracleRequest](data)
	case TypeOracleManual:
		return out[OracleManual](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
}

func in[T Inbound](data []byte) (Inbound, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, v.MessageType(), err)
	}
	return v, nil
}

func out[T Outbound](data []byte) (Outbound, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, v.MessageType(), err)
	}
	return v, nil
}
