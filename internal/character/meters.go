package character

import (
	"fmt"
	"strings"
)

type Meter string

const (
	MeterHealth   Meter = "health"
	MeterSpirit   Meter = "spirit"
	MeterSupply   Meter = "supply"
	MeterMomentum Meter = "momentum"
)

var AllMeters = []Meter{MeterHealth, MeterSpirit, MeterSupply, MeterMomentum}

func ParseMeter(s string) (Meter, error) {
	m := Meter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllMeters {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMeter, s)
}

// Bounds is the inclusive range a meter control accepts.
type Bounds struct {
	Min int
	Max int
}

func (b Bounds) Clamp(v int) int {
	return max(b.Min, min(b.Max, v))
}

// DefaultBounds mirrors the character sheet's meter controls.
func DefaultBounds() map[Meter]Bounds {
	return map[Meter]Bounds{
		MeterHealth:   {Min: 0, Max: 5},
		MeterSpirit:   {Min: 0, Max: 5},
		MeterSupply:   {Min: 0, Max: 5},
		MeterMomentum: {Min: -6, Max: 10},
	}
}

func (m Meters) Meter(name Meter) (int, error) {
	switch name {
	case MeterHealth:
		return m.Health, nil
	case MeterSpirit:
		return m.Spirit, nil
	case MeterSupply:
		return m.Supply, nil
	case MeterMomentum:
		return m.Momentum, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMeter, name)
}

func (m *Meters) SetMeter(name Meter, v int) error {
	switch name {
	case MeterHealth:
		m.Health = v
	case MeterSpirit:
		m.Spirit = v
	case MeterSupply:
		m.Supply = v
	case MeterMomentum:
		m.Momentum = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMeter, name)
	}
	return nil
}
