package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

var ErrInvalidDice = errors.New("please enter all dice values")

const (
	ActionDieSides    = 6
	ChallengeDieSides = 10
)

// Dice holds one action die and two challenge dice.
type Dice struct {
	Action     int
	Challenge1 int
	Challenge2 int
}

type Roller interface {
	Roll() Dice
}

// RandomRoller draws uniformly: the action die in [1,6], each challenge die
// in [1,10].
type RandomRoller struct {
	rng *rand.Rand
}

func NewRandomRoller(seed int64) *RandomRoller {
	return &RandomRoller{rng: rand.New(rand.NewSource(seed))}
}

// NewSeededRoller seeds a RandomRoller from crypto/rand.
func NewSeededRoller() (*RandomRoller, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return NewRandomRoller(int64(binary.LittleEndian.Uint64(b[:]))), nil
}

func (r *RandomRoller) Roll() Dice {
	return Dice{
		Action:     rollDie(r.rng, ActionDieSides),
		Challenge1: rollDie(r.rng, ChallengeDieSides),
		Challenge2: rollDie(r.rng, ChallengeDieSides),
	}
}

func rollDie(rng *rand.Rand, sides int) int {
	return rng.Intn(sides) + 1
}

// ParseManualDice reads player-entered dice. Any value that is not a number
// rejects the whole roll. Ranges are not checked.
func ParseManualDice(action, challenge1, challenge2 string) (Dice, error) {
	vals := make([]int, 3)
	for i, raw := range []string{action, challenge1, challenge2} {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Dice{}, fmt.Errorf("%w: %q", ErrInvalidDice, raw)
		}
		vals[i] = v
	}
	return Dice{Action: vals[0], Challenge1: vals[1], Challenge2: vals[2]}, nil
}

// ParseAdds reads the optional flat bonus. Blank or non-numeric input counts
// as zero.
func ParseAdds(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}
