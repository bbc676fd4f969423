package character

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUnknownStat = errors.New("unknown stat")
var ErrStatOutOfRange = errors.New("each stat must be 1, 2, or 3")
var ErrStatSum = errors.New("stats must sum to 9")
var ErrUnknownMeter = errors.New("unknown meter")
var ErrUnknownRank = errors.New("unknown rank")

const (
	StatMin   = 1
	StatMax   = 3
	StatTotal = 9

	MaxProgress = 10

	// MomentumReset is the value momentum returns to after a burn.
	MomentumReset = 2
)

type Stat string

const (
	StatEdge   Stat = "edge"
	StatHeart  Stat = "heart"
	StatIron   Stat = "iron"
	StatShadow Stat = "shadow"
	StatWits   Stat = "wits"
)

// AllStats lists the stats in sheet order.
var AllStats = []Stat{StatEdge, StatHeart, StatIron, StatShadow, StatWits}

func ParseStat(s string) (Stat, error) {
	st := Stat(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllStats {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStat, s)
}

type Rank string

const (
	RankTroublesome Rank = "TROUBLESOME"
	RankDangerous   Rank = "DANGEROUS"
	RankFormidable  Rank = "FORMIDABLE"
	RankExtreme     Rank = "EXTREME"
	RankEpic        Rank = "EPIC"
)

var AllRanks = []Rank{RankTroublesome, RankDangerous, RankFormidable, RankExtreme, RankEpic}

func ParseRank(s string) (Rank, error) {
	r := Rank(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllRanks {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRank, s)
}

// ProgressPerMark is how many progress boxes one mark fills for a vow of this rank.
func (r Rank) ProgressPerMark() int {
	switch r {
	case RankTroublesome:
		return 3
	case RankDangerous, RankFormidable:
		return 2
	default:
		return 1
	}
}

func (r Rank) Display() string {
	return cases.Title(language.English).String(strings.ToLower(string(r)))
}

type Vow struct {
	Description string `json:"description"`
	Rank        Rank   `json:"rank"`
	Progress    int    `json:"progress"`
}

// MarkProgress returns the vow with one mark of progress applied, clamped at MaxProgress.
func (v Vow) MarkProgress() Vow {
	v.Progress = min(MaxProgress, v.Progress+v.Rank.ProgressPerMark())
	return v
}

type Stats struct {
	Edge   int `json:"edge"`
	Heart  int `json:"heart"`
	Iron   int `json:"iron"`
	Shadow int `json:"shadow"`
	Wits   int `json:"wits"`
}

// DefaultStats is the neutral all-ones assignment of a fresh record.
func DefaultStats() Stats {
	return Stats{Edge: 1, Heart: 1, Iron: 1, Shadow: 1, Wits: 1}
}

func (s Stats) Get(st Stat) (int, error) {
	switch st {
	case StatEdge:
		return s.Edge, nil
	case StatHeart:
		return s.Heart, nil
	case StatIron:
		return s.Iron, nil
	case StatShadow:
		return s.Shadow, nil
	case StatWits:
		return s.Wits, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, st)
}

func (s *Stats) Set(st Stat, v int) error {
	switch st {
	case StatEdge:
		s.Edge = v
	case StatHeart:
		s.Heart = v
	case StatIron:
		s.Iron = v
	case StatShadow:
		s.Shadow = v
	case StatWits:
		s.Wits = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStat, st)
	}
	return nil
}

func (s Stats) Values() []int {
	return []int{s.Edge, s.Heart, s.Iron, s.Shadow, s.Wits}
}

func (s Stats) Sum() int {
	total := 0
	for _, v := range s.Values() {
		total += v
	}
	return total
}

// Validate reports whether the assignment may be confirmed: every stat in
// [StatMin, StatMax] and the five summing to exactly StatTotal.
func (s Stats) Validate() error {
	for _, v := range s.Values() {
		if v < StatMin || v > StatMax {
			return ErrStatOutOfRange
		}
	}
	if sum := s.Sum(); sum != StatTotal {
		return fmt.Errorf("%w: total %d", ErrStatSum, sum)
	}
	return nil
}

func (s Stats) IsDefault() bool {
	return s == DefaultStats()
}

// Confirmed reports whether a resumed record already carries a finished
// assignment.
func (s Stats) Confirmed() bool {
	return !s.IsDefault() && s.Validate() == nil
}

type Meters struct {
	Health   int `json:"health"`
	Spirit   int `json:"spirit"`
	Supply   int `json:"supply"`
	Momentum int `json:"momentum"`
}

// StartingMeters are the meters every new character begins play with.
func StartingMeters() Meters {
	return Meters{Health: 5, Spirit: 5, Supply: 5, Momentum: MomentumReset}
}

type Character struct {
	Name string `json:"name,omitempty"`
	Stats
	Meters
	Vows []Vow `json:"vows"`
}

// New builds the snapshot sent when stats are confirmed.
func New(name string, stats Stats) Character {
	return Character{
		Name:   name,
		Stats:  stats,
		Meters: StartingMeters(),
		Vows:   []Vow{},
	}
}

// Clone returns a copy that shares no slice storage with c.
func (c Character) Clone() Character {
	out := c
	if c.Vows != nil {
		out.Vows = append([]Vow(nil), c.Vows...)
	}
	return out
}
