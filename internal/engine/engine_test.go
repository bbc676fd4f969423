package engine

import (
	"errors"
	"testing"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
)

func newCharacter(momentum int) *character.Character {
	c := character.New("Kira", character.Stats{Edge: 1, Heart: 2, Iron: 2, Shadow: 1, Wits: 3})
	c.Momentum = momentum
	return &c
}

func faceDanger() PendingMove {
	return PendingMove{Category: "adventure", Key: "face_the_danger", Name: "Face Danger"}
}

// helper: drive the engine to stat-selected
func selected(t *testing.T, stat character.Stat) State {
	t.Helper()
	_, s, err := Apply(NewIdleState(), Command{Type: CmdSelectMove, Move: faceDanger()})
	if err != nil {
		t.Fatalf("select move: %v", err)
	}
	_, s, err = Apply(s, Command{Type: CmdSelectStat, Stat: stat})
	if err != nil {
		t.Fatalf("select stat: %v", err)
	}
	return s
}

func TestClassify_Exhaustive(t *testing.T) {
	for score := 1; score <= 10; score++ {
		for c1 := 1; c1 <= 10; c1++ {
			for c2 := 1; c2 <= 10; c2++ {
				beaten := 0
				if score > c1 {
					beaten++
				}
				if score > c2 {
					beaten++
				}
				want := OutcomeMiss
				switch beaten {
				case 2:
					want = OutcomeStrongHit
				case 1:
					want = OutcomeWeakHit
				}
				if got := Classify(score, c1, c2); got != want {
					t.Fatalf("Classify(%d,%d,%d): got %s, want %s", score, c1, c2, got, want)
				}
			}
		}
	}
}

func TestClassify_TiesMiss(t *testing.T) {
	cases := []struct {
		name        string
		score       int
		c1, c2      int
		wantOutcome Outcome
	}{
		{name: "equal to both", score: 5, c1: 5, c2: 5, wantOutcome: OutcomeMiss},
		{name: "equal to one, below other", score: 5, c1: 5, c2: 9, wantOutcome: OutcomeMiss},
		{name: "equal to one, above other", score: 5, c1: 5, c2: 2, wantOutcome: OutcomeWeakHit},
		{name: "max score vs max dice", score: 10, c1: 10, c2: 10, wantOutcome: OutcomeMiss},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.score, tc.c1, tc.c2); got != tc.wantOutcome {
				t.Fatalf("got %s, want %s", got, tc.wantOutcome)
			}
		})
	}
}

func TestActionScore_NeverExceedsMax(t *testing.T) {
	for die := 0; die <= 6; die++ {
		for stat := 0; stat <= 3; stat++ {
			for adds := 0; adds <= 10; adds++ {
				got := ActionScore(die, stat, adds)
				if got > MaxActionScore {
					t.Fatalf("ActionScore(%d,%d,%d)=%d exceeds %d", die, stat, adds, got, MaxActionScore)
				}
				if sum := die + stat + adds; sum <= MaxActionScore && got != sum {
					t.Fatalf("ActionScore(%d,%d,%d)=%d, want %d", die, stat, adds, got, sum)
				}
			}
		}
	}
}

func TestBurnOffer_IffMomentumOutranks(t *testing.T) {
	for momentum := -6; momentum <= 10; momentum++ {
		for score := 1; score <= 10; score++ {
			for c1 := 1; c1 <= 10; c1++ {
				for c2 := 1; c2 <= 10; c2++ {
					roll := RollContext{
						Dice:        Dice{Action: 1, Challenge1: c1, Challenge2: c2},
						ActionScore: score,
						Outcome:     Classify(score, c1, c2),
						Momentum:    momentum,
					}
					_, offered := BurnOffer(roll)
					want := momentum > 0 && Classify(momentum, c1, c2).Rank() > roll.Outcome.Rank()
					if offered != want {
						t.Fatalf("momentum=%d score=%d c=(%d,%d): offered=%v want %v", momentum, score, c1, c2, offered, want)
					}
					if momentum <= score && offered {
						t.Fatalf("offered burn with momentum %d <= score %d", momentum, score)
					}
				}
			}
		}
	}
}

func TestBurnOffer_SyntheticLowBoundary(t *testing.T) {
	// momentum 1 can only beat a challenge die of 0, outside real dice.
	roll := RollContext{Dice: Dice{Challenge1: 0, Challenge2: 1}, ActionScore: 0, Outcome: OutcomeMiss, Momentum: 1}
	burn, ok := BurnOffer(roll)
	if !ok || burn != OutcomeWeakHit {
		t.Fatalf("want weak-hit burn offer, got %s %v", burn, ok)
	}

	roll.Challenge1 = 1
	if _, ok := BurnOffer(roll); ok {
		t.Fatalf("momentum 1 against (1,1) must not be offered")
	}
}

func TestBurnMomentum_AlwaysResetsToTwo(t *testing.T) {
	for _, prior := range []int{-6, 0, 1, 2, 3, 7, 10} {
		got := BurnMomentum(*newCharacter(prior))
		if got.Momentum != character.MomentumReset {
			t.Fatalf("prior %d: want momentum 2, got %d", prior, got.Momentum)
		}
	}
}

func TestApply_FaceDangerWeakHit(t *testing.T) {
	s := selected(t, character.StatIron)

	events, next, err := Apply(s, Command{
		Type:      CmdRoll,
		Dice:      Dice{Action: 4, Challenge1: 3, Challenge2: 9},
		Character: newCharacter(0),
	})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if next.Phase != PhaseIdle {
		t.Fatalf("want idle after resolve, got %s", next.Phase)
	}

	ev, ok := findEvent(events, EvtMoveResolved)
	if !ok {
		t.Fatalf("expected EvtMoveResolved")
	}
	if ev.Result.ActionScore != 6 || ev.Result.Outcome != OutcomeWeakHit {
		t.Fatalf("want score 6 weak hit, got %d %s", ev.Result.ActionScore, ev.Result.Outcome)
	}
	if ev.Result.StatValue != 2 || ev.Result.Stat != character.StatIron || ev.Result.MoveKey != "face_the_danger" {
		t.Fatalf("unexpected result %+v", ev.Result)
	}
}

func TestApply_BurnAccepted(t *testing.T) {
	s := selected(t, character.StatEdge)

	// score 1+1=2 vs (5,8) misses; momentum 7 beats 5 only -> weak hit
	events, s, err := Apply(s, Command{
		Type:         CmdRoll,
		Dice:         Dice{Action: 1, Challenge1: 5, Challenge2: 8},
		Character:    newCharacter(7),
		PlayerAction: "I leap the chasm",
	})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if !hasEvent(events, EvtBurnOffered) || hasEvent(events, EvtMoveResolved) {
		t.Fatalf("expected burn offer without resolution, got %+v", events)
	}
	if s.Phase != PhaseAwaitingBurn {
		t.Fatalf("want awaiting burn, got %s", s.Phase)
	}

	events, s, err = Apply(s, Command{Type: CmdBurn})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if s.Phase != PhaseIdle {
		t.Fatalf("want idle, got %s", s.Phase)
	}
	burned, ok := findEvent(events, EvtMomentumBurned)
	if !ok || burned.Roll.Momentum != 7 {
		t.Fatalf("expected burn event with prior momentum 7, got %+v", burned)
	}
	ev, _ := findEvent(events, EvtMoveResolved)
	if ev.Result.ActionScore != 7 || ev.Result.Outcome != OutcomeWeakHit {
		t.Fatalf("want burned score 7 weak hit, got %d %s", ev.Result.ActionScore, ev.Result.Outcome)
	}
	if ev.Result.ActionDie != 1 || ev.Result.PlayerAction != "I leap the chasm" {
		t.Fatalf("roll context lost: %+v", ev.Result)
	}
}

func TestApply_BurnDeclinedKeepsRoll(t *testing.T) {
	s := selected(t, character.StatEdge)
	_, s, err := Apply(s, Command{
		Type:      CmdRoll,
		Dice:      Dice{Action: 1, Challenge1: 5, Challenge2: 8},
		Character: newCharacter(9),
	})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}

	events, s, err := Apply(s, Command{Type: CmdKeep})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if hasEvent(events, EvtMomentumBurned) {
		t.Fatalf("keep must not burn")
	}
	ev, _ := findEvent(events, EvtMoveResolved)
	if ev.Result.ActionScore != 2 || ev.Result.Outcome != OutcomeMiss {
		t.Fatalf("want original score 2 miss, got %d %s", ev.Result.ActionScore, ev.Result.Outcome)
	}
	if s.Phase != PhaseIdle {
		t.Fatalf("want idle, got %s", s.Phase)
	}
}

func TestApply_CancelFromEveryPhase(t *testing.T) {
	c := newCharacter(7)
	before := c.Clone()

	moveSelected, _ := func() (State, error) {
		_, s, err := Apply(NewIdleState(), Command{Type: CmdSelectMove, Move: faceDanger()})
		return s, err
	}()
	statSelected := selected(t, character.StatEdge)
	_, awaiting, err := Apply(statSelected, Command{Type: CmdRoll, Dice: Dice{Action: 1, Challenge1: 5, Challenge2: 8}, Character: c})
	if err != nil || awaiting.Phase != PhaseAwaitingBurn {
		t.Fatalf("setup: %v %s", err, awaiting.Phase)
	}

	cases := []struct {
		name  string
		setup State
	}{
		{name: "idle", setup: NewIdleState()},
		{name: "move selected", setup: moveSelected},
		{name: "stat selected", setup: statSelected},
		{name: "awaiting burn", setup: awaiting},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, s, err := Apply(tc.setup, Command{Type: CmdCancel})
			if err != nil {
				t.Fatalf("unexpected err %v", err)
			}
			if s.Phase != PhaseIdle || s.Move != nil || s.Roll != nil || s.Stat != "" {
				t.Fatalf("want clean idle state, got %+v", s)
			}
			if hasEvent(events, EvtMoveResolved) || hasEvent(events, EvtMomentumBurned) {
				t.Fatalf("cancel must not resolve or burn: %+v", events)
			}
			if c.Momentum != before.Momentum || c.Stats != before.Stats {
				t.Fatalf("character mutated by cancel")
			}
		})
	}
}

func TestApply_SelectMoveClearsStat(t *testing.T) {
	s := selected(t, character.StatWits)
	_, s, err := Apply(s, Command{Type: CmdSelectMove, Move: PendingMove{Category: "adventure", Key: "secure_an_advantage", Name: "Secure an Advantage"}})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if s.Phase != PhaseMoveSelected || s.Stat != "" || s.Move.Key != "secure_an_advantage" {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestApply_RejectsOutOfOrderCommands(t *testing.T) {
	cases := []struct {
		name    string
		setup   State
		cmd     Command
		wantErr error
	}{
		{name: "roll from idle", setup: NewIdleState(), cmd: Command{Type: CmdRoll, Character: newCharacter(2)}, wantErr: ErrWrongState},
		{name: "stat from idle", setup: NewIdleState(), cmd: Command{Type: CmdSelectStat, Stat: character.StatIron}, wantErr: ErrWrongState},
		{name: "burn without offer", setup: selected(t, character.StatIron), cmd: Command{Type: CmdBurn}, wantErr: ErrWrongState},
		{name: "roll without character", setup: selected(t, character.StatIron), cmd: Command{Type: CmdRoll}, wantErr: ErrNoCharacter},
		{name: "unknown stat", setup: selected(t, character.StatIron), cmd: Command{Type: CmdSelectStat, Stat: "luck"}, wantErr: character.ErrUnknownStat},
		{name: "unknown command", setup: NewIdleState(), cmd: Command{Type: "Dance"}, wantErr: ErrUnsupportedCommand},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, s, err := Apply(tc.setup, tc.cmd)
			if err == nil || !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if s.Phase != tc.setup.Phase {
				t.Fatalf("state changed on error: %s -> %s", tc.setup.Phase, s.Phase)
			}
		})
	}
}

func TestParseManualDice(t *testing.T) {
	d, err := ParseManualDice("4", " 3", "9 ")
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if d != (Dice{Action: 4, Challenge1: 3, Challenge2: 9}) {
		t.Fatalf("got %+v", d)
	}

	if _, err := ParseManualDice("4", "", "9"); !errors.Is(err, ErrInvalidDice) {
		t.Fatalf("want ErrInvalidDice, got %v", err)
	}
	if _, err := ParseManualDice("x", "3", "9"); !errors.Is(err, ErrInvalidDice) {
		t.Fatalf("want ErrInvalidDice, got %v", err)
	}
}

func TestRandomRoller_InRange(t *testing.T) {
	r := NewRandomRoller(42)
	for i := 0; i < 1000; i++ {
		d := r.Roll()
		if d.Action < 1 || d.Action > 6 {
			t.Fatalf("action die out of range: %d", d.Action)
		}
		if d.Challenge1 < 1 || d.Challenge1 > 10 || d.Challenge2 < 1 || d.Challenge2 > 10 {
			t.Fatalf("challenge die out of range: %+v", d)
		}
	}
}

func TestOutcomeDisplay(t *testing.T) {
	if got := OutcomeWeakHit.Display(); got != "Weak Hit" {
		t.Fatalf("got %q", got)
	}
	if !OutcomeStrongHit.Outranks(OutcomeWeakHit) || OutcomeMiss.Outranks(OutcomeMiss) {
		t.Fatalf("bad ordering")
	}
}

func findEvent(events []Event, typ EventType) (Event, bool) {
	for _, e := range events {
		if e.Type == typ {
			return e, true
		}
	}
	return Event{}, false
}

func hasEvent(events []Event, typ EventType) bool {
	_, ok := findEvent(events, typ)
	return ok
}
