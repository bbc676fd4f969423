package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/moves"
	"github.com/DoyleJ11/ironsworn-play/internal/session"
)

var errQuit = errors.New("quit")
var errUsage = errors.New("usage")

const helpText = `Plain text talks to the guide, or narrates your action in play.
  /set STAT N            assign a stat during creation
  /confirm               lock in your stats
  /vow RANK TEXT         edit the proposed vow
  /finalize              begin play
  /move NAME             pick a move (/moves lists them)
  /stat STAT             choose the stat to roll with
  /roll [ADDS]           roll the dice
  /dice A C1 C2 [ADDS]   enter physical dice
  /burn, /keep           answer a momentum burn offer
  /cancel                abandon the move
  /meter NAME N          set health, spirit, supply or momentum
  /progress N            mark progress on vow N (from 1)
  /oracle COLL TABLE [ROLL]
  /inspire               ask for inspiration
  /sheet                 show your character
  /quit
`

// local names commands the REPL answers itself.
func local(line string) string {
	switch strings.TrimSpace(line) {
	case "/help":
		return "help"
	case "/moves":
		return "moves"
	case "/sheet":
		return "sheet"
	}
	return ""
}

// parseLine turns a typed line into a session action. Blank lines yield nil.
func parseLine(line string) (session.Msg, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	if !strings.HasPrefix(line, "/") {
		return session.SubmitText{Text: line}, nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: try /help", errUsage)
	}
	name, args := fields[0], fields[1:]
	switch name {
	case "quit", "exit":
		return nil, errQuit

	case "set":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: /set STAT N", errUsage)
		}
		stat, err := character.ParseStat(args[0])
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: /set STAT N", errUsage)
		}
		return session.EditStat{Stat: stat, Value: n}, nil

	case "confirm":
		return session.ConfirmStats{}, nil

	case "vow":
		if len(args) < 2 {
			return nil, fmt.Errorf("%w: /vow RANK TEXT", errUsage)
		}
		rank, err := character.ParseRank(args[0])
		if err != nil {
			return nil, err
		}
		return session.EditVow{Description: strings.Join(args[1:], " "), Rank: rank}, nil

	case "finalize":
		return session.Finalize{}, nil

	case "move":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: /move NAME", errUsage)
		}
		m, err := moves.Lookup(strings.Join(args, " "))
		if err != nil {
			return nil, err
		}
		return session.SelectMove{Move: m.Pending()}, nil

	case "stat":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: /stat STAT", errUsage)
		}
		stat, err := character.ParseStat(args[0])
		if err != nil {
			return nil, err
		}
		return session.SelectStat{Stat: stat}, nil

	case "roll":
		return session.Roll{Adds: strings.Join(args, "")}, nil

	case "dice":
		if len(args) < 3 || len(args) > 4 {
			return nil, fmt.Errorf("%w: /dice A C1 C2 [ADDS]", errUsage)
		}
		r := session.Roll{Manual: &session.ManualDice{Action: args[0], Challenge1: args[1], Challenge2: args[2]}}
		if len(args) == 4 {
			r.Adds = args[3]
		}
		return r, nil

	case "burn":
		return session.BurnMomentum{}, nil
	case "keep":
		return session.KeepRoll{}, nil
	case "cancel":
		return session.CancelMove{}, nil

	case "meter":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: /meter NAME N", errUsage)
		}
		m, err := character.ParseMeter(args[0])
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: /meter NAME N", errUsage)
		}
		return session.EditMeter{Meter: m, Value: n}, nil

	case "progress":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: /progress N", errUsage)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: /progress N", errUsage)
		}
		return session.MarkProgress{VowIndex: n - 1}, nil

	case "oracle":
		switch len(args) {
		case 2:
			return session.RequestOracle{Collection: args[0], Table: args[1]}, nil
		case 3:
			roll, err := strconv.Atoi(args[2])
			if err != nil {
				return nil, fmt.Errorf("%w: /oracle COLL TABLE [ROLL]", errUsage)
			}
			return session.RequestManualOracle{Collection: args[0], Table: args[1], Roll: roll}, nil
		}
		return nil, fmt.Errorf("%w: /oracle COLL TABLE [ROLL]", errUsage)

	case "inspire":
		return session.RequestInspire{}, nil
	}
	return nil, fmt.Errorf("unknown command /%s, try /help", name)
}

func printMoves(w io.Writer) {
	for _, m := range moves.All() {
		stats := make([]string, 0, len(m.Stats))
		for _, s := range m.Stats {
			stats = append(stats, string(s))
		}
		fmt.Fprintf(w, "  %-22s %-10s %s\n", m.Name, m.Category, strings.Join(stats, ", "))
	}
}

func printSheet(w io.Writer, v session.View) {
	if v.Character == nil {
		fmt.Fprintln(w, "No character yet.")
		return
	}
	c := v.Character
	fmt.Fprintf(w, "%s\n  edge %d  heart %d  iron %d  shadow %d  wits %d\n",
		c.Name, c.Edge, c.Heart, c.Iron, c.Shadow, c.Wits)
	fmt.Fprintf(w, "  health %d  spirit %d  supply %d  momentum %d", c.Health, c.Spirit, c.Supply, c.Momentum)
	if v.SyncPending {
		fmt.Fprint(w, "  (saving)")
	}
	fmt.Fprintln(w)
	for i, vow := range c.Vows {
		fmt.Fprintf(w, "  %d. %s (%s) %d/%d\n", i+1, vow.Description, vow.Rank.Display(), vow.Progress, character.MaxProgress)
	}
	if v.Scene.Location != "" {
		fmt.Fprintf(w, "  at %s", v.Scene.Location)
		if len(v.Scene.NPCs) > 0 {
			fmt.Fprintf(w, " with %s", strings.Join(v.Scene.NPCs, ", "))
		}
		fmt.Fprintln(w)
	}
}
