package transcript

import (
	"slices"

	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

type Kind string

const (
	KindUser        Kind = "user"
	KindGuide       Kind = "assistant"
	KindSystem      Kind = "system"
	KindMechanical  Kind = "mechanical"
	KindInspiration Kind = "inspiration"
	KindStats       Kind = "stats-widget"
	KindVow         Kind = "vow-widget"
)

// Detail is a collapsible explanation attached to a mechanical entry.
type Detail struct {
	Title string
	Body  string
}

type Entry struct {
	Kind Kind
	Text string
	// HTML marks Text as pre-rendered markup from the server.
	HTML bool
	// Creation marks entries produced during character creation.
	Creation bool
	// Class refines mechanical entries: an outcome ("weak-hit") or "oracle".
	Class   string
	Details []Detail
}

func (e Entry) widget() bool {
	return e.Kind == KindStats || e.Kind == KindVow
}

type Op string

const (
	OpAppend      Op = "append"
	OpUpdate      Op = "update"
	OpRemove      Op = "remove"
	OpPlaceholder Op = "placeholder"
)

type Change struct {
	Op    Op
	Index int
	Entry Entry
}

// Transcript is the read-only history shown to the player plus the single
// "working" placeholder. Text is never deleted; only interactive widgets are.
type Transcript struct {
	entries     []Entry
	placeholder string
	listen      func(Change)
}

// New creates an empty transcript. listen may be nil.
func New(listen func(Change)) *Transcript {
	return &Transcript{listen: listen}
}

func (t *Transcript) notify(c Change) {
	if t.listen != nil {
		t.listen(c)
	}
}

func (t *Transcript) Append(e Entry) int {
	t.entries = append(t.entries, e)
	i := len(t.entries) - 1
	t.notify(Change{Op: OpAppend, Index: i, Entry: e})
	return i
}

// Update edits the entry at i in place. Out-of-range indexes are ignored.
func (t *Transcript) Update(i int, edit func(*Entry)) {
	if i < 0 || i >= len(t.entries) {
		return
	}
	edit(&t.entries[i])
	t.notify(Change{Op: OpUpdate, Index: i, Entry: t.entries[i]})
}

func (t *Transcript) remove(i int) {
	e := t.entries[i]
	t.entries = slices.Delete(t.entries, i, i+1)
	t.notify(Change{Op: OpRemove, Index: i, Entry: e})
}

// AppendBlocks replays server blocks, folding consecutive guide blocks into
// one entry.
func (t *Transcript) AppendBlocks(blocks []protocol.Block, creation bool) {
	for _, b := range Coalesce(blocks) {
		kind := Kind(b.Type)
		t.Append(Entry{
			Kind:     kind,
			Text:     b.HTML,
			HTML:     kind != KindUser,
			Creation: creation,
		})
	}
}

// Coalesce merges runs of assistant blocks, joining their markup with a
// newline. Blocks without a type count as assistant blocks.
func Coalesce(blocks []protocol.Block) []protocol.Block {
	var grouped []protocol.Block
	for _, b := range blocks {
		if b.Type == "" {
			b.Type = protocol.BlockAssistant
		}
		if n := len(grouped); n > 0 && b.Type == protocol.BlockAssistant && grouped[n-1].Type == protocol.BlockAssistant {
			grouped[n-1].HTML += "\n" + b.HTML
			continue
		}
		grouped = append(grouped, b)
	}
	return grouped
}

// SetWidget shows an interactive widget, replacing any earlier widget of the
// same kind.
func (t *Transcript) SetWidget(kind Kind, text string) int {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Kind == kind {
			t.remove(i)
		}
	}
	return t.Append(Entry{Kind: kind, Text: text, Creation: true})
}

// UpdateLast rewrites the text of the newest entry of kind in place. It
// reports false when there is none.
func (t *Transcript) UpdateLast(kind Kind, text string) bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Kind == kind {
			t.Update(i, func(e *Entry) { e.Text = text })
			return true
		}
	}
	return false
}

// StripCreationWidgets removes interactive creation widgets and reclassifies
// the remaining creation entries as ordinary history.
func (t *Transcript) StripCreationWidgets() {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].widget() {
			t.remove(i)
		}
	}
	for i := range t.entries {
		if t.entries[i].Creation {
			t.Update(i, func(e *Entry) { e.Creation = false })
		}
	}
}

// AttachToLastMechanical adds d to the most recent roll result. It reports
// false when there is none.
func (t *Transcript) AttachToLastMechanical(d Detail) bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Kind == KindMechanical && t.entries[i].Class != "oracle" {
			t.Update(i, func(e *Entry) { e.Details = append(e.Details, d) })
			return true
		}
	}
	return false
}

func (t *Transcript) ShowPlaceholder(text string) {
	t.placeholder = text
	t.notify(Change{Op: OpPlaceholder, Index: -1, Entry: Entry{Kind: KindSystem, Text: text}})
}

func (t *Transcript) ClearPlaceholder() {
	if t.placeholder == "" {
		return
	}
	t.placeholder = ""
	t.notify(Change{Op: OpPlaceholder, Index: -1})
}

func (t *Transcript) Placeholder() string {
	return t.placeholder
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the history.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		e.Details = slices.Clone(e.Details)
		out[i] = e
	}
	return out
}
