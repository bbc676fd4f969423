// Package reveal produces text one character at a time for the typewriter
// effect on inspiration text.
package reveal

// Reveal is a finite producer over the characters of a text.
// Stopping early needs no cleanup: the consumer just stops calling Next.
type Reveal struct {
	runes []rune
	pos   int
}

func New(text string) *Reveal {
	return &Reveal{runes: []rune(text)}
}

// Next returns the text revealed so far after advancing one character, and
// false once everything has been shown.
func (r *Reveal) Next() (string, bool) {
	if r.pos >= len(r.runes) {
		return string(r.runes), false
	}
	r.pos++
	return string(r.runes[:r.pos]), true
}

func (r *Reveal) Done() bool {
	return r.pos >= len(r.runes)
}

func (r *Reveal) Text() string {
	return string(r.runes)
}
