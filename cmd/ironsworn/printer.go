package main

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/DoyleJ11/ironsworn-play/internal/transcript"
)

var tags = regexp.MustCompile(`<[^>]*>`)

// printer writes transcript changes to a terminal. It runs on the session
// goroutine.
type printer struct {
	w io.Writer
	// shown tracks how much of a revealing entry has been printed.
	shown map[int]int
	// open is set while a reveal is mid-line.
	open bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, shown: make(map[int]int)}
}

func (p *printer) change(c transcript.Change) {
	switch c.Op {
	case transcript.OpAppend:
		if c.Entry.Kind == transcript.KindInspiration {
			p.shown[c.Index] = 0
			p.reveal(c.Index, c.Entry.Text)
			return
		}
		p.entry(c.Entry)

	case transcript.OpUpdate:
		switch c.Entry.Kind {
		case transcript.KindInspiration:
			p.reveal(c.Index, c.Entry.Text)
		case transcript.KindStats, transcript.KindVow:
			p.entry(c.Entry)
		case transcript.KindMechanical:
			if n := len(c.Entry.Details); n > 0 {
				p.endReveal()
				d := c.Entry.Details[n-1]
				fmt.Fprintf(p.w, "  %s: %s\n", d.Title, d.Body)
			}
		}

	case transcript.OpPlaceholder:
		if c.Entry.Text != "" {
			p.endReveal()
			fmt.Fprintf(p.w, "... %s\n", c.Entry.Text)
		}
	}
}

// reveal prints the part of a typewriter entry not yet on screen.
func (p *printer) reveal(i int, text string) {
	n, ok := p.shown[i]
	if !ok || len(text) < n {
		n = 0
	}
	fmt.Fprint(p.w, text[n:])
	p.shown[i] = len(text)
	p.open = text != ""
}

func (p *printer) endReveal() {
	if p.open {
		fmt.Fprintln(p.w)
		p.open = false
	}
}

func (p *printer) entry(e transcript.Entry) {
	p.endReveal()
	text := e.Text
	if e.HTML {
		text = html.UnescapeString(tags.ReplaceAllString(text, ""))
	}
	text = strings.TrimSpace(text)

	switch e.Kind {
	case transcript.KindUser:
		fmt.Fprintf(p.w, "> %s\n", text)
	case transcript.KindMechanical:
		fmt.Fprintf(p.w, "[%s]\n", strings.ReplaceAll(text, "\n", " | "))
		for _, d := range e.Details {
			fmt.Fprintf(p.w, "  %s: %s\n", d.Title, d.Body)
		}
	case transcript.KindSystem:
		fmt.Fprintf(p.w, "* %s\n", text)
	case transcript.KindStats, transcript.KindVow:
		fmt.Fprintf(p.w, "{%s}\n", text)
	default:
		fmt.Fprintf(p.w, "\n%s\n\n", text)
	}
}

func (p *printer) notice(msg string) {
	if msg != "" {
		p.endReveal()
		fmt.Fprintf(p.w, "! %s\n", msg)
	}
}
