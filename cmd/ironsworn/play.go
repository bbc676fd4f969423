package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/ironsworn-play/internal/channel"
	"github.com/DoyleJ11/ironsworn-play/internal/session"
)

func (a *app) playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play ID",
		Short: "Join a session and play from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) play(ctx context.Context, id string, in io.Reader, out io.Writer) error {
	p := newPrinter(out)
	ch := channel.New(a.cfg.SessionURL(id), a.log, channel.WithReconnectDelay(a.cfg.ReconnectDelay))
	s := session.New(ch, a.log,
		session.WithSyncDelay(a.cfg.MeterSyncDelay),
		session.WithRevealInterval(a.cfg.RevealInterval),
		session.WithTranscriptListener(p.change),
		session.WithNoticeListener(p.notice),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ch.Run(gctx) })
	g.Go(func() error { return s.Run(gctx) })
	g.Go(func() error { return repl(gctx, s, in, out) })

	err := g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// repl feeds typed lines to the session until /quit, end of input or ctx.
func repl(ctx context.Context, s *session.Session, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "Type /help for commands.")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			if err := runLine(ctx, s, line, out); err != nil {
				if errors.Is(err, errQuit) {
					return err
				}
				if errors.Is(err, session.ErrStopped) {
					return nil
				}
				fmt.Fprintln(out, "!", err)
			}
		}
	}
}

func runLine(ctx context.Context, s *session.Session, line string, out io.Writer) error {
	switch local(line) {
	case "help":
		fmt.Fprint(out, helpText)
		return nil
	case "moves":
		printMoves(out)
		return nil
	case "sheet":
		v, err := s.View(ctx)
		if err != nil {
			return err
		}
		printSheet(out, v)
		return nil
	}

	msg, err := parseLine(line)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}
	return s.Do(ctx, msg)
}
