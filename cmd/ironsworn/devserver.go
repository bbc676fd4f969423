package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/ironsworn-play/internal/guide"
	"github.com/DoyleJ11/ironsworn-play/internal/httpapi"
	"github.com/DoyleJ11/ironsworn-play/internal/hub"
	"github.com/DoyleJ11/ironsworn-play/internal/store"
	"github.com/DoyleJ11/ironsworn-play/internal/table"
)

func (a *app) devserverCmd() *cobra.Command {
	var think time.Duration
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local scripted guide server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.devserver(cmd.Context(), think)
		},
	}
	cmd.Flags().DurationVar(&think, "think", 500*time.Millisecond, "how long the guide takes to answer")
	return cmd
}

func (a *app) devserver(ctx context.Context, think time.Duration) error {
	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	h := hub.NewHub(ctx, st, guide.New(time.Now().UnixNano()), a.log, table.WithThinkTime(think))
	srv := &http.Server{
		Addr:              a.cfg.DevServerAddr,
		Handler:           httpapi.SetupRoutes(h, st, a.log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore uses Postgres when a database URL is configured and memory
// otherwise.
func (a *app) openStore() (store.Store, func(), error) {
	if a.cfg.DatabaseURL == "" {
		a.log.Info("using in-memory session store")
		return store.NewMemory(), func() {}, nil
	}
	pg, err := store.OpenPostgres(a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	a.log.Info("using postgres session store")
	return pg, func() {
		if err := pg.Close(); err != nil {
			a.log.Warn("close store", zap.Error(err))
		}
	}, nil
}
