package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wfclan/generals-lfg-bot/internal/bot"
	"github.com/wfclan/generals-lfg-bot/internal/config"
	"github.com/wfclan/generals-lfg-bot/internal/gateway"
	"github.com/wfclan/generals-lfg-bot/internal/httpapi"
	"github.com/wfclan/generals-lfg-bot/internal/hub"
	"github.com/wfclan/generals-lfg-bot/internal/platform"
	"github.com/wfclan/generals-lfg-bot/internal/retention"
	"github.com/wfclan/generals-lfg-bot/internal/types"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	api := platform.NewClient(cfg.APIBaseURL, cfg.Token)
	state := &types.RuntimeState{}
	h := hub.NewHub(ctx)

	policy := retention.NewPolicy(api, state, retention.NewClock(), cfg.DeleteAfter, log.Named("retention"))
	handler := bot.New(api, h, state, policy, cfg.ChannelID, cfg.PanelHistoryLimit, log.Named("bot"))
	gw := gateway.NewClient(cfg.GatewayURL, cfg.Token, handler, log.Named("gateway"))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.SetupRoutes(h),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return gw.Run(ctx)
	})

	g.Go(func() error {
		log.Info("ops server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		h.Inbox() <- hub.ShutdownHub{}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("exit", zap.Error(err))
		return
	}
	log.Info("bot exited cleanly")
}
