package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mvillareal/gamenight/internal/config"
	"github.com/mvillareal/gamenight/internal/httpapi"
	"github.com/mvillareal/gamenight/internal/prefs"
	"github.com/mvillareal/gamenight/internal/store"
	"github.com/mvillareal/gamenight/internal/tracker"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	client := store.NewClient(cfg.StoreURL, log)
	t := tracker.New(ctx, client, prefs.NewFileStore(cfg.PrefsPath), log)

	if err := t.Load(ctx); err != nil {
		// The store is unreachable or the default-session bootstrap failed.
		// Start anyway; every view stays usable and a later mutation or
		// refresh will surface the store errors to the user.
		log.Warn("initial session load failed", zap.Error(err))
		t.RefreshAll(ctx)
	}

	handler := httpapi.SetupRoutes(t, cfg.AccessCodes, log)

	log.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("store", cfg.StoreURL))
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
