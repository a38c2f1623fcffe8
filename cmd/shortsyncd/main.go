package main

import (
	"context"
	"log/slog"
	"time"

	"shortwatch/lib/configutil"
	"shortwatch/lib/notify"
	"shortwatch/lib/scrapers/cnmv"
	"shortwatch/lib/shorts"
	"shortwatch/lib/shortstore"
	"shortwatch/lib/telemetry"
	"shortwatch/lib/util/serviceutil"
	"shortwatch/services/shortsync"
)

type Config struct {
	// postgres-wire connection string, QuestDB's pg endpoint works too
	DatabaseUrl string `json:"database_url"`
	Concurrency int    `json:"concurrency"`
	// 0 means run one sync and exit
	SyncIntervalSeconds int               `json:"sync_interval_seconds"`
	Smtp                notify.SmtpConfig `json:"smtp"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "shortsyncd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	store, err := shortstore.Connect(ctx, config.DatabaseUrl)
	if err != nil {
		serviceutil.Fatal("failed to connect to database", err)
	}
	defer store.Close()

	cnmvClient, err := cnmv.NewClient(cnmv.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("failed to create cnmv client", err)
	}
	registry := shorts.NewRegistry()
	registry.Register(shorts.RegulatorCNMV, cnmvClient)

	service := shortsync.NewService(shortsync.Options{
		Store:       store,
		Registry:    registry,
		Concurrency: config.Concurrency,
	})
	notifier := notify.NewNotifier(config.Smtp)

	if config.SyncIntervalSeconds <= 0 {
		if err := runSync(ctx, service, notifier); err != nil {
			serviceutil.Fatal("sync failed", err)
		}
		return
	}

	interval := time.Duration(config.SyncIntervalSeconds) * time.Second
	slog.Info("starting sync loop", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		err := runSync(ctx, service, notifier)
		if err != nil {
			slog.Error("sync failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runSync(ctx context.Context, service shortsync.Service, notifier notify.Notifier) error {
	start := time.Now()
	result, err := service.SyncAll(ctx)
	if err != nil {
		return err
	}
	slog.Info("sync finished",
		"took", time.Since(start),
		"changed", result.Changed,
		"failures", len(result.Failures),
	)
	for _, failure := range result.Failures {
		slog.Warn("company was not synced", "err", failure.Error())
	}

	err = notifier.ChangedTickers(ctx, result.Changed)
	if err != nil {
		slog.Error("failed to send change notification", "err", err)
	}
	return nil
}
