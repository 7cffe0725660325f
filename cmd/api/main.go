package main

import (
	"context"
	"log"
	"time"

	"arrival-alert/internal/core/cache"
	"arrival-alert/internal/core/config"
	"arrival-alert/internal/core/httpclient"
	"arrival-alert/internal/core/logger"
	"arrival-alert/internal/core/server"
	alertadapter "arrival-alert/internal/features/alerts/adapters"
	alerthandler "arrival-alert/internal/features/alerts/handler"
	alertservice "arrival-alert/internal/features/alerts/service"
	trackingadapter "arrival-alert/internal/features/tracking/adapters"
	trackinghandler "arrival-alert/internal/features/tracking/handler"
	trackingports "arrival-alert/internal/features/tracking/ports"
	trackingservice "arrival-alert/internal/features/tracking/service"
	tripadapter "arrival-alert/internal/features/trips/adapters"
	triphandler "arrival-alert/internal/features/trips/handler"
	tripports "arrival-alert/internal/features/trips/ports"
	tripservice "arrival-alert/internal/features/trips/service"

	"go.uber.org/zap"
)

// @title Arrival Alert API
// @version 1.0
// @description Location-triggered arrival reminders: proximity tracking, staged alerts and trip history.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Cache backs the banner store and the tracking status display.
	cacheAdapter, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to create Redis adapter", zap.Error(err))
	}
	defer cacheAdapter.Close()
	if err := cacheAdapter.Ping(context.Background()); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Alert channels: in-app banner, push webhook, device effects.
	bannerStore := alertadapter.NewRedisBannerStore(cacheAdapter)
	notifier := alertadapter.NewWebhookNotifier(cfg.Alerts.NotifyWebhookURL, httpclient.NewClient(10*time.Second))
	effects, err := alertadapter.NewRedisEffectPlayer(cfg.Redis.URL, cfg.Alerts.EffectsChannel)
	if err != nil {
		l.Fatal("Failed to create effect player", zap.Error(err))
	}
	defer effects.Close()

	dispatcher := alertservice.NewDispatcher(bannerStore, notifier, effects,
		time.Duration(cfg.Alerts.SideEffectTimeoutMS)*time.Millisecond)
	defer dispatcher.Flush()

	// Trip log backend.
	var tripRepo tripports.TripRepository
	switch cfg.Trips.Backend {
	case "sqlite":
		repo, err := tripadapter.NewSQLiteTripRepository(cfg.Trips.DBPath, cfg.Trips.MaxRecords)
		if err != nil {
			l.Fatal("Failed to open sqlite trip log", zap.Error(err))
		}
		defer repo.Close()
		tripRepo = repo
	default:
		repo, err := tripadapter.NewRedisTripRepository(cfg.Redis.URL, cfg.Trips.MaxRecords)
		if err != nil {
			l.Fatal("Failed to open redis trip log", zap.Error(err))
		}
		defer repo.Close()
		tripRepo = repo
	}
	recorder := tripservice.NewRecorder(tripRepo)

	// Tracking engine.
	feed := trackingadapter.NewDeviceFeed()
	presenter := trackingadapter.NewCachePresenter(cacheAdapter)
	tracker := trackingservice.NewTracker(feed, presenter, dispatcher, recorder, trackingservice.Config{
		Watch: trackingports.WatchOptions{
			HighAccuracy: cfg.Tracking.HighAccuracy,
			Timeout:      time.Duration(cfg.Tracking.PositionTimeoutMS) * time.Millisecond,
			MaxSampleAge: time.Duration(cfg.Tracking.PositionMaxAgeMS) * time.Millisecond,
		},
		PollInterval: time.Duration(cfg.Tracking.PollIntervalSeconds) * time.Second,
	})
	defer tracker.Stop()

	trackingHdl := trackinghandler.NewTrackingHandler(tracker, feed, presenter)
	bannerHdl := alerthandler.NewBannerHandler(bannerStore)
	tripsHdl := triphandler.NewTripsHandler(recorder)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Post("/tracking/start", trackingHdl.StartTracking)
	srv.App.Post("/tracking/stop", trackingHdl.StopTracking)
	srv.App.Post("/tracking/position", trackingHdl.ReportPosition)
	srv.App.Get("/tracking/status", trackingHdl.GetStatus)
	srv.App.Get("/banner", bannerHdl.GetBanner)
	srv.App.Delete("/banner", bannerHdl.DismissBanner)
	srv.App.Get("/trips", tripsHdl.ListTrips)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
