package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/application/ingestion"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/application/notifications"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/geocoding"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/lease"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/metrics"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/queue"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/router"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/presentation/api"
	"github.com/lukas-kratochvil/music-event-connect/pkg/differ"
	"github.com/lukas-kratochvil/music-event-connect/pkg/entities"
	"github.com/lukas-kratochvil/music-event-connect/pkg/mapper"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql/client"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
)

const serviceName string = "event-handler"

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	flags := parseExternalConfig(ctx, defaultFlags(), os.Args[1:])

	if err := loadEnvFile(flags[envPath]); err != nil {
		slog.Error("failed to load environment", "err", err.Error())
		stop()
		os.Exit(1)
	}

	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, flags[logFormat])

	err := run(ctx, stop, flags)
	if err != nil {
		logger.Error("event handler stopped with an error", "err", err.Error())
	} else {
		logger.Info("shutdown complete")
	}

	cleanup()
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// run returns once ctx is done or the queue consumer stops. Everything it
// starts is torn down before it returns.
func run(ctx context.Context, stop context.CancelFunc, flags FlagMap) error {
	logger := logging.GetFromContext(ctx)

	cfg, err := loadConfiguration(ctx, flags[configPath])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m := metrics.New()

	app, teardown, err := initialize(ctx, cfg, m)
	defer teardown()
	if err != nil {
		return fmt.Errorf("failed to initialize event handler: %w", err)
	}

	r := router.New(serviceName, logger)
	api.RegisterHandlers(ctx, r, app, m.Handler())

	srv := &http.Server{
		Addr:              net.JoinHostPort(flags[listenAddress], flags[servicePort]),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		logger.Info("starting to listen for connections", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("failed to listen for connections: %w", err)
			stop()
		}
	}()

	consumeErr := consume(ctx, cfg.Queue, app)
	if consumeErr != nil {
		consumeErr = fmt.Errorf("queue consumer stopped: %w", consumeErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	shutdownErr := srv.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		shutdownErr = fmt.Errorf("failed to shut down http server: %w", shutdownErr)
	}

	select {
	case err = <-serveErr:
	default:
	}

	return errors.Join(err, consumeErr, shutdownErr)
}

func defaultFlags() FlagMap {
	return FlagMap{
		listenAddress: "",
		servicePort:   "8080",
		configPath:    "/opt/music-event-connect/config/event-handler.yaml",
		logFormat:     "json",
	}
}

func initialize(ctx context.Context, cfg *ingestion.Config, m *metrics.Metrics) (ingestion.App, func(), error) {
	log := logging.GetFromContext(ctx)
	closers := []func(){}
	teardown := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	registry, err := entities.NewRegistry()
	if err != nil {
		return nil, teardown, err
	}

	var store mapper.Store
	if cfg.TripleStore.QueryEndpoint == "" {
		log.Warn("no triple store configured, events are kept in memory only")
		store = memory.New()
	} else {
		opts := []func(*client.Client){client.Debug(cfg.TripleStore.Debug)}
		if cfg.TripleStore.UpdateEndpoint != "" {
			opts = append(opts, client.UpdateURL(cfg.TripleStore.UpdateEndpoint))
		}
		if cfg.TripleStore.Username != "" {
			opts = append(opts, client.DigestAuth(cfg.TripleStore.Username, cfg.TripleStore.Password))
		}
		store = client.New(cfg.TripleStore.QueryEndpoint, opts...)
	}

	locale := language.Czech
	if cfg.Locale != "" {
		if locale, err = language.Parse(cfg.Locale); err != nil {
			return nil, teardown, err
		}
	}

	mapperOpts := []mapper.Option{mapper.WithDiffer(differ.New(registry, differ.WithLocale(locale)))}
	if cfg.IDPolicy == entities.PolicyContentAddressed {
		mapperOpts = append(mapperOpts, mapper.WithSharedSubjects())
	}

	events, err := mapper.New[*entities.MusicEvent](registry, store, entities.MusicEventType, mapperOpts...)
	if err != nil {
		return nil, teardown, err
	}

	appOpts := []ingestion.Option{ingestion.WithRecorder(m)}

	var rdb redis.UniversalClient
	if cfg.Lease.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.Lease.RedisURL)
		if err != nil {
			return nil, teardown, err
		}
		rdb = redis.NewClient(redisOpts)
		closers = append(closers, func() { rdb.Close() })

		leases, err := lease.NewRedisManager(rdb, "")
		if err != nil {
			return nil, teardown, err
		}
		appOpts = append(appOpts, ingestion.WithLeases(leases, cfg.Lease.TTL))
	}

	if cfg.Geocoding.APIKey != "" {
		var geocoder geocoding.Geocoder = geocoding.NewLocationIQ(cfg.Geocoding.Endpoint, cfg.Geocoding.APIKey)
		geocoder = geocoding.RateLimited(geocoder)

		if rdb != nil {
			cacheOpts := []geocoding.CacheOption{geocoding.WithObserver(m.Geocoded)}
			if cfg.Geocoding.CacheTTL > 0 {
				cacheOpts = append(cacheOpts, geocoding.WithTTL(cfg.Geocoding.CacheTTL))
			}
			geocoder = geocoding.Cached(geocoder, rdb, cacheOpts...)
		}

		appOpts = append(appOpts, ingestion.WithGeocoder(geocoder))
	} else {
		log.Warn("no geocoding api key configured, venues without coordinates are stored as scraped")
	}

	if endpoint := env.GetVariableOrDefault(ctx, "NOTIFIER_ENDPOINT", ""); endpoint != "" {
		notifier, err := notifications.NewNotifier(ctx, endpoint)
		if err != nil {
			return nil, teardown, err
		}
		if err = notifier.Start(); err != nil {
			return nil, teardown, err
		}
		closers = append(closers, func() { notifier.Stop() })
		appOpts = append(appOpts, ingestion.WithNotifier(notifier))
	}

	app, err := ingestion.New(*cfg, events, appOpts...)
	if err != nil {
		return nil, teardown, err
	}

	return app, teardown, nil
}

// consume blocks until ctx is done or the broker closes the channel
func consume(ctx context.Context, cfg ingestion.QueueConfig, app ingestion.App) error {
	if cfg.URL == "" {
		logging.GetFromContext(ctx).Warn("no queue configured, serving the api only")
		<-ctx.Done()
		return nil
	}

	conn, err := queue.Dial(cfg.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	name := cfg.Name
	if name == "" {
		name = "music-events"
	}

	if err = queue.Setup(ch, name, cfg.RetryDelay); err != nil {
		return err
	}

	opts := []queue.ConsumerOption{}
	if cfg.MaxRetries > 0 {
		opts = append(opts, queue.WithMaxRetries(cfg.MaxRetries))
	}

	return queue.NewConsumer(ch, name, app.Handle, opts...).Run(ctx)
}
