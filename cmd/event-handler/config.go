package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/joho/godotenv"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/application/ingestion"
)

type FlagType int
type FlagMap map[FlagType]string

const (
	listenAddress FlagType = iota
	servicePort

	configPath
	envPath

	logFormat
)

func parseExternalConfig(ctx context.Context, flags FlagMap, args []string) FlagMap {

	// Allow environment variables to override certain defaults
	flags[listenAddress] = env.GetVariableOrDefault(ctx, "LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = env.GetVariableOrDefault(ctx, "SERVICE_PORT", flags[servicePort])
	flags[configPath] = env.GetVariableOrDefault(ctx, "EVENT_HANDLER_CONFIG", flags[configPath])
	flags[logFormat] = env.GetVariableOrDefault(ctx, "LOG_FORMAT", flags[logFormat])

	apply := func(f FlagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	fs := flag.NewFlagSet("event-handler", flag.ContinueOnError)

	// Allow command line arguments to override defaults and environment variables
	fs.Func("config", "path to the event handler configuration file", apply(configPath))
	fs.Func("env", "path to a .env file with secrets", apply(envPath))
	fs.Func("port", "port to serve the api on", apply(servicePort))
	fs.Func("logformat", "log format, json or text", apply(logFormat))
	fs.Parse(args)

	return flags
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func loadConfiguration(ctx context.Context, path string) (*ingestion.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := ingestion.LoadConfiguration(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}

	applyEnvironment(ctx, cfg)

	return cfg, nil
}

// applyEnvironment lets the environment override secrets and endpoints of
// the configuration file
func applyEnvironment(ctx context.Context, cfg *ingestion.Config) {
	cfg.IDPolicy = env.GetVariableOrDefault(ctx, "ID_POLICY", cfg.IDPolicy)

	cfg.TripleStore.QueryEndpoint = env.GetVariableOrDefault(ctx, "TRIPLE_STORE_QUERY_ENDPOINT", cfg.TripleStore.QueryEndpoint)
	cfg.TripleStore.UpdateEndpoint = env.GetVariableOrDefault(ctx, "TRIPLE_STORE_UPDATE_ENDPOINT", cfg.TripleStore.UpdateEndpoint)
	cfg.TripleStore.Username = env.GetVariableOrDefault(ctx, "TRIPLE_STORE_USERNAME", cfg.TripleStore.Username)
	cfg.TripleStore.Password = env.GetVariableOrDefault(ctx, "TRIPLE_STORE_PASSWORD", cfg.TripleStore.Password)

	if debug, err := strconv.ParseBool(env.GetVariableOrDefault(ctx, "TRIPLE_STORE_DEBUG", "")); err == nil {
		cfg.TripleStore.Debug = debug
	}

	cfg.Queue.URL = env.GetVariableOrDefault(ctx, "RABBITMQ_URL", cfg.Queue.URL)
	cfg.Lease.RedisURL = env.GetVariableOrDefault(ctx, "REDIS_URL", cfg.Lease.RedisURL)
	cfg.Geocoding.APIKey = env.GetVariableOrDefault(ctx, "LOCATIONIQ_API_KEY", cfg.Geocoding.APIKey)
}
