// captrack - capture agent inventory and live-status tracker
//
// This is the main entry point for the captrack service. captrack keeps
// the inventory of lecture-capture hardware (capture agents, rooms,
// vendors, Opencast clusters), renders per-device configuration
// documents, and continuously reconciles the redundant live-streaming
// channels of every monitored device.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/avops/captrack/migrations"

	"github.com/avops/captrack/internal/api"
	"github.com/avops/captrack/internal/deviceconfig"
	"github.com/avops/captrack/internal/epiphan"
	"github.com/avops/captrack/internal/infrastructure/config"
	"github.com/avops/captrack/internal/infrastructure/database"
	"github.com/avops/captrack/internal/infrastructure/influxdb"
	"github.com/avops/captrack/internal/infrastructure/logging"
	"github.com/avops/captrack/internal/infrastructure/mqtt"
	"github.com/avops/captrack/internal/inventory"
	"github.com/avops/captrack/internal/redunlive"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting captrack",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Inventory store and device config builder
	store := inventory.NewStore(db, log)
	builder := deviceconfig.NewBuilder(store, log)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// WebSocket hub is shared between the API server and the poller
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// Build the live room/agent graph and start the poller (optional)
	var live *redunlive.MapResult
	if cfg.Redunlive.TopologySource != "" {
		live, err = startMonitoring(ctx, cfg, hub, mqttClient, influxClient, log)
		if err != nil {
			return fmt.Errorf("starting live-status monitoring: %w", err)
		}
	} else {
		log.Info("live-status monitoring disabled, no topology source configured")
	}

	// Start HTTP API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Store:       store,
		Builder:     builder,
		Live:        live,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("captrack stopped")
	return nil
}

// startMonitoring loads the topology feed, maps the room/agent graph,
// and launches the background poller with every configured status sink.
func startMonitoring(ctx context.Context, cfg *config.Config, hub *api.Hub, mqttClient *mqtt.Client, influxClient *influxdb.Client, log *logging.Logger) (*redunlive.MapResult, error) {
	topology, err := redunlive.LoadTopology(ctx, cfg.Redunlive.TopologySource)
	if err != nil {
		return nil, err
	}

	factory := epiphan.NewFactory(epiphan.Config{
		User:     cfg.Devices.User,
		Password: cfg.Devices.Password,
		Timeout:  time.Duration(cfg.Devices.Timeout) * time.Second,
	})

	live, err := redunlive.MapTopology(ctx, topology, factory, log)
	if err != nil {
		return nil, err
	}
	log.Info("topology mapped",
		"source", cfg.Redunlive.TopologySource,
		"locations", len(live.Locations),
		"agents", len(live.Agents),
	)

	poller := redunlive.NewPoller(live.Agents,
		time.Duration(cfg.Redunlive.PollInterval)*time.Second, log)
	poller.AddSink(hub)
	if mqttClient != nil {
		poller.AddSink(mqtt.NewStatusSink(mqttClient))
	}
	if influxClient != nil {
		poller.AddSink(influxdb.NewStatusSink(influxClient))
	}
	go poller.Run(ctx)

	return live, nil
}

// getConfigPath returns the configuration file path.
// Uses CAPTRACK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("CAPTRACK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
