// Package main runs the pokedex API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/pokedex/internal/catalog"
	"github.com/agenthands/pokedex/internal/config"
	"github.com/agenthands/pokedex/internal/core"
	"github.com/agenthands/pokedex/internal/server"
	"github.com/agenthands/pokedex/internal/telemetry"
)

const defaultConfigPath = "config/config.toml"

var (
	configPath string
	port       string
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve enriched pokemon from an in-process cache backed by PokeAPI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServer,
	}

	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = defaultConfigPath
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "Path to a TOML or YAML config file")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")

	rootCmd.AddCommand(newPreloadCmd())

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the config file. A missing file at the default location
// is not an error; the service then runs on defaults and env vars.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		log.Printf("Config file %s not found, using defaults", path)
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func buildPokedex(cfg *config.Config) (*core.Pokedex, error) {
	client, err := catalog.NewPokeAPIClient(cfg.PokeAPI)
	if err != nil {
		return nil, fmt.Errorf("creating catalog client: %w", err)
	}
	return core.NewPokedex(client, cfg), nil
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Server.Port = port
	}
	gin.SetMode(cfg.Server.Mode)

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("Telemetry shutdown: %v", err)
		}
	}()

	pokedex, err := buildPokedex(cfg)
	if err != nil {
		return err
	}
	pokedex.Start(ctx)
	defer pokedex.Close()

	return server.NewServer(pokedex).Run(ctx, ":"+cfg.Server.Port)
}
