package main

import (
	"context"
	"log"

	"db_forms/internal/config"
	"db_forms/internal/connectors"
	"db_forms/internal/logger"
	"db_forms/internal/schema"

	"github.com/spf13/cobra"
)

func main() {
	var configFile string
	var rootCmd = &cobra.Command{
		Use:   "db_init",
		Short: "Create the bookstore tables in the configured store",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			initTables(cmd.Context(), configFile)
		},
	}
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "configuration file")
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func initTables(ctx context.Context, configFile string) {
	// Загрузка конфигурации
	cfg, err := config.GetConfig(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	l, err := logger.NewLogger(cfg.Logger.Target, cfg.Logger.Level, cfg.Logger.Filename)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer l.Close()

	store, err := connectors.New(cfg.Store)
	if err != nil {
		l.Fatal(err)
	}
	l.Infof("Connecting to %s store", cfg.Store.Driver)
	if err := store.Connect(); err != nil {
		l.Fatalf("Failed to connect: %v", err)
	}
	defer store.Disconnect()

	// Таблицы создаются вне рабочей транзакции, сразу постоянно
	for _, ts := range schema.Tables() {
		l.Infof("Creating table %s", ts.Name)
		if err := store.CreateTable(ctx, ts); err != nil {
			l.Fatalf("Failed to create table: %v", err)
		}
	}
	l.Info("Tables created successfully")
}
