package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/blogly/api"
	"github.com/rpupo63/blogly/config"
	"github.com/rpupo63/blogly/database"
	"github.com/rpupo63/blogly/models"
	"github.com/rpupo63/blogly/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogger(c)
	log.Info().Msg("Initializing app...")

	if parameterPath := config.GetString(c, "SSM_PARAMETER_PATH", ""); parameterPath != "" {
		if err := loadSSM(c, parameterPath); err != nil {
			log.Fatal().Err(err).Msg("Error loading configuration from SSM")
		}
		setupLogger(c)
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	currentDB := database.New(db)
	if err := currentDB.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, "./generated"); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if _, err := models.GenerateColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating column mismatch report")
		}
		return
	}

	isSQLite := strings.EqualFold(config.GetString(c, "DB_TYPE", database.TypePostgres), database.TypeSQLite)
	if config.GetBool(c, "AUTO_MIGRATE", isSQLite) {
		log.Info().Msg("Running auto migration...")
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	blog := services.NewBlogService(currentDB)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, blog)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Err(fatalErr).Msg("Closing server")

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogger configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT.
func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(c, "LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func loadSSM(c map[string]string, parameterPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := config.NewSSMClient(ctx)
	if err != nil {
		return err
	}
	return config.MergeSSM(ctx, c, client, parameterPath)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-ch)
}
