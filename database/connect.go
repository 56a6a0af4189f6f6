package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/blogly/config"
	"github.com/rpupo63/blogly/models"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Open connects to the database described by cfg and registers the post/tag
// join model. DB_TYPE selects the driver; DB_REPLICA_URLS adds postgres read
// replicas.
func Open(cfg map[string]string) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(cfg, "SLOW_QUERY_MS", 10000)) * time.Millisecond,
			LogLevel:                  gormLogLevel(config.GetString(cfg, "DB_LOG_LEVEL", "warn")),
			IgnoreRecordNotFoundError: true,
			Colorful:                  config.GetBool(cfg, "DB_LOG_COLOR", true),
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if replicas := config.GetStrings(cfg, "DB_REPLICA_URLS"); len(replicas) > 0 {
		if err := useReplicas(db, cfg, replicas); err != nil {
			return nil, err
		}
	}

	if err := models.SetupJoinTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

func dialectorFor(cfg map[string]string) (gorm.Dialector, error) {
	dbType := strings.ToLower(config.GetString(cfg, "DB_TYPE", TypePostgres))
	switch dbType {
	case TypePostgres:
		zlog.Info().Msg("Connecting to postgres database...")
		return postgres.New(postgres.Config{
			DSN:                  PostgresDSN(cfg),
			PreferSimpleProtocol: true,
		}), nil
	case TypeSQLite:
		path := config.GetString(cfg, "DB_PATH", "blogly.db")
		zlog.Info().Str("path", path).Msg("Connecting to sqlite database...")
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// PostgresDSN returns DATABASE_URL when set, otherwise a keyword/value DSN
// assembled from the DB_* settings.
func PostgresDSN(cfg map[string]string) string {
	if url := config.GetString(cfg, "DATABASE_URL", ""); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(cfg, "DB_HOST", "localhost"),
		config.GetString(cfg, "DB_USER", "postgres"),
		config.GetString(cfg, "DB_PASSWORD", ""),
		config.GetString(cfg, "DB_NAME", "blogly"),
		config.GetString(cfg, "DB_PORT", "5432"),
		config.GetString(cfg, "DB_SSLMODE", "disable"),
	)
}

func useReplicas(db *gorm.DB, cfg map[string]string, replicaURLs []string) error {
	if strings.ToLower(config.GetString(cfg, "DB_TYPE", TypePostgres)) != TypePostgres {
		return fmt.Errorf("read replicas are only supported for postgres")
	}

	replicas := make([]gorm.Dialector, 0, len(replicaURLs))
	for _, url := range replicaURLs {
		replicas = append(replicas, postgres.New(postgres.Config{
			DSN:                  url,
			PreferSimpleProtocol: true,
		}))
	}

	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("error registering read replicas: %w", err)
	}

	zlog.Info().Int("replicas", len(replicas)).Msg("Read replicas registered")
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
