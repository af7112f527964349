package timescaledb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"logintel-backend/config"
)

const (
	usageEventsTableName = "query_usage_events"
	colTime              = "time"
	colQueryType         = "query_type"
	colStatus            = "status"
	colIndexPattern      = "index_pattern"
	colDurationMs        = "duration_ms"
	colTags              = "tags" // JSONB
)

// ProvideTimescaleDBPool connects to TimescaleDB, makes sure the usage
// hypertable exists and closes the pool on shutdown.
func ProvideTimescaleDBPool(lc fx.Lifecycle, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.TimescaleDB.DSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse TimescaleDB DSN")
		return nil, fmt.Errorf("invalid TimescaleDB DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Error().Err(err).Msg("Unable to create connection pool to TimescaleDB")
		return nil, fmt.Errorf("failed to connect to TimescaleDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ping TimescaleDB")
		return nil, fmt.Errorf("failed to ping TimescaleDB: %w", err)
	}
	log.Info().Msg("TimescaleDB connection pool created and verified.")

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()
	if err = ensureHypertable(setupCtx, pool); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ensure TimescaleDB hypertable exists")
		return nil, fmt.Errorf("failed ensuring hypertable: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing TimescaleDB connection pool...")
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func ensureHypertable(ctx context.Context, pool *pgxpool.Pool) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s TIMESTAMPTZ NOT NULL,
			%s TEXT NOT NULL,
			%s TEXT NOT NULL,
			%s TEXT,
			%s BIGINT,
			%s JSONB
		);`,
		usageEventsTableName, colTime, colQueryType, colStatus, colIndexPattern, colDurationMs, colTags)

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create base table %s: %w", usageEventsTableName, err)
	}
	log.Info().Str("table", usageEventsTableName).Msg("Ensured base table exists.")

	checkHyperSQL := `SELECT EXISTS (
        SELECT 1 FROM timescaledb_information.hypertables WHERE hypertable_name = $1
    );`
	var isHypertable bool
	_ = pool.QueryRow(ctx, checkHyperSQL, usageEventsTableName).Scan(&isHypertable)

	if !isHypertable {
		log.Info().Str("table", usageEventsTableName).Msg("Table is not a hypertable, attempting to create...")
		_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS timescaledb;")
		if err != nil {
			log.Warn().Err(err).Msg("Failed to ensure timescaledb extension exists (permission issue?). Trying to proceed...")
		}

		createHyperSQL := fmt.Sprintf(
			"SELECT create_hypertable('%s', '%s', if_not_exists => TRUE, chunk_time_interval => INTERVAL '1 day');",
			usageEventsTableName,
			colTime,
		)
		_, err = pool.Exec(ctx, createHyperSQL)
		if err != nil && !strings.Contains(err.Error(), "already a hypertable") {
			return fmt.Errorf("failed to create hypertable %s: %w", usageEventsTableName, err)
		}
		log.Info().Str("table", usageEventsTableName).Msg("Successfully ensured hypertable.")
	} else {
		log.Info().Str("table", usageEventsTableName).Msg("Table is already a hypertable.")
	}

	indexSQL := fmt.Sprintf(`
        CREATE INDEX IF NOT EXISTS idx_%s_type_status_time ON %s (query_type, status, time DESC);
        CREATE INDEX IF NOT EXISTS idx_%s_tags ON %s USING GIN (tags);
    `, usageEventsTableName, usageEventsTableName, usageEventsTableName, usageEventsTableName)
	if _, err := pool.Exec(ctx, indexSQL); err != nil {
		log.Warn().Err(err).Msg("Failed to create indexes on usage table (continuing)")
	} else {
		log.Info().Str("table", usageEventsTableName).Msg("Ensured indexes exist on usage table.")
	}

	return nil
}
