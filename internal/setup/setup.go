// Package setup contains functions for setting up dependencies and components on startup.
package setup

import (
	"context"
	"fmt"
	"strconv"

	"compose2containerapps/internal/config"
	"compose2containerapps/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Database connects to the history database. It returns nil when the
// config has no database section.
func Database(ctx context.Context, conf config.EnvConfig) (*database.Database, error) {
	if conf.Database == nil {
		return nil, nil
	}

	poolConfig, err := PoolConfig(*conf.Database)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	db := database.NewDatabase(pool)

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	return db, nil
}

func PoolConfig(conf config.Database) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig("")
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	port, err := strconv.ParseUint(conf.Port, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("parsing config port: %w", err)
	}

	poolConfig.ConnConfig.Host = conf.Host
	poolConfig.ConnConfig.Port = uint16(port)
	poolConfig.ConnConfig.User = conf.User
	poolConfig.ConnConfig.Password = conf.Password
	poolConfig.ConnConfig.Database = conf.Name
	return poolConfig, nil
}
