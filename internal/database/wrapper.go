// Package database stores conversion history in postgres.
package database

import (
	"context"
	"fmt"

	"compose2containerapps/internal/models"
	"compose2containerapps/internal/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:generate go tool mockgen -destination mocks/mock_store.go -package mocks . Store

const DefaultListLimit = 50

// Store is the conversion history used by the server.
type Store interface {
	CreateConversion(ctx context.Context, rec models.ConversionRecord) (models.ConversionRecord, error)
	ListConversions(ctx context.Context, params ListConversionsParams) ([]models.ConversionRecord, error)
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Database struct {
	db   DBTX
	pool *pgxpool.Pool
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{db: pool, pool: pool}
}

// New wraps any connection, mainly for tests and transactions.
func New(db DBTX) *Database {
	return &Database{db: db}
}

func (db *Database) Close() error {
	if db == nil || db.pool == nil {
		return nil
	}

	db.pool.Close()
	return nil
}

func (db *Database) EnsureSchema(ctx context.Context) error {
	if _, err := db.db.Exec(ctx, sql.Schema()); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func (db *Database) CreateConversion(ctx context.Context, rec models.ConversionRecord) (models.ConversionRecord, error) {
	var targetPort pgtype.Int4
	if rec.TargetPort != nil {
		targetPort = pgtype.Int4{Int32: int32(*rec.TargetPort), Valid: true}
	}
	errText := pgtype.Text{String: rec.Error, Valid: rec.Error != ""}

	var createdAt pgtype.Timestamptz
	err := db.db.QueryRow(ctx, sql.CreateConversion,
		rec.ID, rec.RunID, rec.Service, rec.ResourceGroup, rec.Location,
		rec.External, targetPort, rec.Document, errText,
	).Scan(&createdAt)
	if err != nil {
		return models.ConversionRecord{}, fmt.Errorf("inserting conversion: %w", err)
	}

	rec.CreatedAt = createdAt.Time
	return rec, nil
}

type ListConversionsParams struct {
	Service string
	Limit   int
}

func (db *Database) ListConversions(ctx context.Context, params ListConversionsParams) ([]models.ConversionRecord, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.db.Query(ctx, sql.ListConversions, params.Service, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	records := []models.ConversionRecord{}
	for rows.Next() {
		var (
			rec        models.ConversionRecord
			targetPort pgtype.Int4
			errText    pgtype.Text
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Service, &rec.ResourceGroup, &rec.Location,
			&rec.External, &targetPort, &rec.Document, &errText, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		if targetPort.Valid {
			port := int(targetPort.Int32)
			rec.TargetPort = &port
		}
		rec.Error = errText.String
		rec.CreatedAt = createdAt.Time
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	return records, nil
}
