package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"compose2containerapps/internal/models"
	"compose2containerapps/internal/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeRows struct {
	pgx.Rows
	rows   [][]any
	cur    int
	closed bool
	err    error
}

func (r *fakeRows) Next() bool {
	if r.cur >= len(r.rows) {
		return false
	}
	r.cur++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.cur-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = row[i].(uuid.UUID)
		case *string:
			*p = row[i].(string)
		case *bool:
			*p = row[i].(bool)
		case *pgtype.Int4:
			*p = row[i].(pgtype.Int4)
		case *pgtype.Text:
			*p = row[i].(pgtype.Text)
		case *pgtype.Timestamptz:
			*p = row[i].(pgtype.Timestamptz)
		}
	}
	return nil
}

func (r *fakeRows) Close()     { r.closed = true }
func (r *fakeRows) Err() error { return r.err }

type fakeDB struct {
	execSQL  string
	execErr  error
	query    string
	args     []any
	row      pgx.Row
	rows     *fakeRows
	queryErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	return pgconn.NewCommandTag("CREATE TABLE"), f.execErr
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.query = sql
	f.args = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.query = sql
	f.args = args
	return f.row
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, New(db).EnsureSchema(context.Background()))
	assert.Equal(t, sql.Schema(), db.execSQL)

	db.execErr = errors.New("boom")
	assert.Error(t, New(db).EnsureSchema(context.Background()))
}

func TestCreateConversion(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*pgtype.Timestamptz)) = pgtype.Timestamptz{Time: created, Valid: true}
		return nil
	}}}

	port := 8080
	rec := models.ConversionRecord{
		ID:            uuid.New(),
		RunID:         "run",
		Service:       "web",
		ResourceGroup: "rg",
		Location:      "eastus",
		External:      true,
		TargetPort:    &port,
		Document:      "kind: containerapp\n",
	}

	out, err := New(db).CreateConversion(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, created, out.CreatedAt)
	assert.Equal(t, sql.CreateConversion, db.query)
	require.Len(t, db.args, 9)
	assert.Equal(t, pgtype.Int4{Int32: 8080, Valid: true}, db.args[6])
	assert.Equal(t, pgtype.Text{}, db.args[8])
}

func TestCreateConversionNullPort(t *testing.T) {
	db := &fakeDB{row: fakeRow{scan: func(...any) error { return nil }}}

	_, err := New(db).CreateConversion(context.Background(), models.ConversionRecord{
		Service: "worker",
		Error:   "missing image",
	})
	require.NoError(t, err)
	assert.Equal(t, pgtype.Int4{}, db.args[6])
	assert.Equal(t, pgtype.Text{String: "missing image", Valid: true}, db.args[8])
}

func TestCreateConversionError(t *testing.T) {
	db := &fakeDB{row: fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}}

	_, err := New(db).CreateConversion(context.Background(), models.ConversionRecord{})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestListConversions(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := &fakeRows{rows: [][]any{
		{id, "run", "web", "rg", "eastus", true, pgtype.Int4{Int32: 80, Valid: true}, "doc", pgtype.Text{}, pgtype.Timestamptz{Time: created, Valid: true}},
		{id, "run", "db", "rg", "eastus", false, pgtype.Int4{}, "", pgtype.Text{String: "bad", Valid: true}, pgtype.Timestamptz{Time: created, Valid: true}},
	}}
	db := &fakeDB{rows: rows}

	records, err := New(db).ListConversions(context.Background(), ListConversionsParams{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, rows.closed)
	assert.Equal(t, []any{"", DefaultListLimit}, db.args)

	require.NotNil(t, records[0].TargetPort)
	assert.Equal(t, 80, *records[0].TargetPort)
	assert.Equal(t, created, records[0].CreatedAt)
	assert.Nil(t, records[1].TargetPort)
	assert.Equal(t, "bad", records[1].Error)
}

func TestListConversionsFilters(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{}}

	records, err := New(db).ListConversions(context.Background(), ListConversionsParams{Service: "web", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.Equal(t, []any{"web", 5}, db.args)
}

func TestListConversionsErrors(t *testing.T) {
	_, err := New(&fakeDB{queryErr: errors.New("down")}).ListConversions(context.Background(), ListConversionsParams{})
	assert.Error(t, err)

	_, err = New(&fakeDB{rows: &fakeRows{err: errors.New("broken")}}).ListConversions(context.Background(), ListConversionsParams{})
	assert.Error(t, err)
}
