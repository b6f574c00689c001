// Package postgres implements store.EventLog on PostgreSQL through a pgx
// connection pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artdeck/artdeck-go/internal/store"
)

var _ store.EventLog = (*DB)(nil)

type DB struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL, verifies the connection and runs migrations.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS room_events (
			id          BIGSERIAL PRIMARY KEY,
			room_id     BIGINT NOT NULL,
			user_id     TEXT NOT NULL,
			message     TEXT NOT NULL,
			shape_id    TEXT NOT NULL DEFAULT '',
			content_key TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_room_events_room ON room_events(room_id, id);
		CREATE INDEX IF NOT EXISTS idx_room_events_shape ON room_events(room_id, shape_id);
	`)
	if err != nil {
		return fmt.Errorf("creating room_events table: %w", err)
	}
	return nil
}

func (db *DB) Append(ctx context.Context, p store.AppendParams) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO room_events (room_id, user_id, message, shape_id, content_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.RoomID, p.UserID, p.Message, p.ShapeID, p.ContentKey,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: appending event: %w", err)
	}
	return id, nil
}

func (db *DB) DeleteByShapeID(ctx context.Context, roomID int64, shapeID string) (int64, error) {
	if shapeID == "" {
		return 0, nil
	}
	return db.exec(ctx, "deleting by shape id",
		`DELETE FROM room_events WHERE room_id = $1 AND shape_id = $2`, roomID, shapeID)
}

func (db *DB) DeleteByContent(ctx context.Context, roomID int64, contentKey string) (int64, error) {
	if contentKey == "" {
		return 0, nil
	}
	return db.exec(ctx, "deleting by content",
		`DELETE FROM room_events WHERE room_id = $1 AND content_key = $2`, roomID, contentKey)
}

func (db *DB) DeleteAll(ctx context.Context, roomID int64) (int64, error) {
	return db.exec(ctx, "clearing room", `DELETE FROM room_events WHERE room_id = $1`, roomID)
}

func (db *DB) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	tag, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: %s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func (db *DB) ListRecent(ctx context.Context, roomID int64, limit int) ([]store.Entry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, room_id, user_id, message, created_at
		 FROM room_events
		 WHERE room_id = $1
		 ORDER BY id DESC
		 LIMIT $2`,
		roomID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing events: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Entry, error) {
		var e store.Entry
		err := row.Scan(&e.ID, &e.RoomID, &e.UserID, &e.Message, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning events: %w", err)
	}
	return entries, nil
}
