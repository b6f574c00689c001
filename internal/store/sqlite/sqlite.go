// Package sqlite implements store.EventLog on an embedded SQLite database
// through the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/artdeck/artdeck-go/internal/store"
)

var _ store.EventLog = (*DB)(nil)

type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at path and runs migrations. ":memory:"
// gives a private in-memory database.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection: SQLite serializes writers anyway, and an in-memory
	// database exists only on the connection that created it.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS room_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id     INTEGER NOT NULL,
			user_id     TEXT NOT NULL,
			message     TEXT NOT NULL,
			shape_id    TEXT NOT NULL DEFAULT '',
			content_key TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
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
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO room_events (room_id, user_id, message, shape_id, content_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.RoomID, p.UserID, p.Message, p.ShapeID, p.ContentKey, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: appending event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: reading event id: %w", err)
	}
	return id, nil
}

func (db *DB) DeleteByShapeID(ctx context.Context, roomID int64, shapeID string) (int64, error) {
	if shapeID == "" {
		return 0, nil
	}
	return db.exec(ctx, "deleting by shape id",
		`DELETE FROM room_events WHERE room_id = ? AND shape_id = ?`, roomID, shapeID)
}

func (db *DB) DeleteByContent(ctx context.Context, roomID int64, contentKey string) (int64, error) {
	if contentKey == "" {
		return 0, nil
	}
	return db.exec(ctx, "deleting by content",
		`DELETE FROM room_events WHERE room_id = ? AND content_key = ?`, roomID, contentKey)
}

func (db *DB) DeleteAll(ctx context.Context, roomID int64) (int64, error) {
	return db.exec(ctx, "clearing room",
		`DELETE FROM room_events WHERE room_id = ?`, roomID)
}

func (db *DB) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	return n, nil
}

func (db *DB) ListRecent(ctx context.Context, roomID int64, limit int) ([]store.Entry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, room_id, user_id, message, created_at
		 FROM room_events
		 WHERE room_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		roomID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		var e store.Entry
		if err := rows.Scan(&e.ID, &e.RoomID, &e.UserID, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning event: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating events: %w", err)
	}

	return entries, nil
}
