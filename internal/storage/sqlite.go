// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/storefront/internal/models"
)

// ErrNotFound is returned when an item does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		category_label TEXT,
		title TEXT,
		excerpt TEXT,
		tags TEXT,
		attributes TEXT,
		badges TEXT,
		published_at TEXT,
		link TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_items_collection_position ON items(collection, position);
	`
	_, err := db.Exec(schema)
	return err
}

const itemColumns = `id, category, category_label, title, excerpt, tags, attributes, badges, published_at, link`

// PutItems replaces a collection in one transaction.
func (s *SQLiteStorage) PutItems(ctx context.Context, collection string, items []*models.ListItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (collection, position, `+itemColumns+`, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, it := range items {
		tags, attrs, badges, err := marshalItem(it)
		if err != nil {
			return fmt.Errorf("item %s: %w", it.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			collection, i, it.ID, it.Category, it.CategoryLabel, it.Title, it.Excerpt,
			tags, attrs, badges, formatTime(it.PublishedAt), it.Link, now,
		); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", it.ID, err)
		}
	}
	return tx.Commit()
}

// ListItems returns a collection ordered by position.
func (s *SQLiteStorage) ListItems(ctx context.Context, collection string) ([]*models.ListItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE collection = ? ORDER BY position`,
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ListItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItem returns one item by ID.
func (s *SQLiteStorage) GetItem(ctx context.Context, collection, id string) (*models.ListItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE collection = ? AND id = ?`,
		collection, id,
	)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s/%s: %w", collection, id, ErrNotFound)
	}
	return it, err
}

// DeleteCollection removes every item of a collection.
func (s *SQLiteStorage) DeleteCollection(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE collection = ?`, collection)
	return err
}

// Collections lists stored collections by name.
func (s *SQLiteStorage) Collections(ctx context.Context) ([]CollectionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT collection, COUNT(*), MAX(updated_at) FROM items GROUP BY collection ORDER BY collection`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CollectionInfo
	for rows.Next() {
		var (
			info    CollectionInfo
			updated sql.NullString
		)
		if err := rows.Scan(&info.Name, &info.Items, &updated); err != nil {
			return nil, err
		}
		if updated.Valid {
			info.UpdatedAt = parseStoredTime(updated.String)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// CountItems returns the number of items in a collection.
func (s *SQLiteStorage) CountItems(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE collection = ?`, collection).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*models.ListItem, error) {
	var (
		it                           models.ListItem
		label, title, excerpt, link  sql.NullString
		tags, attrs, badges, publish sql.NullString
	)
	if err := row.Scan(&it.ID, &it.Category, &label, &title, &excerpt, &tags, &attrs, &badges, &publish, &link); err != nil {
		return nil, err
	}
	it.CategoryLabel = label.String
	it.Title = title.String
	it.Excerpt = excerpt.String
	it.Link = link.String
	if err := unmarshalJSON(tags, &it.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := unmarshalJSON(attrs, &it.Attributes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attributes: %w", err)
	}
	var badgeNames []string
	if err := unmarshalJSON(badges, &badgeNames); err != nil {
		return nil, fmt.Errorf("failed to unmarshal badges: %w", err)
	}
	for _, b := range badgeNames {
		it.AddBadge(b)
	}
	if publish.Valid && publish.String != "" {
		t, err := time.Parse(time.RFC3339Nano, publish.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse published_at: %w", err)
		}
		it.PublishedAt = t
	}
	return &it, nil
}

func marshalItem(it *models.ListItem) (tags, attrs, badges string, err error) {
	b, err := json.Marshal(it.Tags)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	tags = string(b)
	if b, err = json.Marshal(it.Attributes); err != nil {
		return "", "", "", fmt.Errorf("failed to marshal attributes: %w", err)
	}
	attrs = string(b)
	if b, err = json.Marshal(it.BadgeNames()); err != nil {
		return "", "", "", fmt.Errorf("failed to marshal badges: %w", err)
	}
	badges = string(b)
	return tags, attrs, badges, nil
}

func unmarshalJSON(s sql.NullString, v any) error {
	if !s.Valid || s.String == "" || s.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseStoredTime reads the driver's timestamp text. Unknown layouts yield the zero time.
func parseStoredTime(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
