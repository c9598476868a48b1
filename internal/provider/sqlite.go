package provider

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lbuchert/photowall/internal/photo"
)

const currentSchemaVersion = 1

// libraryPageSize is the page window served by the local library.
const libraryPageSize = 30

// Library implements Provider against a local SQLite database. It serves the
// offline/demo mode; the cursor is the row offset encoded as a string.
type Library struct {
	db    *sql.DB
	path  string
	owner string
}

// NewLibrary opens (creating if needed) the library database. The owner name
// scopes ListMyPhotos and series operations.
func NewLibrary(path, owner string) (*Library, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	l := &Library{db: db, path: path, owner: owner}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return l, nil
}

// Path returns the database file path.
func (l *Library) Path() string {
	return l.path
}

// Close closes the database connection.
func (l *Library) Close() error {
	return l.db.Close()
}

// migrate runs database migrations.
func (l *Library) migrate() error {
	var version int
	err := l.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := l.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (l *Library) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS series (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			owner_name TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_series_owner ON series(owner_name);

		CREATE TABLE IF NOT EXISTS photos (
			id TEXT PRIMARY KEY NOT NULL,
			display_url TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			owner_name TEXT NOT NULL,
			category TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '[]',
			like_count INTEGER NOT NULL DEFAULT 0,
			location_label TEXT NOT NULL DEFAULT '',
			uploaded_at TEXT NOT NULL,
			series_id TEXT,
			is_public INTEGER NOT NULL DEFAULT 1,
			is_portfolio INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (series_id) REFERENCES series(id) ON DELETE SET NULL
		);

		CREATE INDEX IF NOT EXISTS idx_photos_owner ON photos(owner_name);
		CREATE INDEX IF NOT EXISTS idx_photos_category ON photos(category);
		CREATE INDEX IF NOT EXISTS idx_photos_uploaded_at ON photos(uploaded_at);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := l.db.Exec(schema)
	return err
}

// ListPhotos returns one page of public photos, newest first.
func (l *Library) ListPhotos(ctx context.Context, cursor string) (Page, error) {
	return l.listPage(ctx, cursor, "is_public = 1", nil)
}

// ListMyPhotos returns one page of the owner's photos, optionally narrowed to
// a category.
func (l *Library) ListMyPhotos(ctx context.Context, cursor string, category photo.Category) (Page, error) {
	where := "owner_name = ?"
	args := []any{l.owner}
	if category != "" && category != photo.CategoryAll {
		where += " AND category = ?"
		args = append(args, string(category))
	}
	return l.listPage(ctx, cursor, where, args)
}

// listPage runs one windowed query. It asks for one extra row to learn
// whether more pages exist without a second count query.
func (l *Library) listPage(ctx context.Context, cursor, where string, args []any) (Page, error) {
	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return Page{}, fmt.Errorf("parse cursor %q: %w", cursor, err)
		}
		offset = n
	}

	query := `
		SELECT id, display_url, thumbnail_url, title, description, owner_name,
		       category, tags, like_count, location_label, uploaded_at,
		       series_id, is_public, is_portfolio
		FROM photos
		WHERE ` + where + `
		ORDER BY uploaded_at DESC, id
		LIMIT ? OFFSET ?`
	args = append(args, libraryPageSize+1, offset)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	items := []photo.Item{}
	for rows.Next() {
		item, err := scanPhoto(rows)
		if err != nil {
			return Page{}, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	hasMore := len(items) > libraryPageSize
	if hasMore {
		items = items[:libraryPageSize]
	}

	page := Page{Items: items, HasMore: hasMore}
	if hasMore {
		page.NextCursor = strconv.Itoa(offset + libraryPageSize)
	}
	return page, nil
}

// UpdatePhoto applies a partial update and returns the updated photo.
func (l *Library) UpdatePhoto(ctx context.Context, id string, patch PhotoPatch) (photo.Item, error) {
	item, err := l.getPhoto(ctx, id)
	if err != nil {
		return photo.Item{}, err
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Tags != nil {
		item.Tags = patch.Tags
	}
	if patch.IsPublic != nil {
		item.IsPublic = *patch.IsPublic
	}
	if patch.SetSeries {
		item.SeriesID = patch.SeriesID
	}

	tagsJSON, _ := json.Marshal(item.Tags)
	if item.Tags == nil {
		tagsJSON = []byte("[]")
	}

	isPublic := 0
	if item.IsPublic {
		isPublic = 1
	}

	_, err = l.db.ExecContext(ctx, `
		UPDATE photos
		SET title = ?, description = ?, category = ?, tags = ?, is_public = ?, series_id = ?
		WHERE id = ?`,
		item.Title, item.Description, string(item.Category), string(tagsJSON),
		isPublic, item.SeriesID, id,
	)
	if err != nil {
		return photo.Item{}, err
	}

	return item, nil
}

// DeletePhoto removes a photo. Returns ErrNotFound for unknown ids.
func (l *Library) DeletePhoto(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, "DELETE FROM photos WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSeries returns the owner's series ordered by title.
func (l *Library) ListSeries(ctx context.Context) ([]photo.Series, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, title, description, owner_name
		FROM series
		WHERE owner_name = ?
		ORDER BY title`, l.owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := []photo.Series{}
	for rows.Next() {
		var s photo.Series
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.OwnerName); err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, rows.Err()
}

// CreateSeries creates a new series owned by the library owner.
func (l *Library) CreateSeries(ctx context.Context, input SeriesInput) (photo.Series, error) {
	series := photo.NewSeries(photo.NewSeriesParams{
		Title:       input.Title,
		Description: input.Description,
		OwnerName:   l.owner,
	})

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO series (id, title, description, owner_name)
		VALUES (?, ?, ?, ?)`,
		series.ID, series.Title, series.Description, series.OwnerName,
	)
	if err != nil {
		return photo.Series{}, err
	}
	return series, nil
}

// InsertPhotos stores photos in the library. Used by the demo seeder and by
// upload-notification handling in local mode.
func (l *Library) InsertPhotos(ctx context.Context, items []photo.Item) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO photos
			(id, display_url, thumbnail_url, title, description, owner_name,
			 category, tags, like_count, location_label, uploaded_at,
			 series_id, is_public, is_portfolio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		tagsJSON, _ := json.Marshal(item.Tags)
		if item.Tags == nil {
			tagsJSON = []byte("[]")
		}

		isPublic := 0
		if item.IsPublic {
			isPublic = 1
		}
		isPortfolio := 0
		if item.IsPortfolioPiece {
			isPortfolio = 1
		}

		if _, err := stmt.Exec(
			item.ID, item.DisplayURL, item.ThumbnailURL, item.Title,
			item.Description, item.OwnerName, string(item.Category),
			string(tagsJSON), item.LikeCount, item.LocationLabel,
			item.UploadedAt.Format(time.RFC3339), item.SeriesID,
			isPublic, isPortfolio,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// getPhoto loads one photo row by id.
func (l *Library) getPhoto(ctx context.Context, id string) (photo.Item, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, display_url, thumbnail_url, title, description, owner_name,
		       category, tags, like_count, location_label, uploaded_at,
		       series_id, is_public, is_portfolio
		FROM photos
		WHERE id = ?`, id)

	item, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return photo.Item{}, ErrNotFound
	}
	return item, err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPhoto reads one photo row.
func scanPhoto(row rowScanner) (photo.Item, error) {
	var item photo.Item
	var category, tagsJSON, uploadedAtStr string
	var seriesID sql.NullString
	var isPublic, isPortfolio int

	if err := row.Scan(
		&item.ID, &item.DisplayURL, &item.ThumbnailURL, &item.Title,
		&item.Description, &item.OwnerName, &category, &tagsJSON,
		&item.LikeCount, &item.LocationLabel, &uploadedAtStr,
		&seriesID, &isPublic, &isPortfolio,
	); err != nil {
		return photo.Item{}, err
	}

	item.Category = photo.Category(category)
	if err := json.Unmarshal([]byte(tagsJSON), &item.Tags); err != nil {
		item.Tags = []string{}
	}
	item.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAtStr)
	if seriesID.Valid {
		item.SeriesID = &seriesID.String
	}
	item.IsPublic = isPublic == 1
	item.IsPortfolioPiece = isPortfolio == 1

	return item, nil
}

// DefaultLibraryPath returns the default library path: ~/.config/photowall/library.db
func DefaultLibraryPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "photowall", "library.db"), nil
}
