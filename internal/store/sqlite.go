package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shouni/go-amazebook-kit/pkg/project"

	_ "modernc.org/sqlite"
)

// SQLiteStore は管理画面の設定値と作例スナップショットを SQLite に保存します。
// settings.Store と project.ExampleRepository を実装します。
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite は dbPath のデータベースを開き、スキーマと初期作例を用意します。
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS examples (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		style TEXT NOT NULL,
		image_url TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	now := time.Now().Unix()
	for _, ex := range project.SeedExamples() {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO examples (id, title, style, image_url, created_at) VALUES (?, ?, ?, ?, ?)`,
			ex.ID, ex.Title, ex.Style, ex.ImageURL, now,
		); err != nil {
			return fmt.Errorf("seed examples: %w", err)
		}
	}
	return nil
}

// Ping はデータベースへの疎通を確認します。
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close はデータベースを閉じます。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get は保存済みの設定値を返します。未保存の場合 ok は false です。
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// Set は設定値を保存します。
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// Delete は指定した設定値を削除し、既定値に戻します。
func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, k); err != nil {
			return fmt.Errorf("delete setting %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// SaveExample は作例を追加または更新します。
func (s *SQLiteStore) SaveExample(ctx context.Context, ex project.Example) error {
	query := `
	INSERT INTO examples (id, title, style, image_url, created_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		style = excluded.style,
		image_url = excluded.image_url`
	if _, err := s.db.ExecContext(ctx, query, ex.ID, ex.Title, ex.Style, ex.ImageURL, time.Now().Unix()); err != nil {
		return fmt.Errorf("save example %s: %w", ex.ID, err)
	}
	return nil
}

// ListExamples は登録順に作例を返します。
func (s *SQLiteStore) ListExamples(ctx context.Context) ([]project.Example, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, style, image_url FROM examples ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}
	defer rows.Close()

	var out []project.Example
	for rows.Next() {
		var ex project.Example
		if err := rows.Scan(&ex.ID, &ex.Title, &ex.Style, &ex.ImageURL); err != nil {
			return nil, fmt.Errorf("scan example row: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}
