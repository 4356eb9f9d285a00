package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/givers/console/internal/config"
	"github.com/givers/console/internal/logging"
	"github.com/givers/console/internal/repository"
)

const usageText = `Usage: migrate [command]

Commands:
  (default)   差分マイグレーションを適用
  reset       全テーブルを DROP し、集約スキーマで再作成
  fresh       全テーブルを DROP し、全マイグレーションを順番に適用`

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Fatal("migrate failed", "error", err)
	}
}

func run(args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	defer logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}).Close()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for migrations")
	}

	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	if cmd != "" && cmd != "reset" && cmd != "fresh" {
		fmt.Fprintln(os.Stderr, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	m := &migrator{pool: pool, dir: findMigrationDir()}
	switch cmd {
	case "reset":
		if err := m.dropAll(ctx); err != nil {
			return err
		}
		return m.consolidated(ctx)
	case "fresh":
		if err := m.dropAll(ctx); err != nil {
			return err
		}
	}
	return m.incremental(ctx)
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

type migrator struct {
	pool *pgxpool.Pool
	dir  string
}

// upFiles は .up.sql ファイル名をソート済みで返す
func (m *migrator) upFiles() ([]string, error) {
	return collectUpFiles(m.dir)
}

func collectUpFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (m *migrator) ensureSchemaMigrations(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

func (m *migrator) execFile(ctx context.Context, filename string) error {
	sql, err := os.ReadFile(filepath.Join(m.dir, filename))
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if _, err := m.pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply %s: %w", filename, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// (default) 差分マイグレーション
// ---------------------------------------------------------------------------
func (m *migrator) incremental(ctx context.Context) error {
	if err := m.ensureSchemaMigrations(ctx); err != nil {
		return err
	}
	files, err := m.upFiles()
	if err != nil {
		return err
	}

	applied := 0
	for _, filename := range files {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := m.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			return fmt.Errorf("check %s: %w", name, err)
		}
		if exists {
			continue
		}
		if err := m.execFile(ctx, filename); err != nil {
			return err
		}
		if _, err := m.pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
		applied++
		slog.Info("migration completed", "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
	return nil
}

// ---------------------------------------------------------------------------
// 全テーブル DROP
// ---------------------------------------------------------------------------
func (m *migrator) dropAll(ctx context.Context) error {
	slog.Info("dropping all tables")
	if err := m.execFile(ctx, "000_drop_all.sql"); err != nil {
		return err
	}
	slog.Info("all tables dropped")
	return nil
}

// ---------------------------------------------------------------------------
// 集約スキーマで再作成
// ---------------------------------------------------------------------------
func (m *migrator) consolidated(ctx context.Context) error {
	slog.Info("applying consolidated schema")
	if err := m.execFile(ctx, "000_consolidated.sql"); err != nil {
		return err
	}

	// 全マイグレーションを適用済みとして記録
	if err := m.ensureSchemaMigrations(ctx); err != nil {
		return err
	}
	files, err := m.upFiles()
	if err != nil {
		return err
	}
	for _, filename := range files {
		name := strings.TrimSuffix(filename, ".up.sql")
		if _, err := m.pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING", name); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
	}
	slog.Info("consolidated schema applied", "migrations_marked", len(files))
	return nil
}
