package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	coreconfig "kinobot/core/config"
	"kinobot/core/logger"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// postgresStore keeps the catalog in two tables. Partner insertion order
// is preserved through a serial position column.
type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to postgres, applies pending migrations, and
// returns the database-backed store.
func NewPostgresStore(cfg coreconfig.PostgresConfig) (Store, error) {
	if err := RunMigrations(cfg); err != nil {
		return nil, err
	}
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &postgresStore{db: db}, nil
}

func (s *postgresStore) GetEntry(code string) (Entry, bool, error) {
	var row struct {
		Title    string         `db:"title"`
		Poster   string         `db:"poster"`
		Episodes pq.StringArray `db:"episodes"`
	}
	err := s.db.Get(&row, `SELECT title, poster, episodes FROM movies WHERE code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("catalog: get entry: %w", err)
	}
	return Entry{Code: code, Title: row.Title, Poster: row.Poster, Episodes: row.Episodes}, true, nil
}

func (s *postgresStore) PutEntry(entry Entry) error {
	episodes := CleanEpisodes(entry.Episodes)
	_, err := s.db.Exec(`
		INSERT INTO movies (code, title, poster, episodes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE
		SET title = EXCLUDED.title, poster = EXCLUDED.poster, episodes = EXCLUDED.episodes`,
		entry.Code, entry.Title, entry.Poster, pq.StringArray(episodes),
	)
	if err != nil {
		return fmt.Errorf("catalog: put entry: %w", err)
	}
	return nil
}

func (s *postgresStore) DeleteEntry(code string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM movies WHERE code = $1`, code)
	if err != nil {
		return false, fmt.Errorf("catalog: delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("catalog: delete entry: %w", err)
	}
	return n > 0, nil
}

func (s *postgresStore) CountEntries() (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("catalog: count entries: %w", err)
	}
	return n, nil
}

func (s *postgresStore) ListPartners() ([]string, error) {
	var handles []string
	if err := s.db.Select(&handles, `SELECT handle FROM partners ORDER BY position`); err != nil {
		return nil, fmt.Errorf("catalog: list partners: %w", err)
	}
	return handles, nil
}

func (s *postgresStore) AddPartner(handle string) error {
	handle = NormalizePartner(handle)
	if handle == "" {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO partners (handle) VALUES ($1) ON CONFLICT (handle) DO NOTHING`, handle)
	if err != nil {
		return fmt.Errorf("catalog: add partner: %w", err)
	}
	return nil
}

func (s *postgresStore) DeletePartner(handle string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM partners WHERE handle = $1`, handle)
	if err != nil {
		return false, fmt.Errorf("catalog: delete partner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("catalog: delete partner: %w", err)
	}
	return n > 0, nil
}

func (s *postgresStore) CountPartners() (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM partners`); err != nil {
		return 0, fmt.Errorf("catalog: count partners: %w", err)
	}
	return n, nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}

// Connect opens the database connection, configures the pool, and verifies connectivity.
func Connect(cfg coreconfig.PostgresConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	sqlxDB, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	took := time.Since(start)
	if err != nil {
		logger.Store.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", "postgres"),
			slog.String("host", cfg.Host),
			slog.String("port", cfg.Port),
			slog.String("db", cfg.Name),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if pingErr := sqlxDB.PingContext(ctx); pingErr != nil {
		logger.Store.Error("db ping failed",
			slog.String("event", "db.ping"),
			slog.String("driver", "postgres"),
			slog.String("host", cfg.Host),
			slog.String("port", cfg.Port),
			slog.String("db", cfg.Name),
			slog.String("err", pingErr.Error()),
		)
		return nil, fmt.Errorf("db ping: %w", pingErr)
	}

	sqlxDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlxDB.SetMaxIdleConns(cfg.MaxConnections)

	logger.Store.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", "postgres"),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return sqlxDB, nil
}

// WaitForPostgres tries to connect to the DB until it is ready or timeout is reached.
func WaitForPostgres(dsn string, timeout time.Duration) error {
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				_ = db.Close()
				return nil
			}
			_ = db.Close()
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}

// RunMigrations applies all up migrations from the migrations directory.
func RunMigrations(cfg coreconfig.PostgresConfig) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
	if err := WaitForPostgres(dsn, 30*time.Second); err != nil {
		logger.MIG.Error("db not ready",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("database not ready: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		logger.MIG.Error("cwd lookup failed",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("get working directory: %w", err)
	}
	migrationsPath := filepath.Join(cwd, "migrations")
	sourceURL := "file://" + migrationsPath

	files := listMigrationFiles(migrationsPath)
	preview, truncated := logger.SummarizeStrings(files, 6)
	args := []any{
		slog.String("event", "resolve"),
		slog.String("path", migrationsPath),
		slog.Int("files_total", len(files)),
	}
	if preview != "" {
		args = append(args, slog.String("files_preview", preview))
	}
	if truncated {
		args = append(args, slog.Bool("files_truncated", true))
	}
	logger.MIG.Debug("migrations resolved", args...)

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		logger.MIG.Error("init failed",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := time.Since(start)

	switch upErr {
	case nil:
	case migrate.ErrNoChange:
		logger.MIG.Info("migrations summary",
			slog.String("event", "summary"),
			slog.Uint64("from_ver", uint64(fromVer)),
			slog.Uint64("to_ver", uint64(fromVer)),
			slog.Int("files", 0),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return nil
	default:
		logger.MIG.Error("migration failed",
			slog.String("event", "apply"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	applied := countApplied(files, uint64(fromVer), uint64(toVer))

	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Int("files", applied),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return nil
}

func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".up.sql") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) == 0 {
		return 0
	}
	v, _ := strconv.ParseUint(parts[0], 10, 64)
	return v
}

func countApplied(files []string, from, to uint64) int {
	if to <= from {
		return 0
	}
	c := 0
	for _, f := range files {
		v := parseVersion(f)
		if v > from && v <= to {
			c++
		}
	}
	return c
}
