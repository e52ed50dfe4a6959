package db

import (
	"context"
	"fmt"
	"strconv"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"advocate_diary_go/config"
)

// MemoryPath opens a private in-memory store (one per Manager)
const MemoryPath = ":memory:"

// State is the lifecycle position of a Manager
type State int

const (
	StateUninitialized State = iota
	StateOpening
	StateReady
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// SeedFunc inserts first-run data. It runs inside a transaction after Bootstrap.
type SeedFunc func(ctx context.Context, tx *gorm.DB) error

// Options configure a Manager
type Options struct {
	Path        string // database file, or MemoryPath
	Environment string // config.EnvironmentTest enables Reset
	LogLevel    string // silent, error, warn, info; empty follows Environment
	Seeder      SeedFunc
}

// IsTest reports whether the manager may be reset
func (o Options) IsTest() bool {
	return config.IsTestEnvironment(o.Environment)
}

// Manager owns the single handle to the embedded store. The handle is created
// on first demand and published only after schema bootstrap and seeding have
// finished; concurrent callers during that window share one open.
type Manager struct {
	opts  Options
	group singleflight.Group

	mu    sync.RWMutex
	conn  *gorm.DB
	state State
	// generation is bumped by Close; an open started under an older
	// generation must not publish its handle
	generation uint64
}

// NewManager creates an unopened manager
func NewManager(opts Options) *Manager {
	if opts.Path == "" {
		opts.Path = config.DefaultDBPath
	}
	if opts.Seeder == nil {
		opts.Seeder = SeedDefaults
	}
	return &Manager{opts: opts}
}

// NewManagerFromConfig wires a manager from application configuration
func NewManagerFromConfig(cfg *config.Config) *Manager {
	return NewManager(Options{
		Path:        cfg.DBPath,
		Environment: cfg.Environment,
		LogLevel:    cfg.DBLogLevel,
	})
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Conn returns the ready handle, opening and initializing the store on first use.
// A caller whose ctx ends while waiting gets ctx.Err(); the shared open keeps going.
func (m *Manager) Conn(ctx context.Context) (*gorm.DB, error) {
	m.mu.RLock()
	if m.state == StateReady {
		conn := m.conn
		m.mu.RUnlock()
		return conn, nil
	}
	generation := m.generation
	m.mu.RUnlock()

	// Opens started before a Close never share a flight with later ones
	key := "open-" + strconv.FormatUint(generation, 10)
	ch := m.group.DoChan(key, func() (interface{}, error) {
		return m.open(generation)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gorm.DB), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Open initializes the store eagerly
func (m *Manager) Open(ctx context.Context) error {
	_, err := m.Conn(ctx)
	return err
}

// Close releases the handle. The next Conn call opens the store again.
// An open still in flight is abandoned: its handle is closed, never published.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	conn := m.conn
	m.conn = nil
	m.state = StateUninitialized
	if conn == nil {
		return nil
	}
	return closeConn(conn)
}

// Reset drops the cached handle so tests start from a clean store.
// Outside the test environment it only logs a warning.
func (m *Manager) Reset() error {
	if !m.opts.IsTest() {
		log.Printf("[WARNING] Database reset ignored outside the test environment (environment=%q)", m.opts.Environment)
		return nil
	}
	return m.Close()
}

func (m *Manager) open(generation uint64) (*gorm.DB, error) {
	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: database closed while opening", ErrConnection)
	}
	if m.state == StateReady {
		conn := m.conn
		m.mu.Unlock()
		return conn, nil
	}
	m.state = StateOpening
	m.mu.Unlock()

	conn, err := m.initialize(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != generation {
		// Close or Reset ran meanwhile and already set the state
		if err == nil {
			closeConn(conn)
		}
		log.Printf("[DB] Discarded handle for %s: closed while opening", m.opts.Path)
		return nil, fmt.Errorf("%w: database closed while opening", ErrConnection)
	}
	if err != nil {
		m.state = StateUninitialized
		m.conn = nil
		log.Printf("[DB] Failed to open %s: %v", m.opts.Path, err)
		return nil, err
	}
	m.conn = conn
	m.state = StateReady
	return conn, nil
}

func (m *Manager) initialize(ctx context.Context) (*gorm.DB, error) {
	dsn, err := m.dsn()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	conn, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: diaryDriver(), DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(m.opts.Environment, m.opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %w", ErrConnection, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get database instance: %w", ErrConnection, err)
	}
	// One connection: an in-memory store lives in it, and statements serialize on it
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := Bootstrap(ctx, conn); err != nil {
		closeConn(conn)
		return nil, fmt.Errorf("%w: schema bootstrap: %w", ErrConnection, err)
	}

	if err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return m.opts.Seeder(ctx, tx)
	}); err != nil {
		closeConn(conn)
		return nil, fmt.Errorf("%w: seed: %w", ErrConnection, err)
	}

	if m.opts.Path == MemoryPath {
		log.Println("[DB] Database connection established (in-memory)")
	} else {
		log.Printf("[DB] Database connection established (WAL mode enabled): %s", m.opts.Path)
	}
	return conn, nil
}

func (m *Manager) dsn() (string, error) {
	if m.opts.Path == MemoryPath {
		return MemoryPath + "?_foreign_keys=on", nil
	}

	if dir := filepath.Dir(m.opts.Path); dir != "." && !strings.HasPrefix(m.opts.Path, "file:") {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	// Enable WAL mode for better concurrency support
	return m.opts.Path + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", nil
}

func gormLogLevel(environment, level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	}

	switch environment {
	case config.EnvironmentProduction:
		return logger.Warn
	case config.EnvironmentTest:
		return logger.Silent
	default:
		return logger.Info
	}
}

func closeConn(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
