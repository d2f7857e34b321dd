// Package storage provides the persisted catalog store: typed,
// whole-collection persistence on top of a key-value backend, plus the
// .storefront/ workspace that holds it.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jacksmith/storefront/internal/kv"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/observability"
	"gopkg.in/yaml.v3"
)

const (
	// dataDir is the name of the storefront directory.
	dataDir = ".storefront"
	// kvDir is the subdirectory for the file backend.
	kvDir = "kv"
	// dbFile is the database file for the sqlite backend.
	dbFile = "store.db"
	// configFile is the name of the config file within .storefront/.
	configFile = "config.yaml"

	// storageVersion is written to config.yaml by Init.
	storageVersion = 1
)

// Backend selects the key-value implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ParseBackend validates a backend name. Empty means the file backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendFile:
		return BackendFile, nil
	case BackendSQLite:
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected file or sqlite)", s)
	}
}

// StorageConfig contains settings stored in .storefront/config.yaml.
type StorageConfig struct {
	Version int     `yaml:"version"`
	Backend Backend `yaml:"backend"`
}

// Storage is the persisted catalog store.
type Storage struct {
	root    string // directory containing .storefront/, empty for in-memory
	backend Backend
	kv      kv.Store
	logger  *slog.Logger
	inst    *observability.Instruments

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used for recovery warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInstruments sets the tracer and counters.
func WithInstruments(in *observability.Instruments) Option {
	return func(s *Storage) {
		if in != nil {
			s.inst = in
		}
	}
}

// New returns a Storage over an existing key-value store with no
// workspace on disk.
func New(store kv.Store, opts ...Option) *Storage {
	return newStorage("", BackendMemory, store, opts)
}

func newStorage(root string, backend Backend, store kv.Store, opts []Option) *Storage {
	s := &Storage{
		root:    root,
		backend: backend,
		kv:      store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		locks:   make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.inst == nil {
		s.inst = observability.New(nil, nil)
	}
	return s
}

// Open returns a Storage for the given directory.
// Returns error if .storefront/ does not exist.
func Open(dir string, opts ...Option) (*Storage, error) {
	path := filepath.Join(dir, dataDir)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".storefront/ directory not found in %s (run 'storefront init')", dir)
		}
		return nil, fmt.Errorf("failed to access .storefront/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".storefront is not a directory")
	}

	cfg, err := readStorageConfig(filepath.Join(path, configFile))
	if err != nil {
		return nil, err
	}

	store, err := openBackend(path, cfg.Backend)
	if err != nil {
		return nil, err
	}
	return newStorage(dir, cfg.Backend, store, opts), nil
}

// Init creates .storefront/ with the chosen backend.
// Returns error if .storefront/ already exists.
func Init(dir string, backend Backend, opts ...Option) (*Storage, error) {
	path := filepath.Join(dir, dataDir)

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf(".storefront/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .storefront/: %w", err)
	}

	if backend == "" {
		backend = BackendFile
	}
	if backend != BackendFile && backend != BackendSQLite {
		return nil, fmt.Errorf("backend %q cannot be used for a workspace", backend)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .storefront/: %w", err)
	}

	cfg := StorageConfig{Version: storageVersion, Backend: backend}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		os.RemoveAll(path)
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, configFile), cfgData, 0644); err != nil {
		os.RemoveAll(path)
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	store, err := openBackend(path, backend)
	if err != nil {
		// Clean up on failure
		os.RemoveAll(path)
		return nil, err
	}
	return newStorage(dir, backend, store, opts), nil
}

func readStorageConfig(path string) (*StorageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}
	var cfg StorageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
	}
	if cfg.Version > storageVersion {
		return nil, fmt.Errorf("config.yaml version %d is newer than supported version %d", cfg.Version, storageVersion)
	}
	backend, err := ParseBackend(string(cfg.Backend))
	if err != nil {
		return nil, fmt.Errorf("config.yaml: %w", err)
	}
	cfg.Backend = backend
	return &cfg, nil
}

func openBackend(path string, backend Backend) (kv.Store, error) {
	switch backend {
	case BackendSQLite:
		return kv.OpenSQLite(filepath.Join(path, dbFile))
	default:
		return kv.OpenFile(filepath.Join(path, kvDir))
	}
}

// Root returns the root directory containing .storefront/.
func (s *Storage) Root() string {
	return s.root
}

// DataPath returns the path to the .storefront/ directory, or "" for an
// in-memory store.
func (s *Storage) DataPath() string {
	if s.root == "" {
		return ""
	}
	return filepath.Join(s.root, dataDir)
}

// Backend returns the key-value backend in use.
func (s *Storage) Backend() Backend {
	return s.backend
}

// Logger returns the logger the store reports recovery through.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

// Keys lists every key in the backing store.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	return s.kv.Keys(ctx)
}

// Close releases the backing store.
func (s *Storage) Close() error {
	return s.kv.Close()
}

// LoggedIn reports the persisted login flag. A missing flag means logged out.
func (s *Storage) LoggedIn(ctx context.Context) (bool, error) {
	v, ok, err := s.kv.GetItem(ctx, model.KeyLogin)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// SetLoggedIn persists the login flag as "true" or "false".
func (s *Storage) SetLoggedIn(ctx context.Context, loggedIn bool) error {
	v := "false"
	if loggedIn {
		v = "true"
	}
	return s.kv.SetItem(ctx, model.KeyLogin, v)
}

// lockKey serializes mutations per key. The returned func releases the
// lock. Waiting honours ctx cancellation.
func (s *Storage) lockKey(ctx context.Context, key string) (func(), error) {
	s.locksMu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
