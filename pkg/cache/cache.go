// Package cache keeps provider responses in a sqlite database so that
// repeated queries for the same session do not hit the network again.
package cache

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"f1duel/log"
)

type entry struct {
	body      []byte
	fetchedAt time.Time
}

type Manager struct {
	db         *sql.DB
	mu         sync.Mutex
	expiration time.Duration
	now        func() time.Time
	logger     *log.Logger
}

// NewManager opens (or creates) the cache database at path. An expiration of
// 0 keeps responses forever.
func NewManager(path string, expiration time.Duration) (*Manager, error) {
	logger := log.Default().Named("cache")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logger.Error("error opening database", log.String("path", path), log.ErrorField(err))
		return nil, errors.Wrap(err, "opening cache database")
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(buildCreateResponsesTable()); err != nil {
		logger.Error("error init database", log.String("path", path), log.ErrorField(err))
		db.Close()
		return nil, errors.Wrap(err, "creating cache table")
	}

	return &Manager{
		db:         db,
		expiration: expiration,
		now:        time.Now,
		logger:     logger,
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// Get returns the cached body for key. Expired entries are reported as missing.
func (m *Manager) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args, read := buildSelectResponseCommand(key)
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, false, errors.Wrap(err, "reading cache")
	}
	e, ok, err := read(rows)
	if err != nil || !ok {
		return nil, false, err
	}
	if m.expiration > 0 && m.now().Sub(e.fetchedAt) > m.expiration {
		m.logger.Debug("cache entry expired", log.String("key", key))
		return nil, false, nil
	}
	return e.body, true, nil
}

func (m *Manager) Put(key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args := buildUpsertResponseCommand(key, body, m.now())
	if _, err := m.db.Exec(query, args...); err != nil {
		return errors.Wrap(err, "writing cache")
	}
	return nil
}

// Purge drops every cached response and returns how many were removed.
func (m *Manager) Purge() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.db.Exec(buildDeleteResponsesCommand())
	if err != nil {
		return 0, errors.Wrap(err, "purging cache")
	}
	return res.RowsAffected()
}
