package settings

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"f1duel/log"
)

type TelegramUser struct {
	ID     string
	Name   string
	ChatID string
}

// Manager stores the Telegram users subscribed to shared duels.
type Manager struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *log.Logger
}

func NewManager(path string) (*Manager, error) {
	logger := log.Default().Named("settings")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logger.Error("error opening database", log.String("path", path), log.ErrorField(err))
		return nil, errors.Wrap(err, "opening settings database")
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(buildCreateSubscribersTable())
	if err != nil {
		logger.Error("error init database", log.String("path", path), log.ErrorField(err))
		db.Close()
		return nil, errors.Wrap(err, "creating subscribers table")
	}

	return &Manager{
		db:     db,
		logger: logger,
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

func (m *Manager) Subscribe(user TelegramUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args := buildUpsertSubscriberCommand(user)
	if _, err := m.db.Exec(query, args...); err != nil {
		m.logger.Error("error updating database", log.String("user", user.ID), log.ErrorField(err))
		return errors.Wrap(err, "subscribing")
	}
	return nil
}

// Unsubscribe reports whether the user was subscribed.
func (m *Manager) Unsubscribe(userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args := buildDeleteSubscriberCommand(userID)
	res, err := m.db.Exec(query, args...)
	if err != nil {
		return false, errors.Wrap(err, "unsubscribing")
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (m *Manager) IsSubscribed(userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args, read := buildSelectSubscriberCommand(userID)
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return false, err
	}
	return read(rows)
}

func (m *Manager) ListSubscribers() ([]TelegramUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, read := buildSelectSubscribersCommand()
	rows, err := m.db.Query(query)
	if err != nil {
		return []TelegramUser{}, err
	}
	return read(rows)
}
