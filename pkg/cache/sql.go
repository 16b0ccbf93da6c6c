package cache

import (
	"database/sql"
	"time"
)

func buildCreateResponsesTable() string {
	return `CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		fetched_at INTEGER NOT NULL);`
}

func buildSelectResponseCommand(key string) (string, []any, func(*sql.Rows) (entry, bool, error)) {
	return `SELECT body, fetched_at FROM responses WHERE key = ?`, []any{key}, processSelectResponseRows
}

func processSelectResponseRows(rows *sql.Rows) (entry, bool, error) {
	defer rows.Close()

	// only can be one row
	if rows.Next() {
		var body []byte
		var fetchedAt int64
		if err := rows.Scan(&body, &fetchedAt); err != nil {
			return entry{}, false, err
		}
		return entry{body: body, fetchedAt: time.Unix(fetchedAt, 0)}, true, nil
	}
	return entry{}, false, rows.Err()
}

func buildUpsertResponseCommand(key string, body []byte, fetchedAt time.Time) (string, []any) {
	return `INSERT OR REPLACE INTO responses (key, body, fetched_at) VALUES (?, ?, ?)`,
		[]any{key, body, fetchedAt.Unix()}
}

func buildDeleteResponsesCommand() string {
	return `DELETE FROM responses`
}
