package settings

import (
	"database/sql"
)

func buildCreateSubscribersTable() string {
	return `CREATE TABLE IF NOT EXISTS subscribers (
		userid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		chatid TEXT NOT NULL);`
}

func buildUpsertSubscriberCommand(user TelegramUser) (string, []any) {
	return `INSERT OR REPLACE INTO subscribers (userid, name, chatid) VALUES (?, ?, ?)`,
		[]any{user.ID, user.Name, user.ChatID}
}

func buildDeleteSubscriberCommand(userID string) (string, []any) {
	return `DELETE FROM subscribers WHERE userid = ?`, []any{userID}
}

func buildSelectSubscriberCommand(userID string) (string, []any, func(*sql.Rows) (bool, error)) {
	return `SELECT userid FROM subscribers WHERE userid = ?`, []any{userID}, processSelectSubscriberRows
}

func processSelectSubscriberRows(rows *sql.Rows) (bool, error) {
	defer rows.Close()

	if rows.Next() {
		return true, nil
	}
	return false, rows.Err()
}

func buildSelectSubscribersCommand() (string, func(rows *sql.Rows) ([]TelegramUser, error)) {
	return `SELECT userid, name, chatid FROM subscribers ORDER BY userid`, processSelectSubscribersRows
}

func processSelectSubscribersRows(rows *sql.Rows) ([]TelegramUser, error) {
	defer rows.Close()

	users := make([]TelegramUser, 0)
	for rows.Next() {
		var id string
		var name string
		var chatid string
		err := rows.Scan(&id, &name, &chatid)
		if err != nil {
			return users, err
		}
		users = append(users, TelegramUser{
			ID:     id,
			Name:   name,
			ChatID: chatid,
		})
	}
	return users, rows.Err()
}
