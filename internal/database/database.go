package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open открывает пул соединений; реальное подключение проверяем через Ping.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
