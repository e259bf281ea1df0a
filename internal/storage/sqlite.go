package storage

import (
	"database/sql"
	"fmt"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// DateLayout is the on-disk format of the date column.
const DateLayout = "2006-01-02"

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

type Store struct{ db DB }

// DailyClose is one row of the closes table.
type DailyClose struct {
	Date  string // DateLayout
	Close float64
}

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS closes(
		symbol TEXT NOT NULL, date TEXT NOT NULL, close REAL NOT NULL,
		PRIMARY KEY(symbol, date)
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// SaveCloses upserts the closes of a symbol.
func (s *Store) SaveCloses(symbol string, closes []DailyClose) error {
	for _, c := range closes {
		_, err := s.db.Exec(`INSERT INTO closes(symbol,date,close) VALUES(?,?,?)
			ON CONFLICT(symbol,date) DO UPDATE SET close=excluded.close`,
			symbol, c.Date, c.Close)
		if err != nil {
			return fmt.Errorf("save close %s %s: %w", symbol, c.Date, err)
		}
	}
	return nil
}

// FetchCloses returns the closes of symbol between from and to (inclusive, DateLayout), ascending.
func (s *Store) FetchCloses(symbol, from, to string) ([]DailyClose, error) {
	rows, err := s.db.Query(`SELECT date, close FROM closes WHERE symbol=? AND date>=? AND date<=? ORDER BY date ASC`,
		symbol, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DailyClose
	for rows.Next() {
		var c DailyClose
		if err := rows.Scan(&c.Date, &c.Close); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// HasSymbol reports whether any close is stored for symbol.
func (s *Store) HasSymbol(symbol string) (bool, error) {
	rows, err := s.db.Query(`SELECT 1 FROM closes WHERE symbol=? LIMIT 1`, symbol)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}
