package storage

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/example/mediride/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) SaveEvent(ev *models.BookingEvent) error {
	_, err := p.db.Exec(`INSERT INTO booking_events(type, booking_id, bid_id, role, amount, at) VALUES($1,$2,$3,$4,$5,$6)`,
		ev.Type, ev.BookingID, ev.BidID, string(ev.Role), ev.Amount, ev.At)
	return err
}

func (p *PostgresStore) Close() error { return p.db.Close() }
