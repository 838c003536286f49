package postgres

import "time"

type rubberTableModel struct {
	ID             string    `db:"id"`
	DateCreated    time.Time `db:"date_created"`
	LastModified   time.Time `db:"last_modified"`
	Players        []byte    `db:"players"`
	StartingDealer string    `db:"starting_dealer"`
	History        []byte    `db:"history"`
}
