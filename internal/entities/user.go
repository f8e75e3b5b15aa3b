package entities

import "time"

type User struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	PassHash  []byte    `db:"pass_hash"`
	CreatedAt time.Time `db:"created_at"`
}
