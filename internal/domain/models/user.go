package models

import "time"

// User represents a buyer account
type User struct {
	ID        string
	Email     string
	Name      string
	Phone     string
	PassHash  []byte
	Role      string // always "buyer" for this table
	CreatedAt time.Time
}
