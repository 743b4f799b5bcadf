package repository

import "time"

// Ruler represents a rulers row: the last committed value of a named picker.
type Ruler struct {
	ID        string
	Name      string
	Value     float64
	UpdatedAt time.Time
}
