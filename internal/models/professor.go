package models

import (
	"time"

	"github.com/lib/pq"
)

// Professor represents an instructor that can receive feedback.
type Professor struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Courses     pq.StringArray `db:"courses" json:"courses"`
	Disciplines pq.StringArray `db:"disciplines" json:"disciplines"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ProfessorRequest holds the payload for creating or updating a professor.
type ProfessorRequest struct {
	Name        string   `json:"name" validate:"required,min=3,max=100"`
	Courses     []string `json:"courses"`
	Disciplines []string `json:"disciplines"`
}

// ProfessorFilter captures filtering options for listing professors.
type ProfessorFilter struct {
	Search   string
	Course   string
	Page     int
	PageSize int
}
