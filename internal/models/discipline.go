package models

import (
	"time"

	"github.com/lib/pq"
)

// Discipline represents a course unit offered by a department.
type Discipline struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Department string         `db:"department" json:"department"`
	Courses    pq.StringArray `db:"courses" json:"courses"`
	Professors pq.StringArray `db:"professors" json:"professors"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// DisciplineRequest holds the payload for creating or updating a discipline.
type DisciplineRequest struct {
	Name       string   `json:"name" validate:"required,min=3,max=100"`
	Department string   `json:"department" validate:"required,min=2,max=100"`
	Courses    []string `json:"courses"`
	Professors []string `json:"professors"`
}

// DisciplineFilter captures filtering options for listing disciplines.
type DisciplineFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
}
