package models

import (
	"time"

	"github.com/lib/pq"
)

// UserRole represents the available roles for access control.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleProfessor UserRole = "professor"
	RoleAdmin     UserRole = "admin"
)

// User represents a platform account stored in the users table.
type User struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Registration string         `db:"registration" json:"registration"`
	Role         UserRole       `db:"role" json:"role"`
	Courses      pq.StringArray `db:"courses" json:"courses"`
	Active       bool           `db:"active" json:"active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// UpdateUserRequest holds the payload for updating an account. Role and
// Active are optional and only honored for admin callers.
type UpdateUserRequest struct {
	Name    string    `json:"name" validate:"omitempty,min=3,max=50"`
	Email   string    `json:"email" validate:"omitempty,email"`
	Courses []string  `json:"courses"`
	Role    *UserRole `json:"role" validate:"omitempty,oneof=student professor admin"`
	Active  *bool     `json:"active"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// NewPagination derives page metadata from a total row count.
func NewPagination(page, size, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return &Pagination{Page: page, PageSize: size, TotalPages: pages, TotalCount: total}
}
