package models

import "time"

// FacilityKind enumerates the kinds of infrastructure that accept feedback.
type FacilityKind string

const (
	FacilityClassroom  FacilityKind = "classroom"
	FacilityLaboratory FacilityKind = "laboratory"
	FacilityLibrary    FacilityKind = "library"
	FacilityRestroom   FacilityKind = "restroom"
	FacilityCafeteria  FacilityKind = "cafeteria"
	FacilityAuditorium FacilityKind = "auditorium"
	FacilityOther      FacilityKind = "other"
)

// ValidFacilityKind reports whether the value is an enumerated facility kind.
func ValidFacilityKind(kind FacilityKind) bool {
	switch kind {
	case FacilityClassroom, FacilityLaboratory, FacilityLibrary,
		FacilityRestroom, FacilityCafeteria, FacilityAuditorium, FacilityOther:
		return true
	}
	return false
}

// Infrastructure represents a physical facility that can receive feedback.
type Infrastructure struct {
	ID        string       `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Type      FacilityKind `db:"type" json:"type"`
	Location  string       `db:"location" json:"location"`
	Active    bool         `db:"active" json:"active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// InfrastructureRequest holds the payload for creating or updating a facility.
type InfrastructureRequest struct {
	Name     string       `json:"name" validate:"required,min=3,max=100"`
	Type     FacilityKind `json:"type" validate:"required"`
	Location string       `json:"location" validate:"required,min=2,max=100"`
	Active   *bool        `json:"active"`
}

// InfrastructureFilter captures filtering options for listing facilities.
type InfrastructureFilter struct {
	Search   string
	Type     *FacilityKind
	Active   *bool
	Page     int
	PageSize int
}
