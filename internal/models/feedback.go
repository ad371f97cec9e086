package models

import "time"

// FeedbackStatus tracks the moderation state of a feedback record.
type FeedbackStatus string

const (
	StatusPending  FeedbackStatus = "pending"
	StatusApproved FeedbackStatus = "approved"
	StatusRejected FeedbackStatus = "rejected"
)

// ValidFeedbackStatus reports whether the value is a known moderation state.
func ValidFeedbackStatus(s FeedbackStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Feedback is a single rating record against a professor, discipline or
// facility. Rating columns are nullable; only the subset required by the
// target type is ever populated, so SQL averages naturally skip the rest.
type Feedback struct {
	ID                      string         `db:"id" json:"id"`
	TargetType              TargetType     `db:"target_type" json:"target_type"`
	TargetID                string         `db:"target_id" json:"target_id"`
	AuthorID                string         `db:"author_id" json:"-"`
	IsAnonymous             bool           `db:"is_anonymous" json:"is_anonymous"`
	TeachingQuality         *int           `db:"teaching_quality" json:"-"`
	Clarity                 *int           `db:"clarity" json:"-"`
	InfrastructureCondition *int           `db:"infrastructure_condition" json:"-"`
	Comment                 string         `db:"comment" json:"comment"`
	Semester                string         `db:"semester" json:"semester"`
	AcademicYear            int            `db:"academic_year" json:"academic_year"`
	Status                  FeedbackStatus `db:"status" json:"status"`
	CreatedAt               time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time      `db:"updated_at" json:"updated_at"`
}

// FeedbackAuthor is the author block of a feedback response. UserID is
// omitted entirely for anonymous records.
type FeedbackAuthor struct {
	UserID      string `json:"user_id,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// FeedbackRatings is the sparse ratings block of a feedback response.
type FeedbackRatings struct {
	TeachingQuality         *int `json:"teaching_quality,omitempty"`
	Clarity                 *int `json:"clarity,omitempty"`
	InfrastructureCondition *int `json:"infrastructure_condition,omitempty"`
}

// FeedbackMetadata carries the term information of a feedback record.
type FeedbackMetadata struct {
	Semester     string `json:"semester"`
	AcademicYear int    `json:"academic_year"`
}

// FeedbackResponse is the read-path shape of a feedback record. Building it
// through NewFeedbackResponse is the only way author identity reaches a
// caller, which keeps the anonymization rule in one place.
type FeedbackResponse struct {
	ID         string           `json:"id"`
	TargetType TargetType       `json:"target_type"`
	TargetID   string           `json:"target_id"`
	Author     FeedbackAuthor   `json:"author"`
	Ratings    FeedbackRatings  `json:"ratings"`
	Comment    string           `json:"comment"`
	Metadata   FeedbackMetadata `json:"metadata"`
	Status     FeedbackStatus   `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewFeedbackResponse converts a stored record into its response shape,
// stripping the author identity when the record is anonymous. Anonymity
// affects presentation only; ownership checks always run against the
// stored author id.
func NewFeedbackResponse(f *Feedback) FeedbackResponse {
	resp := FeedbackResponse{
		ID:         f.ID,
		TargetType: f.TargetType,
		TargetID:   f.TargetID,
		Author:     FeedbackAuthor{IsAnonymous: f.IsAnonymous},
		Ratings: FeedbackRatings{
			TeachingQuality:         f.TeachingQuality,
			Clarity:                 f.Clarity,
			InfrastructureCondition: f.InfrastructureCondition,
		},
		Comment:   f.Comment,
		Metadata:  FeedbackMetadata{Semester: f.Semester, AcademicYear: f.AcademicYear},
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if !f.IsAnonymous {
		resp.Author.UserID = f.AuthorID
	}
	return resp
}

// SubmitFeedbackRequest holds the payload for submitting feedback. Field
// rules depend on the target type, so the service validates the whole
// payload itself and reports every failing field at once.
type SubmitFeedbackRequest struct {
	TargetType   TargetType      `json:"target_type"`
	TargetID     string          `json:"target_id"`
	IsAnonymous  bool            `json:"is_anonymous"`
	Ratings      FeedbackRatings `json:"ratings"`
	Comment      string          `json:"comment"`
	Semester     string          `json:"semester"`
	AcademicYear int             `json:"academic_year"`
}

// ModerateFeedbackRequest holds the payload for the moderation endpoint.
type ModerateFeedbackRequest struct {
	Status FeedbackStatus `json:"status" validate:"required"`
}

// FeedbackFilter captures the list endpoint's filtering options.
type FeedbackFilter struct {
	TargetType *TargetType
	TargetID   string
	Status     *FeedbackStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

// FeedbackKey identifies the scope of the one-feedback-per-term rule.
type FeedbackKey struct {
	AuthorID     string
	TargetType   TargetType
	TargetID     string
	Semester     string
	AcademicYear int
}
