package models

// TargetTypeStats aggregates approved feedback per target type. Averages
// are nil when no record in the group carries the corresponding rating;
// they are never zero-filled.
type TargetTypeStats struct {
	TargetType                 TargetType `db:"target_type" json:"target_type"`
	AvgTeachingQuality         *float64   `db:"avg_teaching_quality" json:"avg_teaching_quality"`
	AvgClarity                 *float64   `db:"avg_clarity" json:"avg_clarity"`
	AvgInfrastructureCondition *float64   `db:"avg_infrastructure_condition" json:"avg_infrastructure_condition"`
	TotalFeedbacks             int        `db:"total_feedbacks" json:"total_feedbacks"`
}

// SemesterStats aggregates approved feedback per (semester, target type).
type SemesterStats struct {
	Semester                   string     `db:"semester" json:"semester"`
	TargetType                 TargetType `db:"target_type" json:"target_type"`
	AvgTeachingQuality         *float64   `db:"avg_teaching_quality" json:"avg_teaching_quality"`
	AvgClarity                 *float64   `db:"avg_clarity" json:"avg_clarity"`
	AvgInfrastructureCondition *float64   `db:"avg_infrastructure_condition" json:"avg_infrastructure_condition"`
	TotalFeedbacks             int        `db:"total_feedbacks" json:"total_feedbacks"`
}

// RankingGroup is one per-target aggregation row feeding the ranking.
type RankingGroup struct {
	TargetID           string   `db:"target_id"`
	AvgTeachingQuality *float64 `db:"avg_teaching_quality"`
	AvgClarity         *float64 `db:"avg_clarity"`
	TotalFeedbacks     int      `db:"total_feedbacks"`
}

// TargetInfo is the resolved identity of a ranked target. Empty for target
// types without a lookup entry.
type TargetInfo struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
}

// RankingEntry is one position in the ranking output.
type RankingEntry struct {
	TargetID           string     `json:"target_id"`
	AvgTeachingQuality *float64   `json:"avg_teaching_quality"`
	AvgClarity         *float64   `json:"avg_clarity"`
	TotalFeedbacks     int        `json:"total_feedbacks"`
	OverallRating      float64    `json:"overall_rating"`
	TargetInfo         TargetInfo `json:"target_info"`
}
