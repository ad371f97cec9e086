package models

// TargetType discriminates which entity a feedback record rates.
type TargetType string

const (
	TargetProfessor      TargetType = "professor"
	TargetDiscipline     TargetType = "discipline"
	TargetInfrastructure TargetType = "infrastructure"
)

// targetTables maps each target type to its backing table. Dispatching
// through this table instead of raw strings keeps a typo from silently
// producing an unresolvable reference.
var targetTables = map[TargetType]string{
	TargetProfessor:      "professors",
	TargetDiscipline:     "disciplines",
	TargetInfrastructure: "infrastructure_items",
}

// Valid reports whether the target type is one of the enumerated kinds.
func (t TargetType) Valid() bool {
	_, ok := targetTables[t]
	return ok
}

// Table returns the collection backing this target type.
func (t TargetType) Table() string {
	return targetTables[t]
}

// RatingField names a single numeric rating dimension.
type RatingField string

const (
	RatingTeachingQuality         RatingField = "teachingQuality"
	RatingClarity                 RatingField = "clarity"
	RatingInfrastructureCondition RatingField = "infrastructureCondition"
)

// RequiredRatings returns the rating fields a feedback for this target type
// must carry. Fields outside this set are ignored, never stored.
func (t TargetType) RequiredRatings() []RatingField {
	switch t {
	case TargetProfessor, TargetDiscipline:
		return []RatingField{RatingTeachingQuality, RatingClarity}
	case TargetInfrastructure:
		return []RatingField{RatingInfrastructureCondition}
	default:
		return nil
	}
}
