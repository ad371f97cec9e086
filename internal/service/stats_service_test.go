package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

type mockStatsRepo struct {
	typeStats     []models.TargetTypeStats
	semesterStats []models.SemesterStats
	groups        []models.RankingGroup
	err           error
}

func (m *mockStatsRepo) StatsByTargetType(ctx context.Context, targetType *models.TargetType) ([]models.TargetTypeStats, error) {
	return m.typeStats, m.err
}

func (m *mockStatsRepo) StatsBySemester(ctx context.Context, academicYear *int, targetType *models.TargetType) ([]models.SemesterStats, error) {
	return m.semesterStats, m.err
}

func (m *mockStatsRepo) RankingGroups(ctx context.Context, targetType models.TargetType) ([]models.RankingGroup, error) {
	return m.groups, m.err
}

type mockProfessorLookup struct {
	items map[string]models.Professor
}

func (m *mockProfessorLookup) FindByIDs(ctx context.Context, ids []string) (map[string]models.Professor, error) {
	return m.items, nil
}

type mockDisciplineLookup struct {
	items map[string]models.Discipline
}

func (m *mockDisciplineLookup) FindByIDs(ctx context.Context, ids []string) (map[string]models.Discipline, error) {
	return m.items, nil
}

func floatPtr(v float64) *float64 { return &v }

func newStatsService(repo *mockStatsRepo, professors *mockProfessorLookup, disciplines *mockDisciplineLookup) *StatsService {
	if professors == nil {
		professors = &mockProfessorLookup{}
	}
	if disciplines == nil {
		disciplines = &mockDisciplineLookup{}
	}
	return NewStatsService(repo, professors, disciplines, nil, nil, zap.NewNop())
}

func TestRankingCompositeScore(t *testing.T) {
	repo := &mockStatsRepo{groups: []models.RankingGroup{
		{TargetID: "prof-1", AvgTeachingQuality: floatPtr(4), AvgClarity: floatPtr(5), TotalFeedbacks: 2},
	}}
	svc := newStatsService(repo, &mockProfessorLookup{items: map[string]models.Professor{
		"prof-1": {ID: "prof-1", Name: "Ana"},
	}}, nil)

	entries, err := svc.Ranking(context.Background(), models.TargetProfessor, 10, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.InDelta(t, 4.5, entries[0].OverallRating, 0.0001)
	assert.Equal(t, 2, entries[0].TotalFeedbacks)
	assert.Equal(t, "Ana", entries[0].TargetInfo.Name)
}

func TestRankingMissingDimensionCountsAsZero(t *testing.T) {
	repo := &mockStatsRepo{groups: []models.RankingGroup{
		{TargetID: "prof-1", AvgTeachingQuality: floatPtr(4), TotalFeedbacks: 3},
		{TargetID: "prof-2", AvgTeachingQuality: floatPtr(3), AvgClarity: floatPtr(3), TotalFeedbacks: 3},
	}}
	svc := newStatsService(repo, &mockProfessorLookup{}, nil)

	entries, err := svc.Ranking(context.Background(), models.TargetProfessor, 10, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// 4/2 = 2.0 loses to (3+3)/2 = 3.0 even though its present average is higher.
	assert.Equal(t, "prof-2", entries[0].TargetID)
	assert.InDelta(t, 3.0, entries[0].OverallRating, 0.0001)
	assert.Equal(t, "prof-1", entries[1].TargetID)
	assert.InDelta(t, 2.0, entries[1].OverallRating, 0.0001)
}

func TestRankingMinFeedbacksCutoff(t *testing.T) {
	repo := &mockStatsRepo{groups: []models.RankingGroup{
		{TargetID: "prof-1", AvgTeachingQuality: floatPtr(5), AvgClarity: floatPtr(5), TotalFeedbacks: 1},
		{TargetID: "prof-2", AvgTeachingQuality: floatPtr(3), AvgClarity: floatPtr(3), TotalFeedbacks: 4},
	}}
	svc := newStatsService(repo, &mockProfessorLookup{}, nil)

	entries, err := svc.Ranking(context.Background(), models.TargetProfessor, 10, 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prof-2", entries[0].TargetID)
}

func TestRankingLimitTruncation(t *testing.T) {
	groups := make([]models.RankingGroup, 0, 5)
	for i := 0; i < 5; i++ {
		groups = append(groups, models.RankingGroup{
			TargetID:           string(rune('a' + i)),
			AvgTeachingQuality: floatPtr(float64(i + 1)),
			AvgClarity:         floatPtr(float64(i + 1)),
			TotalFeedbacks:     1,
		})
	}
	svc := newStatsService(&mockStatsRepo{groups: groups}, &mockProfessorLookup{}, nil)

	entries, err := svc.Ranking(context.Background(), models.TargetProfessor, 2, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e", entries[0].TargetID)
	assert.Equal(t, "d", entries[1].TargetID)
}

func TestRankingStableOnTies(t *testing.T) {
	repo := &mockStatsRepo{groups: []models.RankingGroup{
		{TargetID: "first", AvgTeachingQuality: floatPtr(4), AvgClarity: floatPtr(4), TotalFeedbacks: 2},
		{TargetID: "second", AvgTeachingQuality: floatPtr(4), AvgClarity: floatPtr(4), TotalFeedbacks: 2},
	}}
	svc := newStatsService(repo, &mockProfessorLookup{}, nil)

	entries, err := svc.Ranking(context.Background(), models.TargetProfessor, 10, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Equal scores keep the repository's base order.
	assert.Equal(t, "first", entries[0].TargetID)
	assert.Equal(t, "second", entries[1].TargetID)
}

func TestRankingInfrastructureHasEmptyTargetInfo(t *testing.T) {
	repo := &mockStatsRepo{groups: []models.RankingGroup{
		{TargetID: "lab-1", AvgTeachingQuality: floatPtr(4), TotalFeedbacks: 2},
	}}
	svc := newStatsService(repo, nil, nil)

	entries, err := svc.Ranking(context.Background(), models.TargetInfrastructure, 10, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TargetInfo{}, entries[0].TargetInfo)
}

func TestRankingRejectsUnknownTargetType(t *testing.T) {
	svc := newStatsService(&mockStatsRepo{}, nil, nil)

	_, err := svc.Ranking(context.Background(), "course", 10, 1)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStatsByTargetTypeKeepsNilAverages(t *testing.T) {
	repo := &mockStatsRepo{typeStats: []models.TargetTypeStats{
		{TargetType: models.TargetProfessor, AvgTeachingQuality: floatPtr(4.2), TotalFeedbacks: 5},
	}}
	svc := newStatsService(repo, nil, nil)

	stats, err := svc.ByTargetType(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Nil(t, stats[0].AvgInfrastructureCondition)
	assert.InDelta(t, 4.2, *stats[0].AvgTeachingQuality, 0.0001)
}

func TestStatsStoreFailureWrapsAggregationError(t *testing.T) {
	repo := &mockStatsRepo{err: errors.New("connection reset")}
	svc := newStatsService(repo, nil, nil)

	_, err := svc.ByTargetType(context.Background(), nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAggregationFailed.Code, appErr.Code)

	_, err = svc.BySemester(context.Background(), nil, nil)
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAggregationFailed.Code, appErr.Code)
}
