package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

const (
	defaultRankingLimit = 10
	maxRankingLimit     = 100
)

type statsRepository interface {
	StatsByTargetType(ctx context.Context, targetType *models.TargetType) ([]models.TargetTypeStats, error)
	StatsBySemester(ctx context.Context, academicYear *int, targetType *models.TargetType) ([]models.SemesterStats, error)
	RankingGroups(ctx context.Context, targetType models.TargetType) ([]models.RankingGroup, error)
}

type professorLookup interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Professor, error)
}

type disciplineLookup interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Discipline, error)
}

// StatsService computes aggregate statistics and rankings over approved
// feedback. The grouping and averaging run in SQL; the composite score,
// cutoff and ordering are applied here.
type StatsService struct {
	repo        statsRepository
	professors  professorLookup
	disciplines disciplineLookup
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewStatsService constructs a StatsService instance.
func NewStatsService(repo statsRepository, professors professorLookup, disciplines disciplineLookup, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, professors: professors, disciplines: disciplines, cache: cache, metrics: metrics, logger: logger}
}

// ByTargetType returns per-target-type averages over approved feedback,
// optionally restricted to a single type.
func (s *StatsService) ByTargetType(ctx context.Context, targetType *models.TargetType) ([]models.TargetTypeStats, error) {
	if targetType != nil && !targetType.Valid() {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "target_type", Message: "must be professor, discipline or infrastructure"}})
	}

	key := "stats:types:all"
	if targetType != nil {
		key = "stats:types:" + string(*targetType)
	}

	var cached []models.TargetTypeStats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	start := time.Now()
	stats, err := s.repo.StatsByTargetType(ctx, targetType)
	s.observeQuery("stats_by_target_type", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAggregationFailed.Code, appErrors.ErrAggregationFailed.Status, appErrors.ErrAggregationFailed.Message)
	}

	_ = s.cache.Set(ctx, key, stats, 0)
	return stats, nil
}

// BySemester returns per-semester averages over approved feedback, newest
// semester first.
func (s *StatsService) BySemester(ctx context.Context, academicYear *int, targetType *models.TargetType) ([]models.SemesterStats, error) {
	if targetType != nil && !targetType.Valid() {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "target_type", Message: "must be professor, discipline or infrastructure"}})
	}

	key := "stats:semesters:all:all"
	if academicYear != nil || targetType != nil {
		year, kind := "all", "all"
		if academicYear != nil {
			year = fmt.Sprintf("%d", *academicYear)
		}
		if targetType != nil {
			kind = string(*targetType)
		}
		key = fmt.Sprintf("stats:semesters:%s:%s", year, kind)
	}

	var cached []models.SemesterStats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	start := time.Now()
	stats, err := s.repo.StatsBySemester(ctx, academicYear, targetType)
	s.observeQuery("stats_by_semester", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAggregationFailed.Code, appErrors.ErrAggregationFailed.Status, appErrors.ErrAggregationFailed.Message)
	}

	_ = s.cache.Set(ctx, key, stats, 0)
	return stats, nil
}

// Ranking orders targets of a type by composite score. The composite is the
// mean of both quality averages with a missing average counted as zero, so a
// target rated on a single dimension scores lower than one rated on both.
// Targets below minFeedbacks are dropped before sorting; ties keep their
// per-group base order.
func (s *StatsService) Ranking(ctx context.Context, targetType models.TargetType, limit, minFeedbacks int) ([]models.RankingEntry, error) {
	if !targetType.Valid() {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "target_type", Message: "must be professor, discipline or infrastructure"}})
	}
	if limit <= 0 || limit > maxRankingLimit {
		limit = defaultRankingLimit
	}
	if minFeedbacks < 1 {
		minFeedbacks = 1
	}

	key := fmt.Sprintf("stats:ranking:%s:%d:%d", targetType, limit, minFeedbacks)
	var cached []models.RankingEntry
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	start := time.Now()
	groups, err := s.repo.RankingGroups(ctx, targetType)
	s.observeQuery("ranking_groups", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAggregationFailed.Code, appErrors.ErrAggregationFailed.Status, appErrors.ErrAggregationFailed.Message)
	}

	entries := make([]models.RankingEntry, 0, len(groups))
	for _, group := range groups {
		if group.TotalFeedbacks < minFeedbacks {
			continue
		}
		entries = append(entries, models.RankingEntry{
			TargetID:           group.TargetID,
			AvgTeachingQuality: group.AvgTeachingQuality,
			AvgClarity:         group.AvgClarity,
			TotalFeedbacks:     group.TotalFeedbacks,
			OverallRating:      compositeScore(group.AvgTeachingQuality, group.AvgClarity),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OverallRating > entries[j].OverallRating
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	if err := s.attachTargetInfo(ctx, targetType, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAggregationFailed.Code, appErrors.ErrAggregationFailed.Status, appErrors.ErrAggregationFailed.Message)
	}

	_ = s.cache.Set(ctx, key, entries, 0)
	return entries, nil
}

// attachTargetInfo resolves the names of the ranked targets. Infrastructure
// has no lookup entry, so its entries keep an empty target info block.
func (s *StatsService) attachTargetInfo(ctx context.Context, targetType models.TargetType, entries []models.RankingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.TargetID)
	}

	switch targetType {
	case models.TargetProfessor:
		professors, err := s.professors.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for i := range entries {
			if p, ok := professors[entries[i].TargetID]; ok {
				entries[i].TargetInfo = models.TargetInfo{ID: p.ID, Name: p.Name}
			}
		}
	case models.TargetDiscipline:
		disciplines, err := s.disciplines.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for i := range entries {
			if d, ok := disciplines[entries[i].TargetID]; ok {
				entries[i].TargetInfo = models.TargetInfo{ID: d.ID, Name: d.Name, Department: d.Department}
			}
		}
	}

	return nil
}

func (s *StatsService) observeQuery(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

// compositeScore averages the two quality dimensions, counting a missing
// average as zero rather than skipping it.
func compositeScore(teachingQuality, clarity *float64) float64 {
	var tq, cl float64
	if teachingQuality != nil {
		tq = *teachingQuality
	}
	if clarity != nil {
		cl = *clarity
	}
	return (tq + cl) / 2
}
