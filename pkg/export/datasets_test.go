package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fatimapsp/unex-escuta/internal/models"
)

func avg(v float64) *float64 { return &v }

func TestTargetTypeStatsDataset(t *testing.T) {
	stats := []models.TargetTypeStats{
		{TargetType: models.TargetProfessor, AvgTeachingQuality: avg(4.25), AvgClarity: avg(3.5), TotalFeedbacks: 12},
		{TargetType: models.TargetInfrastructure, AvgInfrastructureCondition: avg(2.75), TotalFeedbacks: 4},
	}

	dataset := TargetTypeStatsDataset(stats)
	require.Len(t, dataset.Rows, 2)

	assert.Equal(t, "professor", dataset.Rows[0]["Target Type"])
	assert.Equal(t, "4.25", dataset.Rows[0]["Avg Teaching Quality"])
	// Dimensions the type never collects render as a dash.
	assert.Equal(t, "-", dataset.Rows[0]["Avg Infrastructure"])
	assert.Equal(t, "-", dataset.Rows[1]["Avg Teaching Quality"])
	assert.Equal(t, "2.75", dataset.Rows[1]["Avg Infrastructure"])

	payload, err := NewCSVExporter().Render(dataset)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(dataset.Headers, ","), lines[0])
}

func TestRankingDatasetFallsBackToTargetID(t *testing.T) {
	entries := []models.RankingEntry{
		{TargetID: "prof-1", TargetInfo: models.TargetInfo{Name: "Ana"}, OverallRating: 4.5, TotalFeedbacks: 3},
		{TargetID: "lab-1", OverallRating: 3, TotalFeedbacks: 2},
	}

	dataset := RankingDataset(entries)
	require.Len(t, dataset.Rows, 2)

	assert.Equal(t, "1", dataset.Rows[0]["Position"])
	assert.Equal(t, "Ana", dataset.Rows[0]["Target"])
	assert.Equal(t, "lab-1", dataset.Rows[1]["Target"])
	assert.Equal(t, "4.50", dataset.Rows[0]["Overall"])
}
