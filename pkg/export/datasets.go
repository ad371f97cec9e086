package export

import (
	"fmt"
	"strconv"

	"github.com/Fatimapsp/unex-escuta/internal/models"
)

// RankingDataset converts ranking entries into a tabular dataset.
func RankingDataset(entries []models.RankingEntry) Dataset {
	headers := []string{"Position", "Target", "Avg Teaching Quality", "Avg Clarity", "Overall", "Feedbacks"}
	rows := make([]map[string]string, 0, len(entries))
	for i, entry := range entries {
		name := entry.TargetInfo.Name
		if name == "" {
			name = entry.TargetID
		}
		rows = append(rows, map[string]string{
			"Position":             strconv.Itoa(i + 1),
			"Target":               name,
			"Avg Teaching Quality": formatAvg(entry.AvgTeachingQuality),
			"Avg Clarity":          formatAvg(entry.AvgClarity),
			"Overall":              fmt.Sprintf("%.2f", entry.OverallRating),
			"Feedbacks":            strconv.Itoa(entry.TotalFeedbacks),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

// TargetTypeStatsDataset converts per-type statistics into a tabular dataset.
func TargetTypeStatsDataset(stats []models.TargetTypeStats) Dataset {
	headers := []string{"Target Type", "Avg Teaching Quality", "Avg Clarity", "Avg Infrastructure", "Feedbacks"}
	rows := make([]map[string]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, map[string]string{
			"Target Type":          string(s.TargetType),
			"Avg Teaching Quality": formatAvg(s.AvgTeachingQuality),
			"Avg Clarity":          formatAvg(s.AvgClarity),
			"Avg Infrastructure":   formatAvg(s.AvgInfrastructureCondition),
			"Feedbacks":            strconv.Itoa(s.TotalFeedbacks),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

func formatAvg(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
