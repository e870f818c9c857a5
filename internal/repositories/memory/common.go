package memory

import (
	"sort"

	"github.com/securelife/insurance-backend/internal/models"
)

func sortedStatusRows(byStatus map[string]*models.StatusBreakdown) []models.StatusBreakdown {
	rows := make([]models.StatusBreakdown, 0, len(byStatus))
	for _, row := range byStatus {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

func sortedTypeRows(byType map[string]*models.TypeBreakdown) []models.TypeBreakdown {
	rows := make([]models.TypeBreakdown, 0, len(byType))
	for _, row := range byType {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

func sortedTrend(points map[[2]int]*models.MonthlyTrendPoint) []models.MonthlyTrendPoint {
	rows := make([]models.MonthlyTrendPoint, 0, len(points))
	for _, row := range points {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}
