package service

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/noah-isme/training-registration-api/internal/models"
)

// FilterRegistrations returns the records matching every active criterion, in their original order.
// Empty or "all" categorical values and an empty search match everything.
func FilterRegistrations(records []models.Registration, filter models.RegistrationFilter) []models.Registration {
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(filter.Search))

	out := make([]models.Registration, 0, len(records))
	for _, r := range records {
		if !matchesCategory(filter.Department, string(r.Department)) {
			continue
		}
		if !matchesCategory(filter.Familiarity, string(r.FamiliarityLevel)) {
			continue
		}
		if !matchesCategory(filter.Status, string(r.ApprovalStatus)) {
			continue
		}
		if search != "" &&
			!strings.Contains(fold.String(r.FullName), search) &&
			!strings.Contains(fold.String(r.Email), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesCategory(want, got string) bool {
	return want == "" || want == models.FilterAll || want == got
}

// SummarizeRegistrations counts records by status and department.
func SummarizeRegistrations(records []models.Registration) models.RegistrationStats {
	stats := models.RegistrationStats{
		Total:        len(records),
		ByStatus:     make(map[models.ApprovalStatus]int, len(models.ApprovalStatuses)),
		ByDepartment: make(map[models.Department]int, len(models.Departments)),
	}
	for _, opt := range models.ApprovalStatuses {
		stats.ByStatus[models.ApprovalStatus(opt.Value)] = 0
	}
	for _, opt := range models.Departments {
		stats.ByDepartment[models.Department(opt.Value)] = 0
	}
	for _, r := range records {
		stats.ByStatus[r.ApprovalStatus]++
		stats.ByDepartment[r.Department]++
		if r.NeedsAccessibility {
			stats.NeedsAccess++
		}
	}
	return stats
}
