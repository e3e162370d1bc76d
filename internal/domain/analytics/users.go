package analytics

import "github.com/propertyease/propertyease/internal/infrastructure/database/models"

type RoleBreakdown struct {
	Owners  int `json:"owners"`
	Tenants int `json:"tenants"`
	Admins  int `json:"admins"`
}

type UserMetrics struct {
	Total        int           `json:"total"`
	Active       int           `json:"active"`
	NewThisMonth int           `json:"newThisMonth"`
	Growth       float64       `json:"growth"`
	Breakdown    RoleBreakdown `json:"breakdown"`
}

// CalculateUsers counts headcount over all users and sign-ups per window.
// The role breakdown is a snapshot of every user, not of the window.
func CalculateUsers(users Partition[models.User]) UserMetrics {
	m := UserMetrics{
		Total:        len(users.All),
		NewThisMonth: len(users.Current),
		Growth:       growthCount(len(users.Current), len(users.Previous)),
	}

	for _, u := range users.All {
		if u.IsActive {
			m.Active++
		}
		switch u.Role {
		case models.UserRoleOwner:
			m.Breakdown.Owners++
		case models.UserRoleTenant:
			m.Breakdown.Tenants++
		case models.UserRoleAdmin:
			m.Breakdown.Admins++
		}
	}

	return m
}
