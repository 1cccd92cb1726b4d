package models

import "time"

// ReportTimeLayout is the layout of timestamps in report entries
const ReportTimeLayout = "2006-01-02 15:04:05"

// ActiveUserRow is one row of the users/site roles/organizations outer join.
// A user with several roles and organizations appears once per combination.
type ActiveUserRow struct {
	ID           int
	Username     string
	FirstName    string
	LastName     string
	Email        string
	SiteRole     *string
	Organization *string
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
	IsActive     bool
}

// UserReportEntry is a flattened report row
type UserReportEntry struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	SiteRole     *string `json:"site_role"`
	Organization *string `json:"organization"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
	IsActive     bool    `json:"is_active"`
}

// UserReportItem is a per-user report row with roles and organizations aggregated
type UserReportItem struct {
	ID            int      `json:"id"`
	Username      string   `json:"username"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         string   `json:"email"`
	SiteRoles     []string `json:"site_roles"`
	Organizations []string `json:"organizations"`
	CreatedAt     *string  `json:"created_at"`
	UpdatedAt     *string  `json:"updated_at"`
	IsActive      bool     `json:"is_active"`
}

// FormatReportTime formats t with ReportTimeLayout, nil stays nil
func FormatReportTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(ReportTimeLayout)
	return &formatted
}
