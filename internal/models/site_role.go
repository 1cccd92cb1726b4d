package models

// SiteRole represents one site role assignment of a user
type SiteRole struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id"`
	SiteRole string `json:"site_role"`
}

// CreateSiteRoleRequest represents a request to assign a site role
type CreateSiteRoleRequest struct {
	UserID   int    `json:"user_id"`
	SiteRole string `json:"site_role" validate:"required,max=255"`
}
