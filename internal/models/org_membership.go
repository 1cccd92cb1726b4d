package models

// OrgMembership represents a user's membership in an organization
type OrgMembership struct {
	ID      int     `json:"id"`
	UserID  int     `json:"user_id"`
	OrgName string  `json:"org_name"`
	OrgRole *string `json:"org_role"`
}

// CreateOrgMembershipRequest represents a request to add an organization membership
type CreateOrgMembershipRequest struct {
	UserID  int     `json:"user_id"`
	OrgName string  `json:"org_name" validate:"required,max=255"`
	OrgRole *string `json:"org_role,omitempty" validate:"omitempty,max=255"`
}
