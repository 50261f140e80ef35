package project

import (
	"time"

	"github.com/taskboard-app/taskboard/internal"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
)

type CreateProjectDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (d CreateProjectDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Name) > 255 {
		return internal.NewValidationError("name must be at most 255 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateProjectDTO mutates metadata only; activation has its own endpoint
// and ownership is never reassigned through the API.
type UpdateProjectDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (d UpdateProjectDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type SetActiveDTO struct {
	IsActive bool `json:"is_active"`
}

type AddMemberDTO struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (d AddMemberDTO) Validate() error {
	if d.UserID == "" {
		return internal.NewValidationError("user_id is required", internal.ErrCodeValidationFailed)
	}
	// the owner role belongs to exactly one row, created with the project
	if d.Role != projectmodel.MemberRoleAdmin && d.Role != projectmodel.MemberRoleMember {
		return internal.NewValidationError("role must be admin or member", internal.ErrCodeInvalidRole)
	}
	return nil
}

type ChangeMemberRoleDTO struct {
	Role string `json:"role"`
}

func (d ChangeMemberRoleDTO) Validate() error {
	if d.Role != projectmodel.MemberRoleAdmin && d.Role != projectmodel.MemberRoleMember {
		return internal.NewValidationError("role must be admin or member", internal.ErrCodeInvalidRole)
	}
	return nil
}

type ProjectView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	OwnerID     string    `json:"owner_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToProjectView(p *projectmodel.Project) ProjectView {
	return ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		OwnerID:     p.OwnerID,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProjectViews(projects []projectmodel.Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, ToProjectView(&projects[i]))
	}
	return views
}

type MemberView struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
}

func ToMemberView(m *projectmodel.ProjectMember) MemberView {
	view := MemberView{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
		JoinedAt:  m.JoinedAt,
	}
	if m.User != nil {
		view.Name = m.User.Name
		view.Email = m.User.Email
	}
	return view
}

func ToMemberViews(members []projectmodel.ProjectMember) []MemberView {
	views := make([]MemberView, 0, len(members))
	for i := range members {
		views = append(views, ToMemberView(&members[i]))
	}
	return views
}
