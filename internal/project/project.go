// Package project owns project lifecycle and membership management. The
// owner column on the project row is authoritative for ownership; membership
// rows widen access but never reassign it.
package project

import (
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
)

// Repository is the persistence surface for projects and their members.
type Repository interface {
	// Create inserts the project and the owner's membership row in one
	// transaction.
	Create(p *projectmodel.Project) error
	GetByID(id string) (*projectmodel.Project, error)
	// ListForUser returns projects where the user is owner or member.
	ListForUser(userID string) ([]projectmodel.Project, error)
	Update(p *projectmodel.Project) error
	// HasBoards reports whether any board still references the project.
	HasBoards(projectID string) (bool, error)
	// Delete removes the project and its membership rows in one transaction.
	Delete(projectID string) error

	ListMembers(projectID string) ([]projectmodel.ProjectMember, error)
	GetMember(projectID, userID string) (*projectmodel.ProjectMember, error)
	AddMember(m *projectmodel.ProjectMember) error
	UpdateMemberRole(projectID, userID, role string) error
	RemoveMember(projectID, userID string) error
}
