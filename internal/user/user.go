// Package user covers profile self-service and the administrative approval
// queue. Session issuance lives in the auth package; this one only reads and
// mutates user rows.
package user

import (
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
)

// Repository is the persistence surface the user service needs.
type Repository interface {
	GetByID(id string) (*usermodel.User, error)
	Update(u *usermodel.User) error
	ListByApproval(status string) ([]usermodel.User, error)
	List() ([]usermodel.User, error)
}
