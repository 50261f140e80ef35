// Package access decides, for every entity in the project→board→column→task
// chain, whether a caller may act on it. Every handler goes through this one
// resolver; no endpoint carries its own membership logic.
package access

import (
	"errors"
	"log/slog"

	"github.com/taskboard-app/taskboard/internal"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
)

// Action is the class of operation being authorized. Manage covers
// membership changes and project mutation; Write covers creating and
// mutating child entities; Read covers everything else.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
	ActionManage
)

// ProjectFacts is the minimal slice of a project row authorization needs.
type ProjectFacts struct {
	ID       string
	OwnerID  string
	IsActive bool
}

// BoardFacts carries the board's project and visibility for the climb.
type BoardFacts struct {
	ProjectID  string
	Visibility string
}

// Repository provides the ownership and membership probes. Implementations
// must return the entity-specific NotFound sentinel when the target row is
// genuinely absent, so denial reasons distinguish 404 from 403.
type Repository interface {
	ProjectFacts(projectID string) (*ProjectFacts, error)
	// MemberRole returns "" when no membership row exists.
	MemberRole(projectID, userID string) (string, error)
	BoardFacts(boardID string) (*BoardFacts, error)
	// ColumnRefs resolves a column to its board and project.
	ColumnRefs(columnID string) (boardID, projectID string, err error)
	// TaskRefs resolves a task to its denormalized board and project.
	TaskRefs(taskID string) (boardID, projectID string, err error)
}

type Resolver struct {
	repo   Repository
	logger *slog.Logger
}

func NewResolver(repo Repository, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// CheckProject authorizes an action against the project itself.
func (r *Resolver) CheckProject(userID, projectID string, action Action) error {
	facts, err := r.repo.ProjectFacts(projectID)
	if err != nil {
		return err
	}
	return r.check(userID, facts, action, false)
}

// CheckBoard climbs to the owning project. Public visibility grants read
// and discoverability to any authenticated user, never write.
func (r *Resolver) CheckBoard(userID, boardID string, action Action) error {
	board, err := r.repo.BoardFacts(boardID)
	if err != nil {
		return err
	}
	facts, err := r.repo.ProjectFacts(board.ProjectID)
	if err != nil {
		return err
	}
	if action == ActionRead && facts.IsActive && board.Visibility == boardmodel.VisibilityPublic {
		return nil
	}
	return r.check(userID, facts, action, true)
}

func (r *Resolver) CheckColumn(userID, columnID string, action Action) error {
	boardID, projectID, err := r.repo.ColumnRefs(columnID)
	if err != nil {
		return err
	}
	return r.checkChildOf(userID, boardID, projectID, action)
}

// CheckTask uses the task's denormalized ids, avoiding the
// column→board→project join on the hot path.
func (r *Resolver) CheckTask(userID, taskID string, action Action) error {
	boardID, projectID, err := r.repo.TaskRefs(taskID)
	if err != nil {
		return err
	}
	return r.checkChildOf(userID, boardID, projectID, action)
}

// checkChildOf applies the project rule on behalf of a child entity. A denial
// for a plain read is softened when the child's board is public, so whatever
// a public board lets an outsider list, the outsider can also open. The
// board probe only runs on that denial path.
func (r *Resolver) checkChildOf(userID, boardID, projectID string, action Action) error {
	facts, err := r.repo.ProjectFacts(projectID)
	if err != nil {
		return err
	}
	err = r.check(userID, facts, action, true)
	if err == nil || action != ActionRead || !facts.IsActive || !errors.Is(err, internal.ErrAccessDenied) {
		return err
	}
	board, boardErr := r.repo.BoardFacts(boardID)
	if boardErr != nil {
		return err
	}
	if board.Visibility == boardmodel.VisibilityPublic {
		return nil
	}
	return err
}

// check is the single project rule. Ownership via the owner column is
// sufficient on its own; membership rows widen access without reassigning
// ownership. A deactivated project leaves children read-only for the owner
// and forbidden for everyone else, while the project row itself stays
// manageable by its owner so it can be reactivated.
func (r *Resolver) check(userID string, facts *ProjectFacts, action Action, childTarget bool) error {
	isOwner := facts.OwnerID == userID

	if !facts.IsActive {
		if !isOwner {
			return internal.ErrProjectInactive
		}
		if childTarget && action != ActionRead {
			return internal.ErrProjectInactive
		}
		return nil
	}

	if isOwner {
		return nil
	}

	role, err := r.repo.MemberRole(facts.ID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return internal.ErrAccessDenied
	}

	switch action {
	case ActionRead, ActionWrite:
		return nil
	case ActionManage:
		if role == projectmodel.MemberRoleOwner || role == projectmodel.MemberRoleAdmin {
			return nil
		}
		return internal.ErrAccessDenied
	default:
		return internal.ErrAccessDenied
	}
}

// CanListBoard reports whether a board should appear in a listing for the
// user, without treating denial as an error.
func (r *Resolver) CanListBoard(userID, boardID string) bool {
	return r.CheckBoard(userID, boardID, ActionRead) == nil
}
