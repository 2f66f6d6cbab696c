package users

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-lms/meridian-lms/internal/rbac"
	"github.com/meridian-lms/meridian-lms/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (User, error)
	AssignRole(ctx context.Context, userID int64, role rbac.RoleName) error
	FindByID(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListOrphans(ctx context.Context) ([]User, error)
}

// RoleChecker answers whether an actor outranks a role it wants to assign.
type RoleChecker interface {
	CanAssignRole(actorRoles []rbac.RoleName, target rbac.RoleName) bool
}

// Enqueuer schedules the orphan scan after an interrupted add-user workflow.
type Enqueuer interface {
	EnqueueOrphanScan(ctx context.Context) error
}

// Auditor records mutating operations with an explicit actor id.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user business logic.
type Service struct {
	logger   *slog.Logger
	repo     RepositoryPort
	checker  RoleChecker
	enqueuer Enqueuer
	audit    Auditor
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort, checker RoleChecker, enqueuer Enqueuer, audit Auditor) *Service {
	return &Service{logger: logger, repo: repo, checker: checker, enqueuer: enqueuer, audit: audit}
}

// CreateInput is the add-user request.
type CreateInput struct {
	Email    string
	Name     string
	Password string
	Role     rbac.RoleName
}

// Create runs the add-user workflow: hierarchy check, account creation,
// role assignment. The actor may only assign roles it outranks. When the
// account exists but the role grant fails, the returned error wraps
// ErrRoleAssignmentIncomplete and carries the account id; the orphan scan
// is enqueued so the account is picked up even if the caller gives up.
func (s *Service) Create(ctx context.Context, actorID int64, actorRoles []rbac.RoleName, in CreateInput) (User, error) {
	if !s.checker.CanAssignRole(actorRoles, in.Role) {
		return User{}, fmt.Errorf("assign role %s: %w", in.Role, shared.ErrForbidden)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, in.Email, in.Name, string(hash))
	if err != nil {
		return User{}, err
	}

	if err := s.repo.AssignRole(ctx, user.ID, in.Role); err != nil {
		if s.enqueuer != nil {
			if enqErr := s.enqueuer.EnqueueOrphanScan(ctx); enqErr != nil {
				s.logger.Error("enqueue orphan scan", slog.Any("error", enqErr))
			}
		}
		return user, &RoleAssignmentError{UserID: user.ID, cause: err}
	}

	s.recordAudit(ctx, actorID, "user.create", user.ID, map[string]any{"role": string(in.Role)})
	return user, nil
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// ScanOrphans reports accounts that never received a role. Run periodically
// by the worker and on demand after interrupted add-user workflows.
func (s *Service) ScanOrphans(ctx context.Context) ([]User, error) {
	orphans, err := s.repo.ListOrphans(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range orphans {
		s.logger.Warn("orphaned account without role",
			slog.Int64("user_id", u.ID),
			slog.String("email", u.Email),
			slog.Time("created_at", u.CreatedAt))
	}
	return orphans, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(entityID, 10),
		Meta:     meta,
	})
}
