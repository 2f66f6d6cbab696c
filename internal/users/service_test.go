package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-lms/meridian-lms/internal/rbac"
	"github.com/meridian-lms/meridian-lms/internal/shared"
)

type memoryRepo struct {
	nextID    int64
	users     map[int64]User
	roles     map[int64][]rbac.RoleName
	failRoles bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, users: make(map[int64]User), roles: make(map[int64][]rbac.RoleName)}
}

func (r *memoryRepo) CreateUser(ctx context.Context, email, name, passwordHash string) (User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return User{}, ErrEmailTaken
		}
	}
	u := User{ID: r.nextID, Email: email, Name: name, PasswordHash: passwordHash, IsActive: true, CreatedAt: time.Now()}
	r.users[u.ID] = u
	r.nextID++
	return u, nil
}

func (r *memoryRepo) AssignRole(ctx context.Context, userID int64, role rbac.RoleName) error {
	if r.failRoles {
		return errors.New("role table unavailable")
	}
	r.roles[userID] = append(r.roles[userID], role)
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryRepo) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListOrphans(ctx context.Context) ([]User, error) {
	var out []User
	for id := int64(1); id < r.nextID; id++ {
		u, ok := r.users[id]
		if ok && len(r.roles[id]) == 0 {
			out = append(out, u)
		}
	}
	return out, nil
}

type countingEnqueuer struct {
	calls int
}

func (e *countingEnqueuer) EnqueueOrphanScan(ctx context.Context) error {
	e.calls++
	return nil
}

func newTestService(repo *memoryRepo, enq Enqueuer) *Service {
	// CanAssignRole is pure over the hierarchy; no permission source needed.
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, rbac.NewEvaluator(nil), enq, nil)
}

func TestCreateAssignsRoleAndHashesPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)

	user, err := svc.Create(context.Background(), 1, []rbac.RoleName{rbac.RoleAdmin}, CreateInput{
		Email:    "teacher@example.com",
		Name:     "New Teacher",
		Password: "correct horse battery",
		Role:     rbac.RoleTeacher,
	})
	require.NoError(t, err)
	require.Equal(t, []rbac.RoleName{rbac.RoleTeacher}, repo.roles[user.ID])
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse battery")))
}

func TestCreateRejectsRoleAboveActor(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), 1, []rbac.RoleName{rbac.RoleManager}, CreateInput{
		Email:    "new-admin@example.com",
		Name:     "New Admin",
		Password: "secret-secret",
		Role:     rbac.RoleAdmin,
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
	require.Empty(t, repo.users)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	in := CreateInput{Email: "dup@example.com", Name: "First", Password: "secret-secret", Role: rbac.RoleStudent}
	_, err := svc.Create(ctx, 1, []rbac.RoleName{rbac.RoleAdmin}, in)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, []rbac.RoleName{rbac.RoleAdmin}, in)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateRoleAssignmentFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.failRoles = true
	enq := &countingEnqueuer{}
	svc := newTestService(repo, enq)

	user, err := svc.Create(context.Background(), 1, []rbac.RoleName{rbac.RoleAdmin}, CreateInput{
		Email:    "orphan@example.com",
		Name:     "Orphan",
		Password: "secret-secret",
		Role:     rbac.RoleStudent,
	})
	require.ErrorIs(t, err, ErrRoleAssignmentIncomplete)

	// The created account id survives for compensation.
	var raErr *RoleAssignmentError
	require.ErrorAs(t, err, &raErr)
	require.Equal(t, user.ID, raErr.UserID)
	require.Equal(t, 1, enq.calls)

	orphans, err := svc.ScanOrphans(context.Background())
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	require.Equal(t, "orphan@example.com", orphans[0].Email)
}

func TestScanOrphansEmpty(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil)

	orphans, err := svc.ScanOrphans(context.Background())
	require.NoError(t, err)
	require.Empty(t, orphans)
}
