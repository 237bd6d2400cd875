package user

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/residesk/amenity-booking-backend/internal/auth"
)

type fakeRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*User{}, byEmail: map[string]*User{}}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	f.nextID++
	u.ID = "user-" + strconv.Itoa(f.nextID)
	u.CreatedAt = time.Now()
	clone := *u
	f.byID[u.ID] = &clone
	f.byEmail[u.Email] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]*User, int, error) {
	var out []*User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return ErrNotFound
	}
	clone := *u
	f.byID[u.ID] = &clone
	f.byEmail[u.Email] = &clone
	return nil
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func newTestService(repo *fakeRepo) Service {
	// Low cost keeps the test fast; production uses the default.
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4))
}

func TestRegister(t *testing.T) {
	svc := newTestService(newFakeRepo())

	t.Run("New accounts are active residents", func(t *testing.T) {
		u, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "Resident@Example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, "resident@example.com", u.Email, "email is normalized")
		assert.Equal(t, RoleResident, u.Role)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "password123", u.PasswordHash)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "resident@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("Short password", func(t *testing.T) {
		_, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "short@example.com",
			Password: "1234567",
		})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("Empty email", func(t *testing.T) {
		_, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "   ",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrEmailRequired)
	})
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "resident@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("Success updates last login", func(t *testing.T) {
		got, err := svc.Login(context.Background(), "resident@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.NotNil(t, got.LastLoginAt)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "resident@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email reads as invalid credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Deactivated account", func(t *testing.T) {
		inactive := false
		_, err := svc.Update(context.Background(), u.ID, UpdateRequest{IsActive: &inactive})
		require.NoError(t, err)

		_, err = svc.Login(context.Background(), "resident@example.com", "password123")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}

func TestUpdateRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "resident@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("Promote to manager", func(t *testing.T) {
		role := "manager"
		got, err := svc.Update(context.Background(), u.ID, UpdateRequest{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, RoleManager, got.Role)
		assert.True(t, got.Role.Privileged())
	})

	t.Run("Unknown role", func(t *testing.T) {
		role := "superuser"
		_, err := svc.Update(context.Background(), u.ID, UpdateRequest{Role: &role})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestRoles(t *testing.T) {
	assert.False(t, RoleResident.Privileged())
	assert.True(t, RoleManager.Privileged())
	assert.True(t, RoleSysAdmin.Privileged())

	assert.True(t, Role("resident").Valid())
	assert.False(t, Role("owner").Valid())
}
