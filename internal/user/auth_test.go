package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	byID    map[uuid.UUID]User
	byEmail map[string]User
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[uuid.UUID]User{}, byEmail: map[string]User{}}
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *memRepo) List(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, u User) (*User, error) {
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, ErrEmailTaken
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return &u, nil
}

func (m *memRepo) Update(_ context.Context, u User) (*User, error) {
	if _, ok := m.byID[u.ID]; !ok {
		return nil, ErrUserNotFound
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return &u, nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	m.byID[id] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(m.byID, id)
	delete(m.byEmail, u.Email)
	return nil
}

func TestLoginRoundTrip(t *testing.T) {
	repo := newMemRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)

	created, err := auth.CreateUser(context.Background(), CreateInput{
		Name:     "Laura Paz",
		Email:    "laura@clinica.test",
		Password: "correcthorse",
		Role:     RoleReception,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.NotEqual(t, "correcthorse", created.PasswordHash)

	token, u, err := auth.Login(context.Background(), "laura@clinica.test", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleReception, claims.Role)
	assert.Equal(t, created.ID.String(), claims.Subject)
}

func TestLoginFailures(t *testing.T) {
	repo := newMemRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)

	_, err := auth.CreateUser(context.Background(), CreateInput{
		Name: "Laura Paz", Email: "laura@clinica.test", Password: "correcthorse", Role: RoleReception,
	})
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), "laura@clinica.test", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login(context.Background(), "nobody@clinica.test", "correcthorse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newMemRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)

	created, err := auth.CreateUser(context.Background(), CreateInput{
		Name: "Laura Paz", Email: "laura@clinica.test", Password: "correcthorse", Role: RoleAdmin,
	})
	require.NoError(t, err)

	created.Active = false
	_, err = repo.Update(context.Background(), *created)
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), "laura@clinica.test", "correcthorse")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	repo := newMemRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)
	other := NewAuthService(repo, "other-secret", time.Hour)

	u, err := auth.CreateUser(context.Background(), CreateInput{
		Name: "Laura Paz", Email: "laura@clinica.test", Password: "correcthorse", Role: RoleAdmin,
	})
	require.NoError(t, err)

	token, err := other.IssueToken(u)
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateUserValidation(t *testing.T) {
	repo := newMemRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)

	_, err := auth.CreateUser(context.Background(), CreateInput{
		Name: "X", Email: "x@clinica.test", Password: "short", Role: RoleAdmin,
	})
	assert.Error(t, err)

	_, err = auth.CreateUser(context.Background(), CreateInput{
		Name: "X", Email: "x@clinica.test", Password: "longenough", Role: Role("gerente"),
	})
	assert.Error(t, err)
}
