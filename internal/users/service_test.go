package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

type memoryRepo struct {
	users  map[int64]User
	hashes map[int64]string
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User), hashes: make(map[int64]string)}
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return User{}, shared.ErrNotFound
}

func (r *memoryRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryRepo) Insert(ctx context.Context, input CreateUserInput, passwordHash string) (int64, error) {
	r.nextID++
	r.users[r.nextID] = User{
		ID:         r.nextID,
		Username:   input.Username,
		Role:       input.Role,
		Shift:      input.Shift,
		Status:     StatusActive,
		LocationID: input.LocationID,
		Phone:      input.Phone,
		Email:      input.Email,
	}
	r.hashes[r.nextID] = passwordHash
	return r.nextID, nil
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username: "dana",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.Equal(t, RoleCashier, user.Role)
	require.Equal(t, ShiftMorning, user.Shift)
	require.Equal(t, StatusActive, user.Status)
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username: "dana",
		Password: "correct horse",
	})
	require.NoError(t, err)

	hash := repo.hashes[user.ID]
	require.NotEqual(t, "correct horse", hash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong horse")))
}

func TestCreateRequiresCredentials(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateUserInput{Password: "secret123"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), CreateUserInput{Username: "dana"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsUnknownShift(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "dana",
		Password: "secret123",
		Shift:    Shift("NIGHT"),
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}
