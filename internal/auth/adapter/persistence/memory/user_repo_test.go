package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"auth-service/internal/auth/adapter/persistence/memory"
	"auth-service/internal/auth/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepo(t *testing.T) *memory.UserRepository {
	t.Helper()
	repo, err := memory.NewUserRepository()
	require.NoError(t, err)
	return repo
}

func TestValidateCredentials_DemoUsers(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	testCases := []struct {
		username string
		password string
		id       int
		email    string
	}{
		{"alice", "alice123", 1, "alice@example.com"},
		{"bob", "bob456", 2, "bob@example.com"},
		{"carol", "carol789", 3, "carol@example.com"},
	}

	for _, tc := range testCases {
		t.Run(tc.username, func(t *testing.T) {
			user, err := repo.ValidateCredentials(ctx, tc.username, tc.password)
			require.NoError(t, err)
			assert.Equal(t, tc.id, user.ID)
			assert.Equal(t, tc.username, user.Username)
			assert.Equal(t, tc.email, user.Email)
			assert.Empty(t, user.PasswordHash, "hash must not leave the repository")
		})
	}
}

func TestValidateCredentials_Failures(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	// Wrong password and unknown username fail identically.
	_, wrongPassErr := repo.ValidateCredentials(ctx, "alice", "wrong")
	_, unknownErr := repo.ValidateCredentials(ctx, "mallory", "alice123")

	assert.ErrorIs(t, wrongPassErr, model.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownErr, model.ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr, unknownErr)
}

func TestValidateCredentials_CaseInsensitiveUsername(t *testing.T) {
	repo := newUserRepo(t)

	user, err := repo.ValidateCredentials(context.Background(), "Alice", "alice123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestGetUserByID(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user, err := repo.GetUserByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)

	_, err = repo.GetUserByID(ctx, 99)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestAddUser_ConcurrentDistinctIDs(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	const n = 8
	results := make(chan *model.User, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := repo.AddUser(fmt.Sprintf("user%d", i), "pw", fmt.Sprintf("user%d@example.com", i))
			assert.NoError(t, err)
			results <- user
		}(i)
	}
	wg.Wait()
	close(results)

	seen := make(map[int]string, n)
	for user := range results {
		previous, dup := seen[user.ID]
		assert.False(t, dup, "id %d assigned to both %s and %s", user.ID, previous, user.Username)
		seen[user.ID] = user.Username
	}
	require.Len(t, seen, n)

	// Every claimed ID resolves to the user that claimed it.
	for id, username := range seen {
		user, err := repo.GetUserByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, username, user.Username)
	}
}

func TestAddUser(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	added, err := repo.AddUser("dave", "dave000", "dave@example.com")
	require.NoError(t, err)
	assert.Equal(t, 4, added.ID)

	user, err := repo.ValidateCredentials(ctx, "dave", "dave000")
	require.NoError(t, err)
	assert.Equal(t, added.ID, user.ID)
}
