package user

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kinora/kinora/internal/platform/apperr"
)

// MemoryRepository implements [Repository] with a process-local map and a
// monotonic id counter, both guarded by one mutex.
//
// # Concurrency
//
// All shared state is owned by this object — there is no package-level
// storage. Ids are never reused, even after DeleteAll.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   int64
	users map[int64]*User
}

// NewMemoryRepository constructs an empty in-process user store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int64]*User)}
}

func (repository *MemoryRepository) NextID(context context.Context) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.seq++
	return repository.seq, nil
}

func (repository *MemoryRepository) Get(context context.Context, id int64) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFoundID("User", id)
	}
	return cloneUser(stored), nil
}

func (repository *MemoryRepository) List(context context.Context) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	users := make([]*User, 0, len(repository.users))
	for _, stored := range repository.users {
		users = append(users, cloneUser(stored))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (repository *MemoryRepository) Create(context context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[user.ID]; ok {
		return apperr.Conflict(fmt.Sprintf("User with id=%d already exists", user.ID))
	}

	// Keep the sequence ahead of explicitly supplied ids.
	if user.ID > repository.seq {
		repository.seq = user.ID
	}

	repository.users[user.ID] = cloneUser(user)
	return nil
}

func (repository *MemoryRepository) Update(context context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[user.ID]; !ok {
		return apperr.NotFoundID("User", user.ID)
	}

	// Full overwrite: scalar fields and the friend set alike.
	repository.users[user.ID] = cloneUser(user)
	return nil
}

func (repository *MemoryRepository) DeleteAll(context context.Context) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	// The sequence keeps counting; deleted ids are never reassigned.
	repository.users = make(map[int64]*User)
	return nil
}

func (repository *MemoryRepository) Exists(context context.Context, id int64) (bool, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	_, ok := repository.users[id]
	return ok, nil
}

// # Friendship Edges

func (repository *MemoryRepository) AddFriend(context context.Context, userID, friendID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.users[userID]
	if !ok {
		return apperr.NotFoundID("User", userID)
	}

	for _, id := range stored.Friends {
		if id == friendID {
			return nil // duplicate edge, no-op
		}
	}
	stored.Friends = append(stored.Friends, friendID)
	return nil
}

func (repository *MemoryRepository) DeleteFriend(context context.Context, userID, friendID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.users[userID]
	if !ok {
		return apperr.NotFoundID("User", userID)
	}

	for i, id := range stored.Friends {
		if id == friendID {
			stored.Friends = append(stored.Friends[:i], stored.Friends[i+1:]...)
			return nil
		}
	}
	return nil // absent edge, no-op
}

func (repository *MemoryRepository) ListFriends(context context.Context, userID int64) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, ok := repository.users[userID]
	if !ok {
		return nil, apperr.NotFoundID("User", userID)
	}

	friends := make([]*User, 0, len(stored.Friends))
	for _, friendID := range stored.Friends {
		if friend, ok := repository.users[friendID]; ok {
			friends = append(friends, cloneUser(friend))
		}
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].ID < friends[j].ID })
	return friends, nil
}

func (repository *MemoryRepository) ListCommonFriends(context context.Context, userID, otherID int64) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, ok := repository.users[userID]
	if !ok {
		return nil, apperr.NotFoundID("User", userID)
	}
	other, ok := repository.users[otherID]
	if !ok {
		return nil, apperr.NotFoundID("User", otherID)
	}

	otherSet := make(map[int64]struct{}, len(other.Friends))
	for _, id := range other.Friends {
		otherSet[id] = struct{}{}
	}

	// Intersection of both users' outbound edges, ordered by id.
	var common []*User
	for _, friendID := range stored.Friends {
		if _, shared := otherSet[friendID]; !shared {
			continue
		}
		if friend, ok := repository.users[friendID]; ok {
			common = append(common, cloneUser(friend))
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i].ID < common[j].ID })
	return common, nil
}

// cloneUser copies the entity so callers never alias internal state.
func cloneUser(user *User) *User {
	clone := *user
	clone.Friends = append([]int64(nil), user.Friends...)
	return &clone
}
