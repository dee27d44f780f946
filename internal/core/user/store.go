package user

import "context"

// Repository is the storage contract for users and their friendship edges.
//
// Both implementations (memory, postgres) expose identical semantics:
// Create fails with Conflict when the id is taken, Update fails with
// NotFound when it is absent, and the friendship operations are idempotent
// at the relation level.
type Repository interface {
	NextID(context context.Context) (int64, error)
	Get(context context.Context, id int64) (*User, error)
	List(context context.Context) ([]*User, error)
	Create(context context.Context, u *User) error
	Update(context context.Context, u *User) error
	DeleteAll(context context.Context) error
	Exists(context context.Context, id int64) (bool, error)

	// Directed friendship edges (join-table level, duplicate-suppressed).
	AddFriend(context context.Context, userID, friendID int64) error
	DeleteFriend(context context.Context, userID, friendID int64) error
	ListFriends(context context.Context, userID int64) ([]*User, error)
	ListCommonFriends(context context.Context, userID, otherID int64) ([]*User, error)
}
