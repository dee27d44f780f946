package film

import "context"

// Repository is the storage contract for films and their like edges.
//
// Both implementations (memory, postgres) expose identical semantics:
// Create fails with Conflict when the id is taken, Update fails with
// NotFound when it is absent, and like operations are idempotent at the
// relation level.
type Repository interface {
	NextID(context context.Context) (int64, error)
	Get(context context.Context, id int64) (*Film, error)
	List(context context.Context) ([]*Film, error)
	Create(context context.Context, f *Film) error
	Update(context context.Context, f *Film) error
	DeleteAll(context context.Context) error
	Exists(context context.Context, id int64) (bool, error)

	// Like edges (join-table level, duplicate-suppressed).
	AddLike(context context.Context, filmID, userID int64) error
	DeleteLike(context context.Context, filmID, userID int64) error

	// ListPopular returns up to count films ordered by like-count
	// descending, ties broken by ascending film id.
	ListPopular(context context.Context, count int) ([]*Film, error)
}

// UserDirectory is the slice of the user domain the film service needs:
// existence checks before recording like edges.
type UserDirectory interface {
	Exists(context context.Context, id int64) (bool, error)
}
