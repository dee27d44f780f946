package user

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinora/kinora/internal/platform/dberr"
	"github.com/kinora/kinora/pkg/date"
)

// PostgresRepository implements [Repository] using pgx.
//
// Scalar writes and the friend-set rewrite are wrapped in one transaction
// so a failure mid-operation never leaves a partially updated user.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed user store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (repository *PostgresRepository) NextID(context context.Context) (int64, error) {
	const query = `SELECT nextval('users_seq')`

	var id int64
	if err := repository.db.QueryRow(context, query).Scan(&id); err != nil {
		return 0, dberr.Wrap(err, "next_user_id")
	}
	return id, nil
}

func (repository *PostgresRepository) Get(context context.Context, id int64) (*User, error) {
	const query = `
		SELECT user_id, email, login, user_name, birthday
		FROM users
		WHERE user_id = $1
	`
	user, err := scanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_user")
	}

	if user.Friends, err = repository.loadFriendIDs(context, repository.db, id); err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresRepository) List(context context.Context) ([]*User, error) {
	const query = `
		SELECT user_id, email, login, user_name, birthday
		FROM users
		ORDER BY user_id ASC
	`
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}
	rows.Close()

	for _, user := range users {
		if user.Friends, err = repository.loadFriendIDs(context, repository.db, user.ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_user_tx")
	}
	defer transaction.Rollback(context)

	// Primary-key violation surfaces as Conflict via dberr.
	const insertQuery = `
		INSERT INTO users (user_id, email, login, user_name, birthday)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = transaction.Exec(context, insertQuery,
		user.ID, user.Email, user.Login, user.Name, birthdayParam(user.Birthday),
	)
	if err != nil {
		return dberr.Wrap(err, "insert_user")
	}

	if err := rewriteFriends(context, transaction, user); err != nil {
		return err
	}

	return transaction.Commit(context)
}

func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_user_tx")
	}
	defer transaction.Rollback(context)

	const updateQuery = `
		UPDATE users
		SET email = $2, login = $3, user_name = $4, birthday = $5
		WHERE user_id = $1
	`
	result, err := transaction.Exec(context, updateQuery,
		user.ID, user.Email, user.Login, user.Name, birthdayParam(user.Birthday),
	)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := rewriteFriends(context, transaction, user); err != nil {
		return err
	}

	return transaction.Commit(context)
}

func (repository *PostgresRepository) DeleteAll(context context.Context) error {
	// Friend edges and likes cascade via foreign keys.
	const query = `DELETE FROM users`
	_, err := repository.db.Exec(context, query)
	return dberr.Wrap(err, "delete_all_users")
}

func (repository *PostgresRepository) Exists(context context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "user_exists")
	}
	return exists, nil
}

// # Friendship Edges

func (repository *PostgresRepository) AddFriend(context context.Context, userID, friendID int64) error {
	// ON CONFLICT DO NOTHING makes the insert idempotent.
	const query = `
		INSERT INTO user_friends (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	_, err := repository.db.Exec(context, query, userID, friendID)
	return dberr.Wrap(err, "add_friend")
}

func (repository *PostgresRepository) DeleteFriend(context context.Context, userID, friendID int64) error {
	// Deleting a non-existent edge affects zero rows, which is fine.
	const query = `DELETE FROM user_friends WHERE user_id = $1 AND friend_id = $2`
	_, err := repository.db.Exec(context, query, userID, friendID)
	return dberr.Wrap(err, "delete_friend")
}

func (repository *PostgresRepository) ListFriends(context context.Context, userID int64) ([]*User, error) {
	const query = `
		SELECT u.user_id, u.email, u.login, u.user_name, u.birthday
		FROM users u
		JOIN user_friends f ON f.friend_id = u.user_id
		WHERE f.user_id = $1
		ORDER BY u.user_id ASC
	`
	return repository.queryUsers(context, query, userID)
}

func (repository *PostgresRepository) ListCommonFriends(context context.Context, userID, otherID int64) ([]*User, error) {
	const query = `
		SELECT u.user_id, u.email, u.login, u.user_name, u.birthday
		FROM users u
		JOIN user_friends f1 ON f1.friend_id = u.user_id AND f1.user_id = $1
		JOIN user_friends f2 ON f2.friend_id = u.user_id AND f2.user_id = $2
		ORDER BY u.user_id ASC
	`
	return repository.queryUsers(context, query, userID, otherID)
}

// # Helpers

func (repository *PostgresRepository) queryUsers(context context.Context, query string, args ...any) ([]*User, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "query_users")
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}
	rows.Close()

	for _, user := range users {
		if user.Friends, err = repository.loadFriendIDs(context, repository.db, user.ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (repository *PostgresRepository) loadFriendIDs(context context.Context, q querier, userID int64) ([]int64, error) {
	const query = `
		SELECT friend_id FROM user_friends
		WHERE user_id = $1
		ORDER BY friend_id ASC
	`
	rows, err := q.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "load_friend_ids")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_friend_id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// rewriteFriends replaces the full friend set: delete-all-then-reinsert
// inside the caller's transaction.
func rewriteFriends(context context.Context, transaction pgx.Tx, user *User) error {
	const deleteQuery = `DELETE FROM user_friends WHERE user_id = $1`
	if _, err := transaction.Exec(context, deleteQuery, user.ID); err != nil {
		return dberr.Wrap(err, "delete_user_friends")
	}

	const insertQuery = `
		INSERT INTO user_friends (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, friendID := range user.Friends {
		if _, err := transaction.Exec(context, insertQuery, user.ID, friendID); err != nil {
			return dberr.Wrap(err, "insert_user_friend")
		}
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var birthday *time.Time
	if err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &birthday); err != nil {
		return nil, err
	}
	if birthday != nil {
		user.Birthday = date.FromTime(*birthday)
	}
	return user, nil
}

// birthdayParam maps the zero Date to NULL.
func birthdayParam(d date.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}
