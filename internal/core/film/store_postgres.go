package film

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinora/kinora/internal/core/genre"
	"github.com/kinora/kinora/internal/core/mpa"
	"github.com/kinora/kinora/internal/platform/dberr"
	"github.com/kinora/kinora/pkg/date"
)

// PostgresRepository implements [Repository] using pgx.
//
// Scalar writes and the genre/like rewrites run inside one transaction.
// Genre and MPA rows are joined on read so responses always carry the
// canonical vocabulary names, whatever the client sent.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed film store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const filmSelect = `
	SELECT f.film_id, f.film_name, f.description, f.release_date, f.duration,
	       m.mpa_id, m.mpa_name
	FROM films f
	LEFT JOIN mpa m ON m.mpa_id = f.mpa_id
`

func (repository *PostgresRepository) NextID(context context.Context) (int64, error) {
	const query = `SELECT nextval('films_seq')`

	var id int64
	if err := repository.db.QueryRow(context, query).Scan(&id); err != nil {
		return 0, dberr.Wrap(err, "next_film_id")
	}
	return id, nil
}

func (repository *PostgresRepository) Get(context context.Context, id int64) (*Film, error) {
	query := filmSelect + ` WHERE f.film_id = $1`

	film, err := scanFilm(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_film")
	}

	if err := repository.loadRelations(context, []*Film{film}); err != nil {
		return nil, err
	}
	return film, nil
}

func (repository *PostgresRepository) List(context context.Context) ([]*Film, error) {
	query := filmSelect + ` ORDER BY f.film_id ASC`
	return repository.queryFilms(context, query)
}

func (repository *PostgresRepository) Create(context context.Context, film *Film) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_film_tx")
	}
	defer transaction.Rollback(context)

	// Primary-key violation surfaces as Conflict, an unknown mpa or
	// genre id as NotFound, both via dberr.
	const insertQuery = `
		INSERT INTO films (film_id, film_name, description, release_date, duration, mpa_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = transaction.Exec(context, insertQuery,
		film.ID, film.Name, film.Description, film.ReleaseDate.Time, film.Duration, mpaParam(film.Mpa),
	)
	if err != nil {
		return dberr.Wrap(err, "insert_film")
	}

	if err := rewriteGenres(context, transaction, film); err != nil {
		return err
	}
	if err := rewriteLikes(context, transaction, film); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_film_tx")
	}

	return repository.refresh(context, film)
}

func (repository *PostgresRepository) Update(context context.Context, film *Film) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_film_tx")
	}
	defer transaction.Rollback(context)

	const updateQuery = `
		UPDATE films
		SET film_name = $2, description = $3, release_date = $4, duration = $5, mpa_id = $6
		WHERE film_id = $1
	`
	result, err := transaction.Exec(context, updateQuery,
		film.ID, film.Name, film.Description, film.ReleaseDate.Time, film.Duration, mpaParam(film.Mpa),
	)
	if err != nil {
		return dberr.Wrap(err, "update_film")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := rewriteGenres(context, transaction, film); err != nil {
		return err
	}
	if err := rewriteLikes(context, transaction, film); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_film_tx")
	}

	return repository.refresh(context, film)
}

func (repository *PostgresRepository) DeleteAll(context context.Context) error {
	// Genre links and likes cascade via foreign keys.
	const query = `DELETE FROM films`
	_, err := repository.db.Exec(context, query)
	return dberr.Wrap(err, "delete_all_films")
}

func (repository *PostgresRepository) Exists(context context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM films WHERE film_id = $1)`

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "film_exists")
	}
	return exists, nil
}

// # Like Edges

func (repository *PostgresRepository) AddLike(context context.Context, filmID, userID int64) error {
	// ON CONFLICT DO NOTHING makes the insert idempotent.
	const query = `
		INSERT INTO likes (film_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	_, err := repository.db.Exec(context, query, filmID, userID)
	return dberr.Wrap(err, "add_like")
}

func (repository *PostgresRepository) DeleteLike(context context.Context, filmID, userID int64) error {
	// Deleting a non-existent edge affects zero rows, which is fine.
	const query = `DELETE FROM likes WHERE film_id = $1 AND user_id = $2`
	_, err := repository.db.Exec(context, query, filmID, userID)
	return dberr.Wrap(err, "delete_like")
}

func (repository *PostgresRepository) ListPopular(context context.Context, count int) ([]*Film, error) {
	query := filmSelect + `
		LEFT JOIN likes l ON l.film_id = f.film_id
		GROUP BY f.film_id, f.film_name, f.description, f.release_date, f.duration,
		         m.mpa_id, m.mpa_name
		ORDER BY COUNT(l.user_id) DESC, f.film_id ASC
		LIMIT $1
	`
	return repository.queryFilms(context, query, count)
}

// # Helpers

func (repository *PostgresRepository) queryFilms(context context.Context, query string, args ...any) ([]*Film, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "query_films")
	}
	defer rows.Close()

	var films []*Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_film")
		}
		films = append(films, film)
	}
	rows.Close()

	if err := repository.loadRelations(context, films); err != nil {
		return nil, err
	}
	return films, nil
}

// refresh re-reads the stored row so the caller sees canonical genre and
// rating names after a write.
func (repository *PostgresRepository) refresh(context context.Context, film *Film) error {
	stored, err := repository.Get(context, film.ID)
	if err != nil {
		return err
	}
	*film = *stored
	return nil
}

func (repository *PostgresRepository) loadRelations(context context.Context, films []*Film) error {
	for _, film := range films {
		genres, err := repository.loadGenres(context, film.ID)
		if err != nil {
			return err
		}
		film.Genres = genres

		likes, err := repository.loadLikeIDs(context, film.ID)
		if err != nil {
			return err
		}
		film.Likes = likes
	}
	return nil
}

func (repository *PostgresRepository) loadGenres(context context.Context, filmID int64) ([]genre.Genre, error) {
	// Position preserves the client's insertion order.
	const query = `
		SELECT g.genre_id, g.genre_name
		FROM film_genres fg
		JOIN genres g ON g.genre_id = fg.genre_id
		WHERE fg.film_id = $1
		ORDER BY fg.position ASC
	`
	rows, err := repository.db.Query(context, query, filmID)
	if err != nil {
		return nil, dberr.Wrap(err, "load_film_genres")
	}
	defer rows.Close()

	var genres []genre.Genre
	for rows.Next() {
		var g genre.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_film_genre")
		}
		genres = append(genres, g)
	}
	return genres, nil
}

func (repository *PostgresRepository) loadLikeIDs(context context.Context, filmID int64) ([]int64, error) {
	const query = `
		SELECT user_id FROM likes
		WHERE film_id = $1
		ORDER BY user_id ASC
	`
	rows, err := repository.db.Query(context, query, filmID)
	if err != nil {
		return nil, dberr.Wrap(err, "load_like_ids")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_like_id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// rewriteGenres replaces the full genre set: delete-all-then-reinsert
// inside the caller's transaction, positions numbered from zero.
func rewriteGenres(context context.Context, transaction pgx.Tx, film *Film) error {
	const deleteQuery = `DELETE FROM film_genres WHERE film_id = $1`
	if _, err := transaction.Exec(context, deleteQuery, film.ID); err != nil {
		return dberr.Wrap(err, "delete_film_genres")
	}

	const insertQuery = `
		INSERT INTO film_genres (film_id, genre_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	for position, g := range film.Genres {
		if _, err := transaction.Exec(context, insertQuery, film.ID, g.ID, position); err != nil {
			return dberr.Wrap(err, "insert_film_genre")
		}
	}
	return nil
}

// rewriteLikes replaces the full like set inside the caller's transaction.
func rewriteLikes(context context.Context, transaction pgx.Tx, film *Film) error {
	const deleteQuery = `DELETE FROM likes WHERE film_id = $1`
	if _, err := transaction.Exec(context, deleteQuery, film.ID); err != nil {
		return dberr.Wrap(err, "delete_film_likes")
	}

	const insertQuery = `
		INSERT INTO likes (film_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, userID := range film.Likes {
		if _, err := transaction.Exec(context, insertQuery, film.ID, userID); err != nil {
			return dberr.Wrap(err, "insert_film_like")
		}
	}
	return nil
}

func scanFilm(row pgx.Row) (*Film, error) {
	film := &Film{}
	var release time.Time
	var mpaID *int
	var mpaName *string
	if err := row.Scan(&film.ID, &film.Name, &film.Description, &release, &film.Duration, &mpaID, &mpaName); err != nil {
		return nil, err
	}
	film.ReleaseDate = date.FromTime(release)
	if mpaID != nil && mpaName != nil {
		film.Mpa = &mpa.Rating{ID: *mpaID, Name: *mpaName}
	}
	return film, nil
}

// mpaParam maps an unset rating to NULL.
func mpaParam(rating *mpa.Rating) any {
	if rating == nil {
		return nil
	}
	return rating.ID
}
