package genre

import "context"

type Repository interface {
	List(context context.Context) ([]*Genre, error)
	Get(context context.Context, id int) (*Genre, error)
}
