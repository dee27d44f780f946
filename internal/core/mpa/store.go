package mpa

import "context"

type Repository interface {
	List(context context.Context) ([]*Rating, error)
	Get(context context.Context, id int) (*Rating, error)
}
