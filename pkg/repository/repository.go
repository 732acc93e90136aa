package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the table-level CRUD shared by gorm-backed stores. Lookups
// return (nil, nil) when nothing matches; Update and Delete report the number
// of affected rows.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID any, values any) (int64, error)
	Delete(ctx context.Context, resourceID any) (int64, error)
	Count(ctx context.Context, query *T) (int64, error)
}

// QueryOption decorates the statement built from the query struct.
type QueryOption func(*gorm.DB) *gorm.DB

func OrderBy(clause string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause)
	}
}
