package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository persists submissions. Implementations return (nil, nil) from
// FindByID and false from Update/Delete when no record matches.
type Repository interface {
	Insert(ctx context.Context, submission *Submission) error
	FindByID(ctx context.Context, id snowflake.ID) (*Submission, error)
	List(ctx context.Context) ([]*Submission, error)
	Update(ctx context.Context, submission *Submission) (bool, error)
	Delete(ctx context.Context, id snowflake.ID) (bool, error)
	Ping(ctx context.Context) error
}
