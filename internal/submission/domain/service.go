package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/eltrackr/pkg/db/pagination"
)

// SubmissionInput carries the user-supplied fields of a create or update.
type SubmissionInput struct {
	Name              string
	Email             string
	EnergyUsage       float64
	WaterUsage        float64
	TransportDistance float64
}

// ListSubmissionRequest pages through submissions most recent first. A zero
// PageSize returns every remaining record.
type ListSubmissionRequest struct {
	PageToken string
	PageSize  int32
}

type ListSubmissionResponse struct {
	pagination.PageInfo
	Submissions []Submission `json:"submissions"`
}

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	Create(context.Context, SubmissionInput) (Submission, error)
	GetByID(ctx context.Context, id string) (Submission, error)
	List(context.Context) ([]Submission, error)
	ListPage(context.Context, ListSubmissionRequest) (ListSubmissionResponse, error)
	Update(ctx context.Context, id string, input SubmissionInput) (Submission, error)
	Delete(ctx context.Context, id string) error
	Summary(context.Context) (Summary, error)
	Ping(context.Context) error
}

var (
	ErrInvalidName              = errors.New("invalid_name")
	ErrInvalidEmail             = errors.New("invalid_email")
	ErrInvalidEnergyUsage       = errors.New("invalid_energy_usage")
	ErrInvalidWaterUsage        = errors.New("invalid_water_usage")
	ErrInvalidTransportDistance = errors.New("invalid_transport_distance")
	ErrInvalidID                = errors.New("invalid_id")
	ErrInvalidPageToken         = errors.New("invalid_page_token")
	ErrNotFound                 = errors.New("not_found")
	ErrStoreUnavailable         = errors.New("store_unavailable")
)

// IsValidationError reports whether err is one of the input validation errors.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidEnergyUsage),
		errors.Is(err, ErrInvalidWaterUsage),
		errors.Is(err, ErrInvalidTransportDistance),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidPageToken):
		return true
	default:
		return false
	}
}
