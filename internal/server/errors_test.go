package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/smallbiznis/eltrackr/internal/submission/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"nil", nil, http.StatusInternalServerError, "internal_error"},
		{"joined validation", errors.Join(domain.ErrInvalidName, domain.ErrInvalidWaterUsage), http.StatusBadRequest, "validation_error"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"route not found", ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped unavailable", fmt.Errorf("%w: timeout", domain.ErrStoreUnavailable), http.StatusServiceUnavailable, "store_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, payload.Type)
		})
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	kind, code := classifyErrorForLog(errors.Join(domain.ErrInvalidEmail, domain.ErrInvalidEnergyUsage))
	assert.Equal(t, "validation_error", kind)
	assert.Equal(t, "invalid_email", code)

	kind, code = classifyErrorForLog(domain.ErrStoreUnavailable)
	assert.Equal(t, "store_unavailable", kind)
	assert.Equal(t, "store_unavailable", code)
}

func TestFormInputCollectsFieldErrors(t *testing.T) {
	in, err := submissionForm{
		Name:              " Alice ",
		Email:             "a@example.com",
		EnergyUsage:       "1e2",
		WaterUsage:        "",
		TransportDistance: "+Inf",
	}.input()

	assert.Equal(t, "Alice", in.Name)
	assert.Equal(t, 100.0, in.EnergyUsage)
	msgs := fieldMessages(err)
	assert.Len(t, msgs, 2)
	assert.Contains(t, msgs, "water_usage")
	assert.Contains(t, msgs, "transport_distance")
}
