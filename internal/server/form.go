package server

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/eltrackr/internal/footprint"
	submissiondomain "github.com/smallbiznis/eltrackr/internal/submission/domain"
)

// submissionForm keeps the raw posted values so a rejected form re-renders as typed.
type submissionForm struct {
	Name              string
	Email             string
	EnergyUsage       string
	WaterUsage        string
	TransportDistance string
}

func readSubmissionForm(c *gin.Context) submissionForm {
	return submissionForm{
		Name:              c.PostForm("name"),
		Email:             c.PostForm("email"),
		EnergyUsage:       c.PostForm("energy_usage"),
		WaterUsage:        c.PostForm("water_usage"),
		TransportDistance: c.PostForm("transport_distance"),
	}
}

func formFromSubmission(s submissiondomain.Submission) submissionForm {
	return submissionForm{
		Name:              s.Name,
		Email:             s.Email,
		EnergyUsage:       formatFigure(s.EnergyUsage),
		WaterUsage:        formatFigure(s.WaterUsage),
		TransportDistance: formatFigure(s.TransportDistance),
	}
}

// input coerces the figures. Fields that fail coercion are reported as the
// matching domain validation error, joined with the text-field checks.
func (f submissionForm) input() (submissiondomain.SubmissionInput, error) {
	in := submissiondomain.SubmissionInput{
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
	}

	var errs []error
	if in.Name == "" {
		errs = append(errs, submissiondomain.ErrInvalidName)
	}
	if in.Email == "" {
		errs = append(errs, submissiondomain.ErrInvalidEmail)
	}

	var ok bool
	if in.EnergyUsage, ok = parseFigure(f.EnergyUsage); !ok {
		errs = append(errs, submissiondomain.ErrInvalidEnergyUsage)
	}
	if in.WaterUsage, ok = parseFigure(f.WaterUsage); !ok {
		errs = append(errs, submissiondomain.ErrInvalidWaterUsage)
	}
	if in.TransportDistance, ok = parseFigure(f.TransportDistance); !ok {
		errs = append(errs, submissiondomain.ErrInvalidTransportDistance)
	}

	return in, errors.Join(errs...)
}

func parseFigure(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > footprint.MaxFigure {
		return 0, false
	}
	return v, true
}

func formatFigure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fieldMessages maps form field names to the message shown beside them.
func fieldMessages(err error) map[string]string {
	errs := validationErrorsOf(err)
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}
