package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	submissiondomain "github.com/smallbiznis/eltrackr/internal/submission/domain"
	"github.com/smallbiznis/eltrackr/pkg/db/pagination"
)

type submissionRequest struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	EnergyUsage       *float64 `json:"energy_usage"`
	WaterUsage        *float64 `json:"water_usage"`
	TransportDistance *float64 `json:"transport_distance"`
}

// toInput treats an absent figure like a malformed one.
func (r submissionRequest) toInput() (submissiondomain.SubmissionInput, error) {
	in := submissiondomain.SubmissionInput{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
	}

	var errs []error
	if r.EnergyUsage == nil {
		errs = append(errs, submissiondomain.ErrInvalidEnergyUsage)
	} else {
		in.EnergyUsage = *r.EnergyUsage
	}
	if r.WaterUsage == nil {
		errs = append(errs, submissiondomain.ErrInvalidWaterUsage)
	} else {
		in.WaterUsage = *r.WaterUsage
	}
	if r.TransportDistance == nil {
		errs = append(errs, submissiondomain.ErrInvalidTransportDistance)
	} else {
		in.TransportDistance = *r.TransportDistance
	}
	if in.Name == "" {
		errs = append(errs, submissiondomain.ErrInvalidName)
	}
	if in.Email == "" {
		errs = append(errs, submissiondomain.ErrInvalidEmail)
	}

	return in, errors.Join(errs...)
}

func (s *Server) ListSubmissions(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_page_size", "Page size must be a whole number from 1 to 250."))
		return
	}

	resp, err := s.submissionSvc.ListPage(c.Request.Context(), submissiondomain.ListSubmissionRequest{
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateSubmission(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	input, err := req.toInput()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.submissionSvc.Create(c.Request.Context(), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetSubmission(c *gin.Context) {
	resp, err := s.submissionSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSubmission(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	input, err := req.toInput()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.submissionSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSubmissionAPI(c *gin.Context) {
	if err := s.submissionSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetSummary(c *gin.Context) {
	resp, err := s.submissionSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
