package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-ledger-api/internal/dto"
	"github.com/noah-isme/sis-ledger-api/internal/middleware"
	"github.com/noah-isme/sis-ledger-api/internal/models"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
	"github.com/noah-isme/sis-ledger-api/pkg/response"
)

type enrollmentService interface {
	List(ctx context.Context, query dto.EnrollmentQuery, actor *models.JWTClaims) ([]models.EnrollmentDetail, error)
	Create(ctx context.Context, req dto.CreateEnrollmentRequest, actor *models.JWTClaims) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateEnrollmentStatusRequest) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
}

// EnrollmentHandler manages enrollment endpoints.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(service enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param student_id query string false "Student ID (ignored for students)"
// @Param period_id query string false "Academic period ID"
// @Success 200 {array} models.EnrollmentDetail
// @Failure 404 {object} response.ErrorBody
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	query := dto.EnrollmentQuery{StudentID: c.Query("student_id"), PeriodID: c.Query("period_id")}
	items, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Create godoc
// @Summary Enroll a student in an offering
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.CreateEnrollmentRequest true "Enrollment"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}
	enrollment, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, enrollment.ID)
	response.Created(c, enrollment)
}

// UpdateStatus godoc
// @Summary Update enrollment status
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body dto.UpdateEnrollmentStatusRequest true "Status"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} response.ErrorBody
// @Router /enrollments/{id} [put]
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateEnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	enrollment, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment)
}

// Delete godoc
// @Summary Delete an enrollment and its grade record
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorBody
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "enrollment deleted")
}
