package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-ledger-api/internal/dto"
	"github.com/noah-isme/sis-ledger-api/internal/models"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
	"github.com/noah-isme/sis-ledger-api/pkg/response"
)

type gradeService interface {
	List(ctx context.Context, query dto.GradeQuery, actor *models.JWTClaims) ([]models.GradeDetail, error)
	Update(ctx context.Context, id string, req dto.UpdateGradeRequest, actor *models.JWTClaims) (*models.GradeDetail, error)
}

// GradeHandler exposes marks endpoints.
type GradeHandler struct {
	service gradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(service gradeService) *GradeHandler {
	return &GradeHandler{service: service}
}

// List godoc
// @Summary List grades
// @Tags Grades
// @Produce json
// @Param offering_id query string false "Offering ID"
// @Param student_id query string false "Student ID (admin only)"
// @Success 200 {array} models.GradeDetail
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	query := dto.GradeQuery{OfferingID: c.Query("offering_id"), StudentID: c.Query("student_id")}
	grades, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}

// Update godoc
// @Summary Update grade scores
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Grade ID"
// @Param payload body dto.UpdateGradeRequest true "Scores"
// @Success 200 {object} models.GradeDetail
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /grades/{id} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	grade, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}
