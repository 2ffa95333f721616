package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-ledger-api/internal/dto"
	"github.com/noah-isme/sis-ledger-api/internal/models"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	Exists(ctx context.Context, studentID, offeringID string) (bool, error)
	CreateWithGrade(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
}

const duplicateEnrollmentMessage = "student is already enrolled in this course"

// EnrollmentService keeps enrollments and their marks rows consistent.
type EnrollmentService struct {
	repo      enrollmentRepository
	identity  studentResolver
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService. metrics may be nil.
func NewEnrollmentService(repo enrollmentRepository, identity studentResolver, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, identity: identity, metrics: metrics, validator: validate, logger: logger}
}

// List returns enrollments. Students are restricted to their own regardless of filters.
func (s *EnrollmentService) List(ctx context.Context, query dto.EnrollmentQuery, actor *models.JWTClaims) ([]models.EnrollmentDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter := models.EnrollmentFilter{StudentID: query.StudentID, PeriodID: query.PeriodID}
	if actor.Role == models.RoleStudent {
		profile, err := s.identity.StudentProfile(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.StudentID = profile.ID
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.FromStore(err, "", "failed to list enrollments")
	}
	return items, nil
}

// Create enrolls a student and initialises the marks row in the same transaction.
// Student callers always enroll themselves; other callers must name the student.
func (s *EnrollmentService) Create(ctx context.Context, req dto.CreateEnrollmentRequest, actor *models.JWTClaims) (*models.Enrollment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	studentID := strings.TrimSpace(req.StudentID)
	if actor.Role == models.RoleStudent {
		profile, err := s.identity.StudentProfile(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		studentID = profile.ID
	} else if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}

	exists, err := s.repo.Exists(ctx, studentID, req.OfferingID)
	if err != nil {
		s.metrics.RecordEnrollment("create", appErrors.ErrInternal.Code)
		return nil, appErrors.FromStore(err, "", "failed to validate enrollment")
	}
	if exists {
		s.metrics.RecordEnrollment("create", appErrors.ErrConflict.Code)
		return nil, appErrors.Clone(appErrors.ErrConflict, duplicateEnrollmentMessage)
	}

	enrollment := &models.Enrollment{StudentID: studentID, OfferingID: req.OfferingID}
	if err := s.repo.CreateWithGrade(ctx, enrollment); err != nil {
		appErr := appErrors.FromStore(err, duplicateEnrollmentMessage, "failed to create enrollment")
		s.metrics.RecordEnrollment("create", appErr.Code)
		return nil, appErr
	}

	s.metrics.RecordEnrollment("create", "ok")
	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("student_id", enrollment.StudentID),
		zap.String("offering_id", enrollment.OfferingID))
	return enrollment, nil
}

// UpdateStatus sets any known status regardless of the current one.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, req dto.UpdateEnrollmentStatusRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	status := models.EnrollmentStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be one of active, dropped, completed")
	}

	enrollment, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.FromStore(err, "", "failed to update enrollment")
	}
	s.metrics.RecordEnrollment("update_status", "ok")
	s.logger.Info("enrollment status updated", zap.String("enrollment_id", id), zap.String("status", string(status)))
	return enrollment, nil
}

// Delete removes an enrollment together with its marks row.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.FromStore(err, "", "failed to delete enrollment")
	}
	s.metrics.RecordEnrollment("delete", "ok")
	s.logger.Info("enrollment deleted", zap.String("enrollment_id", id))
	return nil
}
