package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-ledger-api/internal/dto"
	"github.com/noah-isme/sis-ledger-api/internal/models"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error)
	LecturerOwns(ctx context.Context, gradeID, lecturerID string) (bool, error)
	UpdateScores(ctx context.Context, grade *models.Grade) error
}

type profileResolver interface {
	studentResolver
	LecturerID(ctx context.Context, userID string) (string, error)
}

// GradeService exposes marks rows with role scoping.
type GradeService struct {
	repo      gradeRepository
	identity  profileResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(repo gradeRepository, identity profileResolver, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, identity: identity, validator: validate, logger: logger}
}

// List returns grades visible to the actor. Students see their own; lecturers see the
// offerings they teach unless an offering is named; admins may filter freely.
func (s *GradeService) List(ctx context.Context, query dto.GradeQuery, actor *models.JWTClaims) ([]models.GradeDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter := models.GradeFilter{OfferingID: query.OfferingID}
	switch actor.Role {
	case models.RoleStudent:
		profile, err := s.identity.StudentProfile(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.StudentID = profile.ID
	case models.RoleLecturer:
		if filter.OfferingID == "" {
			lecturerID, err := s.identity.LecturerID(ctx, actor.UserID)
			if err != nil {
				return nil, err
			}
			filter.LecturerID = lecturerID
		}
	case models.RoleAdmin:
		filter.StudentID = query.StudentID
	default:
		return nil, appErrors.ErrForbidden
	}

	grades, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.FromStore(err, "", "failed to list grades")
	}
	return grades, nil
}

// Update overwrites the scores of a marks row. Lecturers may only grade their own offerings.
func (s *GradeService) Update(ctx context.Context, id string, req dto.UpdateGradeRequest, actor *models.JWTClaims) (*models.GradeDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"invalid score range: attendance 0-10, midterm 0-30, final 0-60")
	}

	if actor.Role == models.RoleLecturer {
		lecturerID, err := s.identity.LecturerID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		owns, err := s.repo.LecturerOwns(ctx, id, lecturerID)
		if err != nil {
			return nil, appErrors.FromStore(err, "", "failed to check grade ownership")
		}
		if !owns {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "grade belongs to an offering you do not teach")
		}
	}

	grade := &models.Grade{
		ID:              id,
		AttendanceScore: scoreOrZero(req.AttendanceScore),
		MidtermScore:    scoreOrZero(req.MidtermScore),
		FinalScore:      scoreOrZero(req.FinalScore),
	}
	if err := s.repo.UpdateScores(ctx, grade); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade record not found")
		}
		return nil, appErrors.FromStore(err, "", "failed to update grade")
	}
	s.logger.Info("grade updated", zap.String("grade_id", id), zap.Float64("total_score", grade.Total()))
	return &models.GradeDetail{Grade: *grade, TotalScore: grade.Total()}, nil
}

func scoreOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
