package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-ledger-api/internal/models"
	"github.com/noah-isme/sis-ledger-api/pkg/cache"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
)

type identityRepository interface {
	FindStudentByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	FindLecturerIDByUserID(ctx context.Context, userID string) (string, error)
}

// IdentityService maps authenticated accounts to their student or lecturer profiles.
type IdentityService struct {
	repo   identityRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewIdentityService constructs the resolver. cache may be nil.
func NewIdentityService(repo identityRepository, cache *CacheService, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{repo: repo, cache: cache, logger: logger}
}

// StudentProfile returns the student bound to userID or NotFound "student profile not found".
func (s *IdentityService) StudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	key := cache.Key("profile", "student", userID)
	var cached models.StudentProfile
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	profile, err := s.repo.FindStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student profile")
	}
	s.cache.Set(ctx, key, profile, 0)
	return profile, nil
}

// LecturerID returns the lecturer id bound to userID or NotFound "lecturer profile not found".
func (s *IdentityService) LecturerID(ctx context.Context, userID string) (string, error) {
	key := cache.Key("profile", "lecturer", userID)
	var cached string
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	id, err := s.repo.FindLecturerIDByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "lecturer profile not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve lecturer profile")
	}
	s.cache.Set(ctx, key, id, 0)
	return id, nil
}
