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

type paymentRepository interface {
	RecordPayment(ctx context.Context, payment *models.Payment) (*models.PaymentResult, error)
}

// PaymentService records payments against invoices.
type PaymentService struct {
	repo      paymentRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService. metrics may be nil.
func NewPaymentService(repo paymentRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, metrics: metrics, validator: validate, logger: logger}
}

// RecordPayment appends a payment and applies it to the invoice balance atomically.
// The invoice comes back with its recomputed paid amount and status.
func (s *PaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, actor *models.JWTClaims) (*models.PaymentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if !req.Amount.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be greater than zero")
	}

	payment := &models.Payment{
		StudentFeeID:  req.StudentFeeID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if actor != nil && actor.UserID != "" {
		processedBy := actor.UserID
		payment.ProcessedBy = &processedBy
	}

	result, err := s.repo.RecordPayment(ctx, payment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		s.logger.Error("payment failed", zap.String("invoice_id", req.StudentFeeID), zap.Error(err))
		return nil, appErrors.FromStore(err, "duplicate payment", "failed to record payment")
	}

	s.metrics.RecordPayment(result.Payment.Amount, string(result.Invoice.Status))
	s.logger.Info("payment recorded",
		zap.String("payment_id", result.Payment.ID),
		zap.String("invoice_id", result.Invoice.ID),
		zap.String("amount", result.Payment.Amount.StringFixed(2)),
		zap.String("paid_amount", result.Invoice.PaidAmount.StringFixed(2)),
		zap.String("status", string(result.Invoice.Status)))
	return result, nil
}
