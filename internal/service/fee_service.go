package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-ledger-api/internal/dto"
	"github.com/noah-isme/sis-ledger-api/internal/models"
	"github.com/noah-isme/sis-ledger-api/pkg/cache"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
	"github.com/noah-isme/sis-ledger-api/pkg/export"
)

type feeStructureRepository interface {
	List(ctx context.Context) ([]models.FeeStructure, error)
	FindByID(ctx context.Context, id string) (*models.FeeStructure, error)
	Create(ctx context.Context, fs *models.FeeStructure) error
}

type invoiceRepository interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceDetail, error)
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	ListPayments(ctx context.Context, invoiceID string) ([]models.Payment, error)
}

type studentResolver interface {
	StudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error)
}

var feeStructuresCacheKey = cache.Key("fee-structures")

// FeeService manages fee structures and the invoices assigned from them.
type FeeService struct {
	structures feeStructureRepository
	invoices   invoiceRepository
	identity   studentResolver
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewFeeService constructs a FeeService. cache may be nil.
func NewFeeService(structures feeStructureRepository, invoices invoiceRepository, identity studentResolver, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{structures: structures, invoices: invoices, identity: identity, cache: cache, validator: validate, logger: logger}
}

// ListFeeStructures returns every structure, newest academic year first.
func (s *FeeService) ListFeeStructures(ctx context.Context) ([]models.FeeStructure, error) {
	var cached []models.FeeStructure
	if s.cache.Get(ctx, feeStructuresCacheKey, &cached) {
		return cached, nil
	}
	items, err := s.structures.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fee structures")
	}
	s.cache.Set(ctx, feeStructuresCacheKey, items, 0)
	return items, nil
}

// CreateFeeStructure validates and stores a new structure.
func (s *FeeService) CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest) (*models.FeeStructure, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee structure payload")
	}
	if req.TuitionFee.IsNegative() || req.RegistrationFee.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fees must be non-negative")
	}

	fs := &models.FeeStructure{
		DepartmentID:    req.DepartmentID,
		AcademicYear:    req.AcademicYear,
		Semester:        req.Semester,
		TuitionFee:      req.TuitionFee,
		RegistrationFee: req.RegistrationFee,
	}
	if err := s.structures.Create(ctx, fs); err != nil {
		return nil, appErrors.FromStore(err, "fee structure already exists", "failed to create fee structure")
	}
	s.cache.Invalidate(ctx, feeStructuresCacheKey)
	s.logger.Info("fee structure created", zap.String("fee_structure_id", fs.ID), zap.String("academic_year", fs.AcademicYear), zap.Int("semester", fs.Semester))
	return fs, nil
}

// AssignFee creates an invoice whose total is frozen from the structure at this moment.
func (s *FeeService) AssignFee(ctx context.Context, req dto.AssignFeeRequest) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee assignment payload")
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "due_date must be YYYY-MM-DD")
		}
		dueDate = &parsed
	}

	fs, err := s.structures.FindByID(ctx, req.FeeStructureID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee structure not found")
		}
		return nil, appErrors.FromStore(err, "", "failed to load fee structure")
	}

	invoice := &models.Invoice{
		StudentID:      req.StudentID,
		FeeStructureID: fs.ID,
		TotalAmount:    fs.Total(),
		Status:         models.InvoiceStatusUnpaid,
		DueDate:        dueDate,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, appErrors.FromStore(err, "fee already assigned", "failed to assign fee")
	}
	s.logger.Info("fee assigned",
		zap.String("invoice_id", invoice.ID),
		zap.String("student_id", invoice.StudentID),
		zap.String("total_amount", invoice.TotalAmount.StringFixed(2)))
	return invoice, nil
}

// ListInvoices returns invoices visible to the actor. Students only ever see their own.
func (s *FeeService) ListInvoices(ctx context.Context, query dto.InvoiceQuery, actor *models.JWTClaims) ([]models.InvoiceDetail, error) {
	filter, err := s.invoiceScope(ctx, query, actor)
	if err != nil {
		return nil, err
	}
	items, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, appErrors.FromStore(err, "", "failed to list invoices")
	}
	return items, nil
}

// ExportInvoices renders the actor's visible invoices as a fee statement.
func (s *FeeService) ExportInvoices(ctx context.Context, query dto.InvoiceQuery, rawFormat string, actor *models.JWTClaims) ([]byte, export.Format, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv, pdf or xlsx")
	}
	items, err := s.ListInvoices(ctx, query, actor)
	if err != nil {
		return nil, "", err
	}

	payload, err := export.Render(format, invoiceDataset(items))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render fee statement")
	}
	return payload, format, nil
}

// ListPayments returns the payment history of an invoice. Students may only read their own.
func (s *FeeService) ListPayments(ctx context.Context, invoiceID string, actor *models.JWTClaims) ([]models.Payment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.FromStore(err, "", "failed to load invoice")
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleStudent:
		profile, err := s.identity.StudentProfile(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if profile.ID != invoice.StudentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "invoice belongs to another student")
		}
	default:
		return nil, appErrors.ErrForbidden
	}

	payments, err := s.invoices.ListPayments(ctx, invoice.ID)
	if err != nil {
		return nil, appErrors.FromStore(err, "", "failed to list payments")
	}
	return payments, nil
}

func (s *FeeService) invoiceScope(ctx context.Context, query dto.InvoiceQuery, actor *models.JWTClaims) (models.InvoiceFilter, error) {
	if actor == nil {
		return models.InvoiceFilter{}, appErrors.ErrUnauthorized
	}
	switch actor.Role {
	case models.RoleStudent:
		profile, err := s.identity.StudentProfile(ctx, actor.UserID)
		if err != nil {
			return models.InvoiceFilter{}, err
		}
		return models.InvoiceFilter{StudentID: profile.ID}, nil
	case models.RoleAdmin:
		return models.InvoiceFilter{StudentID: query.StudentID}, nil
	default:
		return models.InvoiceFilter{}, appErrors.Clone(appErrors.ErrForbidden, "only admins and students can view fees")
	}
}

func invoiceDataset(items []models.InvoiceDetail) export.Dataset {
	data := export.Dataset{
		Title:   "Student Fee Statement",
		Headers: []string{"Student ID", "Name", "Academic Year", "Semester", "Total", "Paid", "Balance", "Status", "Due Date"},
		Rows:    make([][]string, 0, len(items)),
	}
	for _, inv := range items {
		due := ""
		if inv.DueDate != nil {
			due = inv.DueDate.Format("2006-01-02")
		}
		data.Rows = append(data.Rows, []string{
			inv.StudentIDCard,
			inv.FirstName + " " + inv.LastName,
			inv.AcademicYear,
			fmt.Sprintf("%d", inv.Semester),
			inv.TotalAmount.StringFixed(2),
			inv.PaidAmount.StringFixed(2),
			inv.Balance().StringFixed(2),
			string(inv.Status),
			due,
		})
	}
	data.Footer = []string{fmt.Sprintf("%d invoice(s)", len(items))}
	return data
}
