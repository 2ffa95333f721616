package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-ledger-api/internal/dto"
	"github.com/noah-isme/sis-ledger-api/internal/middleware"
	"github.com/noah-isme/sis-ledger-api/internal/models"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
	"github.com/noah-isme/sis-ledger-api/pkg/export"
	"github.com/noah-isme/sis-ledger-api/pkg/response"
)

type feeService interface {
	ListFeeStructures(ctx context.Context) ([]models.FeeStructure, error)
	CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest) (*models.FeeStructure, error)
	AssignFee(ctx context.Context, req dto.AssignFeeRequest) (*models.Invoice, error)
	ListInvoices(ctx context.Context, query dto.InvoiceQuery, actor *models.JWTClaims) ([]models.InvoiceDetail, error)
	ExportInvoices(ctx context.Context, query dto.InvoiceQuery, format string, actor *models.JWTClaims) ([]byte, export.Format, error)
	ListPayments(ctx context.Context, invoiceID string, actor *models.JWTClaims) ([]models.Payment, error)
}

type paymentService interface {
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, actor *models.JWTClaims) (*models.PaymentResult, error)
}

// FinancialHandler exposes fee structure, invoice and payment endpoints.
type FinancialHandler struct {
	fees     feeService
	payments paymentService
}

// NewFinancialHandler builds a new handler.
func NewFinancialHandler(fees feeService, payments paymentService) *FinancialHandler {
	return &FinancialHandler{fees: fees, payments: payments}
}

// ListStructures godoc
// @Summary List fee structures
// @Tags Financial
// @Produce json
// @Success 200 {array} models.FeeStructure
// @Failure 401 {object} response.ErrorBody
// @Router /financial/structures [get]
func (h *FinancialHandler) ListStructures(c *gin.Context) {
	items, err := h.fees.ListFeeStructures(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// CreateStructure godoc
// @Summary Create a fee structure
// @Tags Financial
// @Accept json
// @Produce json
// @Param payload body dto.CreateFeeStructureRequest true "Fee structure"
// @Success 201 {object} models.FeeStructure
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /financial/structures [post]
func (h *FinancialHandler) CreateStructure(c *gin.Context) {
	var req dto.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee structure payload"))
		return
	}
	fs, err := h.fees.CreateFeeStructure(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, fs.ID)
	response.Created(c, fs)
}

// ListInvoices godoc
// @Summary List student fees
// @Description Students always receive their own invoices; admins may filter by student.
// @Tags Financial
// @Produce json
// @Param student_id query string false "Student ID (admin only)"
// @Success 200 {array} models.InvoiceDetail
// @Failure 403 {object} response.ErrorBody
// @Router /financial/student-fees [get]
func (h *FinancialHandler) ListInvoices(c *gin.Context) {
	items, err := h.fees.ListInvoices(c.Request.Context(), dto.InvoiceQuery{StudentID: c.Query("student_id")}, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// ExportInvoices godoc
// @Summary Download a fee statement
// @Tags Financial
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param student_id query string false "Student ID (admin only)"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorBody
// @Router /financial/student-fees/export [get]
func (h *FinancialHandler) ExportInvoices(c *gin.Context) {
	payload, format, err := h.fees.ExportInvoices(c.Request.Context(), dto.InvoiceQuery{StudentID: c.Query("student_id")}, c.Query("format"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("fee-statement-%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, format.ContentType(), payload)
}

// ListPayments godoc
// @Summary List payments recorded against a student fee
// @Tags Financial
// @Produce json
// @Param id path string true "Student fee ID"
// @Success 200 {array} models.Payment
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /financial/student-fees/{id}/payments [get]
func (h *FinancialHandler) ListPayments(c *gin.Context) {
	payments, err := h.fees.ListPayments(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments)
}

// AssignFee godoc
// @Summary Assign a fee structure to a student
// @Tags Financial
// @Accept json
// @Produce json
// @Param payload body dto.AssignFeeRequest true "Assignment"
// @Success 201 {object} models.Invoice
// @Failure 404 {object} response.ErrorBody
// @Router /financial/assign [post]
func (h *FinancialHandler) AssignFee(c *gin.Context) {
	var req dto.AssignFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee assignment payload"))
		return
	}
	invoice, err := h.fees.AssignFee(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, invoice.ID)
	response.Created(c, invoice)
}

// RecordPayment godoc
// @Summary Record a payment against a student fee
// @Tags Financial
// @Accept json
// @Produce json
// @Param payload body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} models.Payment
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /financial/pay [post]
func (h *FinancialHandler) RecordPayment(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}
	result, err := h.payments.RecordPayment(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, result.Payment.ID)
	response.Created(c, result.Payment)
}
