package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-ledger-api/internal/dto"
	"github.com/noah-isme/sis-ledger-api/internal/middleware"
	"github.com/noah-isme/sis-ledger-api/internal/models"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
	"github.com/noah-isme/sis-ledger-api/pkg/export"
	"github.com/noah-isme/sis-ledger-api/pkg/response"
)

type fakeFeeService struct {
	structures  []models.FeeStructure
	created     *models.FeeStructure
	invoice     *models.Invoice
	invoices    []models.InvoiceDetail
	payments    []models.Payment
	exported    []byte
	err         error
	lastQuery   dto.InvoiceQuery
	lastActor   *models.JWTClaims
	lastFormat  string
	lastPayload dto.AssignFeeRequest
}

func (f *fakeFeeService) ListFeeStructures(context.Context) ([]models.FeeStructure, error) {
	return f.structures, f.err
}

func (f *fakeFeeService) CreateFeeStructure(context.Context, dto.CreateFeeStructureRequest) (*models.FeeStructure, error) {
	return f.created, f.err
}

func (f *fakeFeeService) AssignFee(_ context.Context, req dto.AssignFeeRequest) (*models.Invoice, error) {
	f.lastPayload = req
	return f.invoice, f.err
}

func (f *fakeFeeService) ListInvoices(_ context.Context, query dto.InvoiceQuery, actor *models.JWTClaims) ([]models.InvoiceDetail, error) {
	f.lastQuery = query
	f.lastActor = actor
	return f.invoices, f.err
}

func (f *fakeFeeService) ExportInvoices(_ context.Context, query dto.InvoiceQuery, format string, actor *models.JWTClaims) ([]byte, export.Format, error) {
	f.lastQuery = query
	f.lastFormat = format
	f.lastActor = actor
	if f.err != nil {
		return nil, "", f.err
	}
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error())
	}
	return f.exported, parsed, nil
}

func (f *fakeFeeService) ListPayments(_ context.Context, _ string, actor *models.JWTClaims) ([]models.Payment, error) {
	f.lastActor = actor
	return f.payments, f.err
}

type fakePaymentService struct {
	result *models.PaymentResult
	err    error
	actor  *models.JWTClaims
	req    dto.RecordPaymentRequest
}

func (f *fakePaymentService) RecordPayment(_ context.Context, req dto.RecordPaymentRequest, actor *models.JWTClaims) (*models.PaymentResult, error) {
	f.req = req
	f.actor = actor
	return f.result, f.err
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFinancialHandlerListStructures(t *testing.T) {
	fees := &fakeFeeService{structures: []models.FeeStructure{{ID: "fs-1", AcademicYear: "2024-2025", Semester: 1}}}
	handler := NewFinancialHandler(fees, &fakePaymentService{})

	c, rec := newTestContext(http.MethodGet, "/financial/structures", nil)
	handler.ListStructures(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var items []models.FeeStructure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "fs-1", items[0].ID)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestFinancialHandlerCreateStructureRejectsMalformedJSON(t *testing.T) {
	handler := NewFinancialHandler(&fakeFeeService{}, &fakePaymentService{})

	c, rec := newTestContext(http.MethodPost, "/financial/structures", []byte(`{"semester":"one"`))
	handler.CreateStructure(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeError(t, rec).Code)
}

func TestFinancialHandlerCreateStructureSetsAuditResource(t *testing.T) {
	fees := &fakeFeeService{created: &models.FeeStructure{ID: "fs-9"}}
	handler := NewFinancialHandler(fees, &fakePaymentService{})

	c, rec := newTestContext(http.MethodPost, "/financial/structures",
		[]byte(`{"academic_year":"2024-2025","semester":1,"tuition_fee":"400","registration_fee":"50"}`))
	handler.CreateStructure(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "fs-9", c.GetString("auditResourceID"))
}

func TestFinancialHandlerListInvoicesPassesActorAndFilter(t *testing.T) {
	fees := &fakeFeeService{invoices: []models.InvoiceDetail{}}
	handler := NewFinancialHandler(fees, &fakePaymentService{})
	actor := &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}

	c, rec := newTestContext(http.MethodGet, "/financial/student-fees?student_id=stu-1", nil)
	c.Set(middleware.ContextUserKey, actor)
	handler.ListInvoices(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", fees.lastQuery.StudentID)
	assert.Same(t, actor, fees.lastActor)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFinancialHandlerListInvoicesForbidden(t *testing.T) {
	fees := &fakeFeeService{err: appErrors.Clone(appErrors.ErrForbidden, "lecturers cannot view student fees")}
	handler := NewFinancialHandler(fees, &fakePaymentService{})

	c, rec := newTestContext(http.MethodGet, "/financial/student-fees", nil)
	handler.ListInvoices(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "lecturers cannot view student fees", decodeError(t, rec).Error)
}

func TestFinancialHandlerExportInvoicesWritesAttachment(t *testing.T) {
	fees := &fakeFeeService{exported: []byte("id,status\n")}
	handler := NewFinancialHandler(fees, &fakePaymentService{})

	c, rec := newTestContext(http.MethodGet, "/financial/student-fees/export?format=csv", nil)
	handler.ExportInvoices(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", fees.lastFormat)
	assert.Equal(t, export.FormatCSV.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "fee-statement-")
	assert.Equal(t, "id,status\n", rec.Body.String())
}

func TestFinancialHandlerExportInvoicesInvalidFormat(t *testing.T) {
	handler := NewFinancialHandler(&fakeFeeService{}, &fakePaymentService{})

	c, rec := newTestContext(http.MethodGet, "/financial/student-fees/export?format=docx", nil)
	handler.ExportInvoices(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinancialHandlerListPaymentsNotFound(t *testing.T) {
	fees := &fakeFeeService{err: appErrors.Clone(appErrors.ErrNotFound, "invoice not found")}
	handler := NewFinancialHandler(fees, &fakePaymentService{})

	c, rec := newTestContext(http.MethodGet, "/financial/student-fees/missing/payments", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.ListPayments(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "invoice not found", decodeError(t, rec).Error)
}

func TestFinancialHandlerAssignFee(t *testing.T) {
	fees := &fakeFeeService{invoice: &models.Invoice{ID: "inv-1", Status: models.InvoiceStatusUnpaid}}
	handler := NewFinancialHandler(fees, &fakePaymentService{})

	c, rec := newTestContext(http.MethodPost, "/financial/assign",
		[]byte(`{"student_id":"stu-1","fee_structure_id":"fs-1","due_date":"2025-01-31"}`))
	handler.AssignFee(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "stu-1", fees.lastPayload.StudentID)
	require.NotNil(t, fees.lastPayload.DueDate)
	assert.Equal(t, "2025-01-31", *fees.lastPayload.DueDate)
	assert.Contains(t, rec.Body.String(), `"status":"unpaid"`)
}

func TestFinancialHandlerRecordPaymentReturnsPaymentRow(t *testing.T) {
	payments := &fakePaymentService{result: &models.PaymentResult{
		Payment: models.Payment{ID: "pay-1", StudentFeeID: "inv-1", Amount: decimal.RequireFromString("100")},
		Invoice: models.Invoice{ID: "inv-1", Status: models.InvoiceStatusPartial},
	}}
	handler := NewFinancialHandler(&fakeFeeService{}, payments)
	actor := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}

	c, rec := newTestContext(http.MethodPost, "/financial/pay", []byte(`{"student_fee_id":"inv-1","amount":"100"}`))
	c.Set(middleware.ContextUserKey, actor)
	handler.RecordPayment(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, payments.req.Amount.Equal(decimal.NewFromInt(100)))
	assert.Same(t, actor, payments.actor)

	var payment models.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payment))
	assert.Equal(t, "pay-1", payment.ID)
	assert.NotContains(t, rec.Body.String(), `"invoice"`)
	assert.Equal(t, "pay-1", c.GetString("auditResourceID"))
}

func TestFinancialHandlerRecordPaymentUnknownInvoice(t *testing.T) {
	payments := &fakePaymentService{err: appErrors.Clone(appErrors.ErrNotFound, "invoice not found")}
	handler := NewFinancialHandler(&fakeFeeService{}, payments)

	c, rec := newTestContext(http.MethodPost, "/financial/pay", []byte(`{"student_fee_id":"nope","amount":"10"}`))
	handler.RecordPayment(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "invoice not found", decodeError(t, rec).Error)
}
