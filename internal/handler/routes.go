package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-ledger-api/internal/middleware"
	"github.com/noah-isme/sis-ledger-api/internal/models"
)

// Audit actions recorded for mutating routes.
const (
	ActionFeeStructureCreate = "FEE_STRUCTURE_CREATE"
	ActionFeeAssign          = "FEE_ASSIGN"
	ActionPaymentRecord      = "PAYMENT_RECORD"
	ActionEnrollmentCreate   = "ENROLLMENT_CREATE"
	ActionEnrollmentUpdate   = "ENROLLMENT_UPDATE"
	ActionEnrollmentDelete   = "ENROLLMENT_DELETE"
	ActionGradeUpdate        = "GRADE_UPDATE"
)

// Handlers groups the resource handlers mounted under the API prefix.
type Handlers struct {
	Financial  *FinancialHandler
	Enrollment *EnrollmentHandler
	Grade      *GradeHandler
}

// RegisterRoutes mounts the API on group. authenticate must place *models.JWTClaims
// under middleware.ContextUserKey; in production it is middleware.JWT.
func RegisterRoutes(group *gin.RouterGroup, authenticate gin.HandlerFunc, recorder middleware.AuditRecorder, h Handlers) {
	authenticated := middleware.RequireRoles(models.RoleAdmin, models.RoleLecturer, models.RoleStudent)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := group.Group("")
	api.Use(authenticate)

	financial := api.Group("/financial")
	{
		financial.GET("/structures", authenticated, h.Financial.ListStructures)
		financial.POST("/structures", adminOnly,
			middleware.Audit(recorder, ActionFeeStructureCreate, "fee_structures"), h.Financial.CreateStructure)
		financial.GET("/student-fees", authenticated, h.Financial.ListInvoices)
		financial.GET("/student-fees/export", authenticated, h.Financial.ExportInvoices)
		financial.GET("/student-fees/:id/payments", authenticated, h.Financial.ListPayments)
		financial.POST("/assign", adminOnly,
			middleware.Audit(recorder, ActionFeeAssign, "student_fees"), h.Financial.AssignFee)
		financial.POST("/pay", adminOnly,
			middleware.Audit(recorder, ActionPaymentRecord, "payments"), h.Financial.RecordPayment)
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.GET("", authenticated, h.Enrollment.List)
		enrollments.POST("", authenticated,
			middleware.Audit(recorder, ActionEnrollmentCreate, "enrollments"), h.Enrollment.Create)
		enrollments.PUT("/:id", adminOnly,
			middleware.Audit(recorder, ActionEnrollmentUpdate, "enrollments"), h.Enrollment.UpdateStatus)
		enrollments.DELETE("/:id", adminOnly,
			middleware.Audit(recorder, ActionEnrollmentDelete, "enrollments"), h.Enrollment.Delete)
	}

	grades := api.Group("/grades")
	{
		grades.GET("", authenticated, h.Grade.List)
		grades.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLecturer),
			middleware.Audit(recorder, ActionGradeUpdate, "marks"), h.Grade.Update)
	}
}

// RegisterHealthRoutes mounts probes and the metrics endpoint outside the API prefix.
func RegisterHealthRoutes(r gin.IRoutes, h *HealthHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
}
