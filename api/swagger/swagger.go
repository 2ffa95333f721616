package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SIS Ledger API",
        "description": "Student fees, payments, enrollments and grades",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Financial", "description": "Fee structures, student fees and payments"},
        {"name": "Enrollments", "description": "Course offering enrollments"},
        {"name": "Grades", "description": "Attendance, midterm and final scores"}
    ],
    "paths": {
        "/financial/structures": {
            "get": {
                "tags": ["Financial"],
                "summary": "List fee structures",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/FeeStructure"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "post": {
                "tags": ["Financial"],
                "summary": "Create a fee structure",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateFeeStructureRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/FeeStructure"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/financial/student-fees": {
            "get": {
                "tags": ["Financial"],
                "summary": "List student fees",
                "description": "Students always receive their own invoices; admins may filter by student.",
                "parameters": [
                    {"in": "query", "name": "student_id", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/InvoiceDetail"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/financial/student-fees/export": {
            "get": {
                "tags": ["Financial"],
                "summary": "Download a fee statement",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"},
                    {"in": "query", "name": "student_id", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/financial/student-fees/{id}/payments": {
            "get": {
                "tags": ["Financial"],
                "summary": "List payments recorded against a student fee",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Payment"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/financial/assign": {
            "post": {
                "tags": ["Financial"],
                "summary": "Assign a fee structure to a student",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/AssignFeeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Invoice"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/financial/pay": {
            "post": {
                "tags": ["Financial"],
                "summary": "Record a payment against a student fee",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RecordPaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Payment"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "parameters": [
                    {"in": "query", "name": "student_id", "type": "string", "required": false},
                    {"in": "query", "name": "period_id", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Enrollment"}}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll a student in an offering",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateEnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollments/{id}": {
            "put": {
                "tags": ["Enrollments"],
                "summary": "Update enrollment status",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateEnrollmentStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enrollment"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete an enrollment and its grade record",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "List grades",
                "parameters": [
                    {"in": "query", "name": "offering_id", "type": "string", "required": false},
                    {"in": "query", "name": "student_id", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Grade"}}}
                }
            }
        },
        "/grades/{id}": {
            "put": {
                "tags": ["Grades"],
                "summary": "Update grade scores",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateGradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Grade"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "FeeStructure": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "department_id": {"type": "string"},
                "department_name": {"type": "string"},
                "academic_year": {"type": "string"},
                "semester": {"type": "integer"},
                "tuition_fee": {"type": "string"},
                "registration_fee": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "CreateFeeStructureRequest": {
            "type": "object",
            "required": ["academic_year", "semester"],
            "properties": {
                "department_id": {"type": "string"},
                "academic_year": {"type": "string"},
                "semester": {"type": "integer"},
                "tuition_fee": {"type": "string"},
                "registration_fee": {"type": "string"}
            }
        },
        "Invoice": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "student_id": {"type": "string"},
                "fee_structure_id": {"type": "string"},
                "total_amount": {"type": "string"},
                "paid_amount": {"type": "string"},
                "status": {"type": "string", "enum": ["unpaid", "partial", "paid"]},
                "due_date": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "InvoiceDetail": {
            "allOf": [
                {"$ref": "#/definitions/Invoice"},
                {
                    "type": "object",
                    "properties": {
                        "first_name": {"type": "string"},
                        "last_name": {"type": "string"},
                        "student_id_card": {"type": "string"},
                        "academic_year": {"type": "string"},
                        "semester": {"type": "integer"},
                        "tuition_fee": {"type": "string"}
                    }
                }
            ]
        },
        "AssignFeeRequest": {
            "type": "object",
            "required": ["student_id", "fee_structure_id"],
            "properties": {
                "student_id": {"type": "string"},
                "fee_structure_id": {"type": "string"},
                "due_date": {"type": "string", "format": "date"}
            }
        },
        "Payment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "student_fee_id": {"type": "string"},
                "amount": {"type": "string"},
                "payment_method": {"type": "string"},
                "notes": {"type": "string"},
                "processed_by": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "RecordPaymentRequest": {
            "type": "object",
            "required": ["student_fee_id", "amount"],
            "properties": {
                "student_fee_id": {"type": "string"},
                "amount": {"type": "string"},
                "payment_method": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "Enrollment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "student_id": {"type": "string"},
                "offering_id": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "dropped", "completed"]},
                "enrolled_at": {"type": "string", "format": "date-time"}
            }
        },
        "CreateEnrollmentRequest": {
            "type": "object",
            "required": ["offering_id"],
            "properties": {
                "student_id": {"type": "string"},
                "offering_id": {"type": "string"}
            }
        },
        "UpdateEnrollmentStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["active", "dropped", "completed"]}
            }
        },
        "Grade": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "enrollment_id": {"type": "string"},
                "attendance_score": {"type": "number"},
                "midterm_score": {"type": "number"},
                "final_score": {"type": "number"},
                "total_score": {"type": "number"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "UpdateGradeRequest": {
            "type": "object",
            "properties": {
                "attendance_score": {"type": "number", "minimum": 0, "maximum": 10},
                "midterm_score": {"type": "number", "minimum": 0, "maximum": 30},
                "final_score": {"type": "number", "minimum": 0, "maximum": 60}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
