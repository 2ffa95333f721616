package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-ledger-api/internal/models"
)

// FeeStructureRepository persists fee structures. Structures are insert-only.
type FeeStructureRepository struct {
	db *sqlx.DB
}

// NewFeeStructureRepository constructs the repository.
func NewFeeStructureRepository(db *sqlx.DB) *FeeStructureRepository {
	return &FeeStructureRepository{db: db}
}

// List returns every structure with its department name, newest academic year first.
func (r *FeeStructureRepository) List(ctx context.Context) ([]models.FeeStructure, error) {
	const query = `SELECT fs.id, fs.department_id, fs.academic_year, fs.semester, fs.tuition_fee, fs.registration_fee, fs.created_at,
        d.name AS department_name
        FROM fee_structures fs
        LEFT JOIN departments d ON fs.department_id = d.id
        ORDER BY fs.academic_year DESC`
	structures := []models.FeeStructure{}
	if err := r.db.SelectContext(ctx, &structures, query); err != nil {
		return nil, fmt.Errorf("list fee structures: %w", err)
	}
	return structures, nil
}

// FindByID returns a structure by ID.
func (r *FeeStructureRepository) FindByID(ctx context.Context, id string) (*models.FeeStructure, error) {
	const query = `SELECT id, department_id, academic_year, semester, tuition_fee, registration_fee, created_at FROM fee_structures WHERE id = $1`
	var fs models.FeeStructure
	if err := r.db.GetContext(ctx, &fs, query, id); err != nil {
		return nil, err
	}
	return &fs, nil
}

// Create inserts a new structure.
func (r *FeeStructureRepository) Create(ctx context.Context, fs *models.FeeStructure) error {
	if fs.ID == "" {
		fs.ID = uuid.NewString()
	}
	if fs.CreatedAt.IsZero() {
		fs.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO fee_structures (id, department_id, academic_year, semester, tuition_fee, registration_fee, created_at)
        VALUES (:id, :department_id, :academic_year, :semester, :tuition_fee, :registration_fee, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fs); err != nil {
		return fmt.Errorf("create fee structure: %w", err)
	}
	return nil
}
