package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sis-ledger-api/internal/models"
	"github.com/noah-isme/sis-ledger-api/internal/repository"
	"github.com/noah-isme/sis-ledger-api/pkg/config"
	"github.com/noah-isme/sis-ledger-api/pkg/database"
	"github.com/noah-isme/sis-ledger-api/pkg/logger"
)

type seedAccount struct {
	username string
	email    string
	password string
	role     models.UserRole
}

var (
	seedAccounts = []seedAccount{
		{username: "admin", email: "admin@itc.edu.kh", password: "admin123", role: models.RoleAdmin},
		{username: "student1", email: "student1@itc.edu.kh", password: "student123", role: models.RoleStudent},
	}
	seedDepartments = []models.Department{
		{Name: "Génie Informatique et Communication", Code: "GIC"},
		{Name: "Génie Electrique et Energétique", Code: "GEE"},
		{Name: "Génie Civil", Code: "GCI"},
	}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("migration failed", zap.Error(err))
	}
	if err := seed(ctx, repository.NewUserRepository(db), logr); err != nil {
		logr.Fatal("seed failed", zap.Error(err))
	}
	logr.Info("seed completed")
}

func seed(ctx context.Context, users *repository.UserRepository, logr *zap.Logger) error {
	departments := make(map[string]string, len(seedDepartments))
	for i := range seedDepartments {
		dept := seedDepartments[i]
		if err := users.UpsertDepartment(ctx, &dept); err != nil {
			return err
		}
		departments[dept.Code] = dept.ID
	}

	accounts := make(map[string]*models.User, len(seedAccounts))
	for _, account := range seedAccounts {
		user, created, err := ensureUser(ctx, users, account)
		if err != nil {
			return err
		}
		accounts[account.username] = user
		logr.Info("account ready", zap.String("username", user.Username), zap.Bool("created", created))
	}

	student := accounts["student1"]
	if _, err := users.FindStudentByUserID(ctx, student.ID); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	gender := "Male"
	generation := "Gen 43"
	deptID := departments["GIC"]
	return users.CreateStudentProfile(ctx, &models.StudentProfile{
		UserID:        &student.ID,
		StudentIDCard: "e20200001",
		FirstName:     "Sok",
		LastName:      "Dara",
		Gender:        &gender,
		DepartmentID:  &deptID,
		Generation:    &generation,
	})
}

func ensureUser(ctx context.Context, users *repository.UserRepository, account seedAccount) (*models.User, bool, error) {
	existing, err := users.FindByUsername(ctx, account.username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password for %s: %w", account.username, err)
	}
	user := &models.User{
		Username:     account.username,
		Email:        account.email,
		PasswordHash: string(hash),
		Role:         account.role,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
