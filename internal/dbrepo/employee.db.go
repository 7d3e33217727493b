package dbrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

// ============================== Employee Repository ==============================
type EmployeeRepo struct {
	db *pgxpool.Pool
}

func NewEmployeeRepo(db *pgxpool.Pool) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

// GetEmployeeByEmail fetches an employee by email, including the password hash
func (user *EmployeeRepo) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query := `SELECT id, fname, lname, role, status, email, password, mobile, company_id, created_at, updated_at FROM employees WHERE email=$1`
	e := &models.Employee{}
	err := user.db.QueryRow(ctx, query, email).Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Role, &e.Status, &e.Email, &e.Password,
		&e.Mobile, &e.CompanyID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("No user found")
		}
		return nil, err
	}
	return e, nil
}
