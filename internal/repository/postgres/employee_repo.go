// internal/repository/postgres/employee_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"shiftcare-service/internal/domain/workforce"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmployeeRepository struct {
	db *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create creates a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, emp *workforce.Employee) error {
	query := `
		INSERT INTO employees (account_id, name, min_work_hours, max_work_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		emp.AccountID, emp.Name, emp.MinWorkHours, emp.MaxWorkHours,
	).Scan(&emp.ID, &emp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// FindByID retrieves an employee scoped to the owning account.
func (r *EmployeeRepository) FindByID(ctx context.Context, accountID, id int64) (*workforce.Employee, error) {
	query := `
		SELECT id, account_id, name, min_work_hours, max_work_hours, created_at
		FROM employees
		WHERE id = $1 AND account_id = $2
	`

	var emp workforce.Employee
	err := r.db.QueryRow(ctx, query, id, accountID).Scan(
		&emp.ID, &emp.AccountID, &emp.Name, &emp.MinWorkHours, &emp.MaxWorkHours, &emp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return &emp, nil
}

// ListByAccount returns all employees of an account ordered by creation.
func (r *EmployeeRepository) ListByAccount(ctx context.Context, accountID int64) ([]*workforce.Employee, error) {
	query := `
		SELECT id, account_id, name, min_work_hours, max_work_hours, created_at
		FROM employees
		WHERE account_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*workforce.Employee
	for rows.Next() {
		var emp workforce.Employee
		if err := rows.Scan(&emp.ID, &emp.AccountID, &emp.Name, &emp.MinWorkHours, &emp.MaxWorkHours, &emp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, &emp)
	}
	return employees, rows.Err()
}

// CountByAccount returns how many employees the account currently has.
func (r *EmployeeRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// Update rewrites the employee's mutable fields.
func (r *EmployeeRepository) Update(ctx context.Context, emp *workforce.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, min_work_hours = $2, max_work_hours = $3
		WHERE id = $4 AND account_id = $5
	`

	result, err := r.db.Exec(ctx, query,
		emp.Name, emp.MinWorkHours, emp.MaxWorkHours, emp.ID, emp.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes an employee scoped to the owning account.
func (r *EmployeeRepository) Delete(ctx context.Context, accountID, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
