package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/employee"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

type employeeRepository struct {
	db        *sql.DB
	publisher sse.Publisher
}

func NewEmployeeRepository(db *sql.DB, publisher sse.Publisher) employee.EmployeeRepository {
	return &employeeRepository{db: db, publisher: publisher}
}

const employeeColumns = `
	id, name, position, department, email, phone_number, join_date, date_of_birth,
	image_url, fingerprint, created_at, updated_at, deleted_at`

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		emp                     employee.Employee
		phone, imageURL, finger sql.NullString
		joinDate                string
		dob, deletedAt          sql.NullString
		createdAt, updatedAt    string
	)
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Position, &emp.Department, &emp.Email, &phone,
		&joinDate, &dob, &imageURL, &finger, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	if emp.JoinDate, err = time.Parse(time.DateOnly, joinDate); err != nil {
		return employee.Employee{}, err
	}
	if emp.DateOfBirth, err = parseNullDate(dob); err != nil {
		return employee.Employee{}, err
	}
	if emp.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if emp.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}
	if emp.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return employee.Employee{}, err
	}
	emp.PhoneNumber = nullString(phone)
	emp.ImageURL = nullString(imageURL)
	emp.Fingerprint = nullString(finger)

	return emp, nil
}

func employeePayload(emp employee.Employee) map[string]any {
	payload := map[string]any{
		"id":              emp.ID,
		"name":            emp.Name,
		"position":        emp.Position,
		"department":      emp.Department,
		"email":           emp.Email,
		"phone_number":    emp.PhoneNumber,
		"join_date":       emp.JoinDate.Format(time.DateOnly),
		"image_url":       emp.ImageURL,
		"has_fingerprint": emp.HasFingerprint(),
		"created_at":      emp.CreatedAt,
		"updated_at":      emp.UpdatedAt,
		"deleted_at":      emp.DeletedAt,
	}
	if emp.DateOfBirth != nil {
		payload["date_of_birth"] = emp.DateOfBirth.Format(time.DateOnly)
	}
	return payload
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := getQuerier(ctx, e.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}
	now := formatTime(time.Now())

	var dob *string
	if newEmployee.DateOfBirth != nil {
		s := newEmployee.DateOfBirth.Format(time.DateOnly)
		dob = &s
	}

	query := `
		INSERT INTO employees (id, name, position, department, email, phone_number, join_date, date_of_birth, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRowContext(ctx, query,
		id.String(),
		newEmployee.Name,
		newEmployee.Position,
		newEmployee.Department,
		newEmployee.Email,
		newEmployee.PhoneNumber,
		newEmployee.JoinDate.Format(time.DateOnly),
		dob,
		now,
		now,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	publish(ctx, e.publisher, sse.NewEvent(sse.TableEmployees, sse.OpInsert, employeePayload(created), nil))
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := getQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}

	return emp, nil
}

// ExistsByEmail implements employee.EmployeeRepository.
func (e *employeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error) {
	q := getQuerier(ctx, e.db)

	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM employees
			WHERE email = ?1 AND deleted_at IS NULL AND (?2 IS NULL OR id <> ?2)
		)
	`, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepository) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	updates := []string{}
	args := []any{}

	set := func(column string, value any) {
		updates = append(updates, column+" = ?")
		args = append(args, value)
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Position != nil {
		set("position", *req.Position)
	}
	if req.Department != nil {
		set("department", *req.Department)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.PhoneNumber != nil {
		set("phone_number", *req.PhoneNumber)
	}
	if req.JoinDate != nil {
		set("join_date", *req.JoinDate)
	}
	if req.DateOfBirth != nil {
		set("date_of_birth", *req.DateOfBirth)
	}

	if len(updates) == 0 {
		return nil
	}

	err := e.update(ctx, id, strings.Join(updates, ", "), args...)
	if isUniqueViolation(err) {
		return employee.ErrEmailExists
	}
	return err
}

// UpdateImage implements employee.EmployeeRepository.
func (e *employeeRepository) UpdateImage(ctx context.Context, id string, imageURL string) error {
	return e.update(ctx, id, "image_url = ?", imageURL)
}

// UpdateFingerprint implements employee.EmployeeRepository.
func (e *employeeRepository) UpdateFingerprint(ctx context.Context, id string, fingerprint *string) error {
	return e.update(ctx, id, "fingerprint = ?", fingerprint)
}

// SoftDelete implements employee.EmployeeRepository.
func (e *employeeRepository) SoftDelete(ctx context.Context, id string) error {
	return e.update(ctx, id, "deleted_at = ?", formatTime(time.Now()))
}

// update applies assignments to an active employee and publishes the new row.
func (e *employeeRepository) update(ctx context.Context, id string, assignments string, args ...any) error {
	q := getQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET ` + assignments + `, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
		RETURNING ` + employeeColumns

	args = append(args, formatTime(time.Now()), id)
	updated, err := scanEmployee(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}

	publish(ctx, e.publisher, sse.NewEvent(sse.TableEmployees, sse.OpUpdate, employeePayload(updated), nil))
	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := getQuerier(ctx, e.db)

	whereClauses := []string{}
	args := []any{}

	if !filter.IncludeDeleted {
		whereClauses = append(whereClauses, "deleted_at IS NULL")
	}
	if filter.Search != nil && *filter.Search != "" {
		// LIKE is case-insensitive for ASCII in SQLite.
		whereClauses = append(whereClauses, "(name LIKE ? OR email LIKE ? OR position LIKE ?)")
		pattern := "%" + *filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Department != nil && *filter.Department != "" {
		whereClauses = append(whereClauses, "department = ?")
		args = append(args, *filter.Department)
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	orderBy := "name"
	switch filter.SortBy {
	case "join_date":
		orderBy = "join_date"
	case "created_at":
		orderBy = "created_at"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		%s
		ORDER BY %s %s, id
		LIMIT ? OFFSET ?
	`, employeeColumns, where, orderBy, sortOrder)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	employees, err := e.queryEmployees(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return e.queryEmployees(ctx, getQuerier(ctx, e.db), `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE deleted_at IS NULL
		ORDER BY name, id
	`)
}

// CountActive implements employee.EmployeeRepository.
func (e *employeeRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := getQuerier(ctx, e.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

func (e *employeeRepository) queryEmployees(ctx context.Context, q querier, query string, args ...any) ([]employee.Employee, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
