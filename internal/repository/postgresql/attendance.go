package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, to_char(a.date, 'YYYY-MM-DD'), a.time_in, a.time_out, a.status, a.note,
	a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, extra ...any) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	dest := []any{
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.TimeIn, &rec.TimeOut, &rec.Status, &rec.Note,
		&rec.CreatedAt, &rec.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return rec, err
}

// ClockIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) ClockIn(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	// A row without time_in (leave, pre-recorded absence) is claimed by the clock-in;
	// a row that already has one is left untouched and nothing is returned.
	query := `
		INSERT INTO attendance_records AS a (id, employee_id, date, time_in, status, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET time_in = EXCLUDED.time_in,
			status = EXCLUDED.status,
			note = CASE
				WHEN EXCLUDED.note IS NULL THEN a.note
				WHEN a.note IS NULL OR a.note = '' THEN EXCLUDED.note
				ELSE a.note || '; ' || EXCLUDED.note
			END,
			updated_at = NOW()
		WHERE a.time_in IS NULL
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		id.String(), rec.EmployeeID, rec.Date, rec.TimeIn, rec.Status, rec.Note,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to clock in: %w", err)
	}

	return created, nil
}

// ClockOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) ClockOut(ctx context.Context, employeeID string, date string, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records AS a
		SET time_out = GREATEST($3, a.time_in),
			note = CASE
				WHEN $4::text = '' THEN a.note
				WHEN a.note IS NULL OR a.note = '' THEN $4::text
				ELSE a.note || '; ' || $4::text
			END,
			updated_at = NOW()
		WHERE a.employee_id = $1 AND a.date = $2 AND a.time_in IS NOT NULL AND a.time_out IS NULL
		RETURNING ` + attendanceColumns

	var note string
	if rec.Note != nil {
		note = *rec.Note
	}

	updated, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, rec.TimeOut, note))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to clock out: %w", err)
	}

	// Nothing matched; report which precondition failed.
	existing, err := a.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if existing == nil || !existing.ClockedIn() {
		return attendance.AttendanceRecord{}, attendance.ErrNoClockInFound
	}
	return attendance.AttendanceRecord{}, attendance.ErrAlreadyClockedOut
}

// InsertIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) InsertIfAbsent(ctx context.Context, rec attendance.AttendanceRecord) (bool, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return false, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, date, time_in, time_out, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, id.String(), rec.EmployeeID, rec.Date, rec.TimeIn, rec.TimeOut, rec.Status, rec.Note)
	if err != nil {
		return false, fmt.Errorf("failed to insert attendance: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1 AND a.date = $2
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return &rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `, e.name, e.department
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	var name, department *string
	rec, err := scanAttendance(q.QueryRow(ctx, query, id), &name, &department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	rec.EmployeeName, rec.EmployeeDepartment = name, department

	return rec, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_records a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "employee_name":
		orderByField = "e.name"
	case "time_in":
		orderByField = "a.time_in"
	case "time_out":
		orderByField = "a.time_out"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, e.name, e.department
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s NULLS LAST, a.id
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var name, department *string
		rec, err := scanAttendance(rows, &name, &department)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		rec.EmployeeName, rec.EmployeeDepartment = name, department
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, total, nil
}

// ListByDateRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDateRange(ctx context.Context, from, to string, employeeID *string) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.date BETWEEN $1 AND $2 AND ($3::uuid IS NULL OR a.employee_id = $3::uuid)
		ORDER BY a.date, a.employee_id
	`

	rows, err := q.Query(ctx, query, from, to, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// CountByStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByStatus(ctx context.Context, date string, status attendance.Status) (int64, error) {
	q := GetQuerier(ctx, a.db)

	var count int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendance_records a
		 JOIN employees e ON e.id = a.employee_id AND e.deleted_at IS NULL
		 WHERE a.date = $1 AND a.status = $2`,
		date, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	return count, nil
}
