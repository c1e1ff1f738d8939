package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	db        *sql.DB
	publisher sse.Publisher
}

func NewAttendanceRepository(db *sql.DB, publisher sse.Publisher) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, publisher: publisher}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.time_in, a.time_out, a.status, a.note, a.created_at, a.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner, extra ...any) (attendance.AttendanceRecord, error) {
	var (
		rec                  attendance.AttendanceRecord
		timeIn, timeOut      sql.NullString
		note                 sql.NullString
		createdAt, updatedAt string
	)
	dest := []any{&rec.ID, &rec.EmployeeID, &rec.Date, &timeIn, &timeOut, &rec.Status, &note, &createdAt, &updatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.AttendanceRecord{}, err
	}

	var err error
	if rec.TimeIn, err = parseNullTime(timeIn); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if rec.TimeOut, err = parseNullTime(timeOut); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	rec.Note = nullString(note)

	return rec, nil
}

// attendancePayload is the change-feed shape of a row, keyed by column name.
func attendancePayload(rec attendance.AttendanceRecord) map[string]any {
	return map[string]any{
		"id":          rec.ID,
		"employee_id": rec.EmployeeID,
		"date":        rec.Date,
		"time_in":     rec.TimeIn,
		"time_out":    rec.TimeOut,
		"status":      rec.Status,
		"note":        rec.Note,
		"created_at":  rec.CreatedAt,
		"updated_at":  rec.UpdatedAt,
	}
}

// ClockIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) ClockIn(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := getQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	now := formatTime(time.Now())

	query := `
		INSERT INTO attendance_records AS a (id, employee_id, date, time_in, status, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET time_in = excluded.time_in,
			status = excluded.status,
			note = CASE
				WHEN excluded.note IS NULL THEN a.note
				WHEN a.note IS NULL OR a.note = '' THEN excluded.note
				ELSE a.note || '; ' || excluded.note
			END,
			updated_at = excluded.updated_at
		WHERE a.time_in IS NULL
		RETURNING id, employee_id, date, time_in, time_out, status, note, created_at, updated_at
	`

	saved, err := scanAttendance(q.QueryRowContext(ctx, query,
		id.String(), rec.EmployeeID, rec.Date, formatTimePtr(rec.TimeIn), rec.Status, rec.Note, now, now,
	))
	if err != nil {
		if isNoRows(err) {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to clock in: %w", err)
	}

	op := sse.OpInsert
	if !saved.CreatedAt.Equal(saved.UpdatedAt) {
		op = sse.OpUpdate
	}
	publish(ctx, a.publisher, sse.NewEvent(sse.TableAttendanceRecords, op, attendancePayload(saved), nil))

	return saved, nil
}

// ClockOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) ClockOut(ctx context.Context, employeeID string, date string, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := getQuerier(ctx, a.db)

	var note string
	if rec.Note != nil {
		note = *rec.Note
	}

	query := `
		UPDATE attendance_records AS a
		SET time_out = max(?1, a.time_in),
			note = CASE
				WHEN ?2 = '' THEN a.note
				WHEN a.note IS NULL OR a.note = '' THEN ?2
				ELSE a.note || '; ' || ?2
			END,
			updated_at = ?3
		WHERE a.employee_id = ?4 AND a.date = ?5 AND a.time_in IS NOT NULL AND a.time_out IS NULL
		RETURNING id, employee_id, date, time_in, time_out, status, note, created_at, updated_at
	`

	updated, err := scanAttendance(q.QueryRowContext(ctx, query,
		formatTimePtr(rec.TimeOut), note, formatTime(time.Now()), employeeID, date,
	))
	if err == nil {
		publish(ctx, a.publisher, sse.NewEvent(sse.TableAttendanceRecords, sse.OpUpdate, attendancePayload(updated), nil))
		return updated, nil
	}
	if !isNoRows(err) {
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
	q := getQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return false, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	now := formatTime(time.Now())

	query := `
		INSERT INTO attendance_records (id, employee_id, date, time_in, time_out, status, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, employee_id, date, time_in, time_out, status, note, created_at, updated_at
	`

	saved, err := scanAttendance(q.QueryRowContext(ctx, query,
		id.String(), rec.EmployeeID, rec.Date, formatTimePtr(rec.TimeIn), formatTimePtr(rec.TimeOut), rec.Status, rec.Note, now, now,
	))
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert attendance: %w", err)
	}

	publish(ctx, a.publisher, sse.NewEvent(sse.TableAttendanceRecords, sse.OpInsert, attendancePayload(saved), nil))
	return true, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.AttendanceRecord, error) {
	q := getQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.employee_id = ? AND a.date = ?
	`

	rec, err := scanAttendance(q.QueryRowContext(ctx, query, employeeID, date))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return &rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := getQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `, e.name, e.department
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = ?
	`

	var name, department sql.NullString
	rec, err := scanAttendance(q.QueryRowContext(ctx, query, id), &name, &department)
	if err != nil {
		if isNoRows(err) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	rec.EmployeeName, rec.EmployeeDepartment = nullString(name), nullString(department)

	return rec, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	q := getQuerier(ctx, a.db)

	baseWhere := "1 = 1"
	args := []any{}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += " AND a.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += " AND a.date = ?"
		args = append(args, *filter.Date)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += " AND a.date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += " AND a.date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += " AND a.status = ?"
		args = append(args, *filter.Status)
	}

	var total int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance_records a WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

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

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	args = append(args, limit, (filter.Page-1)*limit)

	selectQuery := fmt.Sprintf(`
		SELECT %s, e.name, e.department
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s NULLS LAST, a.id
		LIMIT ? OFFSET ?
	`, attendanceColumns, baseWhere, orderByField, sortOrder)

	rows, err := q.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var name, department sql.NullString
		rec, err := scanAttendance(rows, &name, &department)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		rec.EmployeeName, rec.EmployeeDepartment = nullString(name), nullString(department)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, total, nil
}

// ListByDateRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDateRange(ctx context.Context, from, to string, employeeID *string) ([]attendance.AttendanceRecord, error) {
	q := getQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.date BETWEEN ? AND ? AND (?3 IS NULL OR a.employee_id = ?3)
		ORDER BY a.date, a.employee_id
	`

	rows, err := q.QueryContext(ctx, query, from, to, employeeID)
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
	q := getQuerier(ctx, a.db)

	var count int64
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_records a
		 JOIN employees e ON e.id = a.employee_id AND e.deleted_at IS NULL
		 WHERE a.date = ? AND a.status = ?`,
		date, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	return count, nil
}
