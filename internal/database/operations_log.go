package database

import (
	"database/sql"
	"errors"
	"time"
)

// ExecutedBy defines who/what triggered the operation
type ExecutedBy string

const (
	ExecCLI   ExecutedBy = "cli"
	ExecApply ExecutedBy = "apply"
	ExecWatch ExecutedBy = "watch"
)

// Operation is one recorded placement attempt.
type Operation struct {
	ID            int64
	Mode          string
	Kind          string
	SeriesKey     string
	SourcePath    string
	RequestedPath string
	FinalPath     string
	Bytes         int64
	Success       bool
	Error         string
	ExecutedBy    ExecutedBy
	ExecutedAt    time.Time
}

// LogOperation records an operation. ExecutedAt defaults to now.
func (h *HistoryDB) LogOperation(op Operation) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if op.ExecutedAt.IsZero() {
		op.ExecutedAt = time.Now()
	}
	res, err := h.db.Exec(`
		INSERT INTO operations_log (
			mode, kind, series_key, source_path, requested_path, final_path,
			bytes, success, error, executed_by, executed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, op.Mode, op.Kind, op.SeriesKey, op.SourcePath, op.RequestedPath, op.FinalPath,
		op.Bytes, op.Success, op.Error, op.ExecutedBy, op.ExecutedAt.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentOperations returns up to limit operations, newest first.
func (h *HistoryDB) RecentOperations(limit int) ([]Operation, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, err := h.db.Query(`
		SELECT id, mode, kind, COALESCE(series_key, ''), source_path, requested_path,
		       COALESCE(final_path, ''), COALESCE(bytes, 0), success, COALESCE(error, ''),
		       executed_by, executed_at
		FROM operations_log
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var op Operation
		var execBy string
		err := rows.Scan(
			&op.ID, &op.Mode, &op.Kind, &op.SeriesKey, &op.SourcePath, &op.RequestedPath,
			&op.FinalPath, &op.Bytes, &op.Success, &op.Error, &execBy, &op.ExecutedAt,
		)
		if err != nil {
			return nil, err
		}
		op.ExecutedBy = ExecutedBy(execBy)
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// WasPlaced reports whether source has a successful operation on record.
func (h *HistoryDB) WasPlaced(source string) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var one int
	err := h.db.QueryRow(`
		SELECT 1 FROM operations_log WHERE source_path = ? AND success = 1 LIMIT 1
	`, source).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// OperationStats summarises the whole history.
type OperationStats struct {
	Total     int
	Succeeded int
	Failed    int
	Bytes     int64
}

// Stats returns counts over every recorded operation. Bytes only counts
// successful placements.
func (h *HistoryDB) Stats() (OperationStats, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var s OperationStats
	err := h.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN success = 1 THEN bytes ELSE 0 END), 0)
		FROM operations_log
	`).Scan(&s.Total, &s.Succeeded, &s.Bytes)
	if err != nil {
		return s, err
	}
	s.Failed = s.Total - s.Succeeded
	return s, nil
}
