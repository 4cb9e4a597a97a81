package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/timely-lab/timely-admin/internal/core/storage"
)

// SQLSTATE codes mapped onto the storage taxonomy.
const (
	codeInsufficientPrivilege pq.ErrorCode = "42501"
	codeInvalidAuthorization  pq.ErrorCode = "28000"
	codeInvalidPassword       pq.ErrorCode = "28P01"
	codeQueryCanceled         pq.ErrorCode = "57014"
)

const classConnectionException pq.ErrorClass = "08"

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanDocumentRow scans an (id, data) row. A NULL body yields an empty field map.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanDocumentRow(row scanner) (storage.Document, error) {
	var (
		doc      storage.Document
		dataJSON []byte
	)
	if err := row.Scan(&doc.ID, &dataJSON); err != nil {
		return storage.Document{}, fmt.Errorf("failed to scan document row: %w", err)
	}

	doc.Fields = map[string]interface{}{}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &doc.Fields); err != nil {
			return storage.Document{}, fmt.Errorf("failed to unmarshal document %s: %w", doc.ID, err)
		}
		if doc.Fields == nil {
			doc.Fields = map[string]interface{}{}
		}
	}
	return doc, nil
}

// marshalFields encodes an update patch. Nil fields produce an empty object so the
// merge is a no-op rather than a NULL.
func marshalFields(fields map[string]interface{}) ([]byte, error) {
	if fields == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields: %w", err)
	}
	return data, nil
}

// mapError wraps driver errors with the storage sentinel that describes them.
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == codeInsufficientPrivilege:
			return fmt.Errorf("%s: %w: %v", op, storage.ErrPermissionDenied, err)
		case pqErr.Code == codeInvalidAuthorization, pqErr.Code == codeInvalidPassword:
			return fmt.Errorf("%s: %w: %v", op, storage.ErrUnauthenticated, err)
		case pqErr.Code == codeQueryCanceled:
			return fmt.Errorf("%s: %w: %v", op, storage.ErrTimeout, err)
		case pqErr.Code.Class() == classConnectionException:
			return fmt.Errorf("%s: %w: %v", op, storage.ErrUnavailable, err)
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %v", op, storage.ErrTimeout, err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return fmt.Errorf("%s: %w: %v", op, storage.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
