package dberr

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrCode reports the Code of err, converting raw driver errors on the way.
func ErrCode(err error) Code {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}

	if mongo.IsDuplicateKeyError(err) {
		return UniqueViolation
	}

	return Other
}

// IsUniqueViolation reports whether err is a duplicate key error from
// either store driver.
func IsUniqueViolation(err error) bool {
	return err != nil && ErrCode(err) == UniqueViolation
}

// IsNoRows reports whether err means a lookup matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, mongo.ErrNoDocuments)
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// ConvertMongoError converts a MongoDB write or command error into an
// *Error. It returns nil when err carries no server error code.
func ConvertMongoError(err error, collection string) *Error {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return nil
	}

	converted := &Error{
		Code:      Other,
		Severity:  SeverityError,
		Message:   err.Error(),
		TableName: collection,
		driverErr: err,
	}

	if mongo.IsDuplicateKeyError(err) {
		converted.Code = UniqueViolation
		converted.DatabaseCode = "11000"
	}

	return converted
}
