// Package sqlerr translates database driver errors.
//
// It parses SQLSTATE codes coming out of the PostgreSQL driver and
// converts them into user-facing application errors (e.g. a foreign key
// violation becomes a Bad Request with a readable message).
package sqlerr

import "github.com/jackc/pgx/v5/pgconn"

// Code classifies a database error into the categories the application
// reacts to. Anything unmapped is Other.
type Code int

const (
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
	InvalidTextRepresentation
	ConnectionFailure
)

// Severity mirrors the PostgreSQL error severity field.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityError
	SeverityFatal
	SeverityPanic
)

// SQLSTATE codes, per the PostgreSQL documentation.
const (
	sqlstateUniqueViolation           = "23505"
	sqlstateForeignKeyViolation       = "23503"
	sqlstateNotNullViolation          = "23502"
	sqlstateCheckViolation            = "23514"
	sqlstateInvalidTextRepresentation = "22P02"
	sqlstateConnectionFailure         = "08006"
)

// MapCode maps a SQLSTATE string onto a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case sqlstateUniqueViolation:
		return UniqueViolation
	case sqlstateForeignKeyViolation:
		return ForeignKeyViolation
	case sqlstateNotNullViolation:
		return NotNullViolation
	case sqlstateCheckViolation:
		return CheckViolation
	case sqlstateInvalidTextRepresentation:
		return InvalidTextRepresentation
	case sqlstateConnectionFailure:
		return ConnectionFailure
	default:
		return Other
	}
}

// MapSeverity maps the driver severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	default:
		return SeverityUnknown
	}
}

// Error is the normalized database error. It keeps the original driver
// error for Unwrap while exposing the mapped category and the schema
// metadata needed to build user-facing messages.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr *pgconn.PgError
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying driver error to errors.As/Is.
func (e *Error) Unwrap() error {
	if e.driverErr == nil {
		return nil
	}
	return e.driverErr
}
