package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// keyDetailRegex matches the column list in PostgreSQL constraint details,
// e.g. `Key (login)=(admin) already exists.`
var keyDetailRegex = regexp.MustCompile(`(?is)Key \((.*?)\)=\(.+\)`)

// Postgres error classes translated into field-derived codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqInvalidEnumValue    = "22P02"
)

// TranslateConstraintViolation converts a persistence uniqueness or
// foreign-key failure into a validation DomainError whose code is derived
// from the violated columns (e.g. LOGIN_ALREADY_EXISTS). Errors that are not
// recognizable constraint violations come back as internal errors.
func TranslateConstraintViolation(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return WrapInternal("database error", err)
	}

	fields := constraintFields(pqErr.Detail)

	switch string(pqErr.Code) {
	case pqUniqueViolation:
		if fields == "" {
			return NewDomainError(ErrorTypeValidation, CodeUnknownError, pqErr.Message, err)
		}
		return NewDomainError(ErrorTypeValidation, fields+"_ALREADY_EXISTS", pqErr.Detail, err)
	case pqForeignKeyViolation:
		if fields == "" {
			return NewDomainError(ErrorTypeValidation, CodeUnknownError, pqErr.Message, err)
		}
		return NewDomainError(ErrorTypeValidation, fields+"_NOT_EXISTS", pqErr.Detail, err)
	case pqInvalidEnumValue:
		return NewDomainError(ErrorTypeValidation, "INVALID_INPUT_VALUE_FOR_ENUM", pqErr.Message, err)
	default:
		return WrapInternal("database error", err)
	}
}

// constraintFields joins the violated column names with _AND_ and upper-cases
// them, matching the code format clients key on.
func constraintFields(detail string) string {
	m := keyDetailRegex.FindStringSubmatch(detail)
	if m == nil {
		return ""
	}
	columns := strings.Split(m[1], ", ")
	for i, c := range columns {
		columns[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return strings.Join(columns, "_AND_")
}
