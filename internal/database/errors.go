package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/usermatrix/backend/internal/models"
)

// MySQL server error numbers
const (
	errDupEntry          = 1062
	errRowIsReferenced   = 1451
	errNoReferencedRow   = 1452
	errBadNull           = 1048
	errNoDefault         = 1364
	errDataTooLong       = 1406
	errTooManyConns      = 1040
	errAccessDenied      = 1045
	errBadDB             = 1049
	errLockWaitTimeout   = 1205
	errLockDeadlock      = 1213
	errServerShutdown    = 1053
	errConnCountExceeded = 1203
)

// Classify maps a persistence error to an ErrorKind. A nil error has no kind.
func Classify(err error) models.ErrorKind {
	if err == nil {
		return ""
	}

	if errors.Is(err, models.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
		return models.KindNotFound
	}

	if errors.Is(err, ErrSessionUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return models.KindEngineUnavailable
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errDupEntry, errRowIsReferenced, errNoReferencedRow, errBadNull, errNoDefault, errDataTooLong:
			return models.KindConstraintViolation
		case errTooManyConns, errAccessDenied, errBadDB, errLockWaitTimeout, errLockDeadlock, errServerShutdown, errConnCountExceeded:
			return models.KindEngineUnavailable
		}
		return models.KindUnexpected
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return models.KindEngineUnavailable
	}

	return models.KindUnexpected
}
