package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrContended is returned when a row lock could not be acquired within
// the configured wait. Safe to retry.
var ErrContended = errors.New("resource contended, retry")

// DefaultLockWait bounds how long a transaction may sit on a row lock.
const DefaultLockWait = 3 * time.Second

// RunInTx runs fn inside a transaction whose lock waits are bounded by
// wait. Deadline and lock-wait failures surface as ErrContended; every
// other error aborts the transaction untouched.
func RunInTx(ctx context.Context, db *gorm.DB, wait time.Duration, fn func(tx *gorm.DB) error) error {
	if wait <= 0 {
		wait = DefaultLockWait
	}
	txCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	err := db.WithContext(txCtx).Transaction(fn)
	if err == nil {
		return nil
	}
	if isLockWaitError(err) {
		return ErrContended
	}
	return err
}

func isLockWaitError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 55P03 lock_not_available, 40P01 deadlock_detected
		return pgErr.Code == "55P03" || pgErr.Code == "40P01"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "lock timeout")
}

// IsUniqueViolation reports whether err is a unique-constraint failure,
// for both postgres and the embedded sqlite store.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}

// PostCommit runs a side effect that must only fire after committed
// state exists (token issuance, channel registration, notifications).
// Its failure is logged and swallowed: committed core state is never
// rolled back by a collaborator.
func PostCommit(loggerf func(format string, args ...any), op string, fn func() error) {
	if loggerf == nil {
		loggerf = func(string, ...any) {}
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			loggerf("level=error msg=post-commit hook panicked op=%s panic=%v", op, recovered)
		}
	}()
	if err := fn(); err != nil {
		loggerf("level=warn msg=post-commit hook failed op=%s err=%v", op, err)
	}
}
