package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// mapWriteError translates driver-level failures into store sentinels.
// Two concurrent registrations can both pass the service pre-checks;
// the unique constraints decide the winner and the loser's violation
// must surface as a duplicate, not an internal error.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch {
		case pgErr.ConstraintName == "users_national_id_key":
			return ErrDuplicateNationalID
		case strings.HasSuffix(pgErr.ConstraintName, "_email_key"):
			return ErrDuplicateEmail
		case strings.HasSuffix(pgErr.ConstraintName, "_phone_key"):
			return ErrDuplicatePhone
		}
	}
	return err
}

// mapReadError normalizes pgx's no-rows result to the store sentinel.
func mapReadError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
