package repository

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the goose migrations of the schema, rooted so that
// db.Migrate can read them directly.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultActivityLimit is the number of entries GetActivityLogs returns
// when limit is not positive.
const DefaultActivityLimit = 10

// TxHook runs inside the sign-up transaction after the user, team and
// membership rows exist. Returning an error rolls everything back.
type TxHook func(ctx context.Context, tx pgx.Tx, u *User) error

// Store is the data access used by handlers and tasks.
type Store interface {
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUserWithTeam(ctx context.Context, in NewUser, hooks ...TxHook) (*User, error)
	UpdateUser(ctx context.Context, id int64, in UserUpdate) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SoftDeleteUser(ctx context.Context, id int64) error
	GetTeamForUser(ctx context.Context, userID int64) (*Team, error)
	RemoveTeamMember(ctx context.Context, teamID, memberID int64) error
	GetActivityLogs(ctx context.Context, userID int64, limit int) ([]ActivityLog, error)
	LogActivity(ctx context.Context, a Activity) error
	PruneActivity(ctx context.Context, before time.Time) (int64, error)
}

// DBTX runs queries; *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return errors.Join(ErrQuery, err)
}
