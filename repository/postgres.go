package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/saasgate/pkg/db"
)

// Postgres implements Store with plain SQL over pgx.
type Postgres struct {
	db DBTX
}

// NewPostgres creates a Store over conn, usually a *pgxpool.Pool.
func NewPostgres(conn DBTX) *Postgres {
	return &Postgres{db: conn}
}

const userColumns = `id, COALESCE(name, ''), email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (p *Postgres) GetUserByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(p.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(p.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND deleted_at IS NULL`,
		strings.ToLower(email)))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// CreateUserWithTeam registers a user as the owner of a new team and logs
// SIGN_UP and CREATE_TEAM, all in one transaction.
func (p *Postgres) CreateUserWithTeam(ctx context.Context, in NewUser, hooks ...TxHook) (*User, error) {
	if in.Email == "" || in.PasswordHash == "" {
		return nil, fmt.Errorf("%w: email and password hash are required", ErrInvalidInput)
	}
	email := strings.ToLower(in.Email)

	var user *User
	err := db.WithTx(ctx, p.db, func(tx pgx.Tx) error {
		u, err := scanUser(tx.QueryRow(ctx,
			`INSERT INTO users (name, email, password_hash, role)
			 VALUES (NULLIF($1, ''), $2, $3, $4)
			 RETURNING `+userColumns,
			in.Name, email, in.PasswordHash, RoleOwner))
		if err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return errors.Join(ErrQuery, err)
		}

		var teamID int64
		if err := tx.QueryRow(ctx,
			`INSERT INTO teams (name) VALUES ($1) RETURNING id`,
			u.DefaultTeamName(),
		).Scan(&teamID); err != nil {
			return errors.Join(ErrQuery, err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO team_members (user_id, team_id, role) VALUES ($1, $2, $3)`,
			u.ID, teamID, RoleOwner,
		); err != nil {
			return errors.Join(ErrQuery, err)
		}

		for _, action := range []ActionType{ActionSignUp, ActionCreateTeam} {
			if err := insertActivity(ctx, tx, teamID, u.ID, action, in.IPAddress); err != nil {
				return err
			}
		}

		for _, hook := range hooks {
			if err := hook(ctx, tx, u); err != nil {
				return err
			}
		}

		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser changes a user's name and email.
func (p *Postgres) UpdateUser(ctx context.Context, id int64, in UserUpdate) (*User, error) {
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	u, err := scanUser(p.db.QueryRow(ctx,
		`UPDATE users SET name = NULLIF($2, ''), email = $3, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL
		 RETURNING `+userColumns,
		id, in.Name, strings.ToLower(in.Email)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, notFound(err)
	}
	return u, nil
}

// UpdatePassword replaces a user's password hash.
func (p *Postgres) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if passwordHash == "" {
		return fmt.Errorf("%w: password hash is required", ErrInvalidInput)
	}

	tag, err := p.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, passwordHash)
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteUser marks a user deleted and removes their team memberships.
// The email is suffixed with the user id so it can be registered again.
func (p *Postgres) SoftDeleteUser(ctx context.Context, id int64) error {
	return db.WithTx(ctx, p.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users
			 SET deleted_at = now(), updated_at = now(), email = email || '-' || id || '-deleted'
			 WHERE id = $1 AND deleted_at IS NULL`, id)
		if err != nil {
			return errors.Join(ErrQuery, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE user_id = $1`, id); err != nil {
			return errors.Join(ErrQuery, err)
		}
		return nil
	})
}

// RemoveTeamMember deletes a membership of the team.
func (p *Postgres) RemoveTeamMember(ctx context.Context, teamID, memberID int64) error {
	tag, err := p.db.Exec(ctx,
		`DELETE FROM team_members WHERE id = $1 AND team_id = $2`, memberID, teamID)
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTeamForUser returns the first team the user belongs to, with members.
func (p *Postgres) GetTeamForUser(ctx context.Context, userID int64) (*Team, error) {
	t := &Team{}
	err := p.db.QueryRow(ctx, `
		SELECT t.id, t.name, COALESCE(t.plan_name, $2), COALESCE(t.subscription_status, ''), t.created_at
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY tm.joined_at
		LIMIT 1`, userID, DefaultPlan,
	).Scan(&t.ID, &t.Name, &t.PlanName, &t.SubscriptionStatus, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := p.db.Query(ctx, `
		SELECT tm.id, tm.role, tm.joined_at, u.id, COALESCE(u.name, ''), u.email
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1 AND u.deleted_at IS NULL
		ORDER BY tm.joined_at, tm.id`, t.ID)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	t.Members = []TeamMember{}
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.ID, &m.Role, &m.JoinedAt, &m.User.ID, &m.User.Name, &m.User.Email); err != nil {
			return nil, errors.Join(ErrQuery, err)
		}
		t.Members = append(t.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return t, nil
}

// GetActivityLogs returns the user's latest entries, newest first.
func (p *Postgres) GetActivityLogs(ctx context.Context, userID int64, limit int) ([]ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	rows, err := p.db.Query(ctx, `
		SELECT al.id, al.action, al.timestamp, COALESCE(al.ip_address, ''), COALESCE(u.name, '')
		FROM activity_logs al
		LEFT JOIN users u ON u.id = al.user_id
		WHERE al.user_id = $1
		ORDER BY al.timestamp DESC, al.id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	logs := []ActivityLog{}
	for rows.Next() {
		var l ActivityLog
		if err := rows.Scan(&l.ID, &l.Action, &l.Timestamp, &l.IPAddress, &l.UserName); err != nil {
			return nil, errors.Join(ErrQuery, err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return logs, nil
}

// LogActivity records an action against the user's team. Users without a
// team are skipped silently.
func (p *Postgres) LogActivity(ctx context.Context, a Activity) error {
	if !a.Action.Valid() {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, a.Action)
	}

	var teamID int64
	err := p.db.QueryRow(ctx,
		`SELECT team_id FROM team_members WHERE user_id = $1 ORDER BY joined_at LIMIT 1`,
		a.UserID,
	).Scan(&teamID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	return insertActivity(ctx, p.db, teamID, a.UserID, a.Action, a.IPAddress)
}

// PruneActivity deletes entries older than before and returns how many
// were removed.
func (p *Postgres) PruneActivity(ctx context.Context, before time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM activity_logs WHERE timestamp < $1`, before)
	if err != nil {
		return 0, errors.Join(ErrQuery, err)
	}
	return tag.RowsAffected(), nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertActivity(ctx context.Context, q execer, teamID, userID int64, action ActionType, ip string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO activity_logs (team_id, user_id, action, ip_address) VALUES ($1, $2, $3, NULLIF($4, ''))`,
		teamID, userID, string(action), ip)
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	return nil
}

var _ Store = (*Postgres)(nil)
