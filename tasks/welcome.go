package tasks

import (
	"context"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/saasgate/pkg/job"
	"github.com/dmitrymomot/saasgate/pkg/locale"
	"github.com/dmitrymomot/saasgate/pkg/mailer"
	"github.com/dmitrymomot/saasgate/repository"
)

// WelcomeEmailTask is the registered name of the welcome email task.
const WelcomeEmailTask = "send_welcome_email"

// WelcomeEmail is the payload of the welcome email task.
type WelcomeEmail struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	TeamName string `json:"team_name"`
	Locale   string `json:"locale"`
	UserID   int64  `json:"user_id"`
}

// Sender sends templated email; *mailer.Mailer satisfies it.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Welcome sends the welcome email to a newly registered user.
type Welcome struct {
	sender  Sender
	set     *locale.Set
	baseURL string
}

// NewWelcome creates the task. Links in the email point at baseURL,
// localized through set.
func NewWelcome(sender Sender, set *locale.Set, baseURL string) *Welcome {
	return &Welcome{
		sender:  sender,
		set:     set,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (w *Welcome) Name() string { return WelcomeEmailTask }

func (w *Welcome) Handle(ctx context.Context, p WelcomeEmail) error {
	loc := w.set.Default()
	if l, ok := w.set.Match(p.Locale); ok {
		loc = l
	}

	name := p.Name
	if name == "" {
		name, _, _ = strings.Cut(p.Email, "@")
	}

	return w.sender.Send(ctx, mailer.Message{
		To:       p.Email,
		Locale:   loc,
		Template: "welcome",
		Data: map[string]any{
			"Name":         name,
			"TeamName":     p.TeamName,
			"DashboardURL": w.link("/dashboard", loc),
		},
	})
}

func (w *Welcome) link(path, loc string) string {
	u, err := url.JoinPath(w.baseURL, w.set.Localize(path, loc))
	if err != nil {
		return w.baseURL + path
	}
	return u
}

// TxEnqueuer inserts jobs inside a transaction; *job.Runner satisfies it.
type TxEnqueuer interface {
	EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...job.InsertOption) error
}

// EnqueueWelcome returns a sign-up hook that schedules the welcome email in
// the sign-up transaction, so it is sent only if the account is committed.
func EnqueueWelcome(q TxEnqueuer, loc string) repository.TxHook {
	return func(ctx context.Context, tx pgx.Tx, u *repository.User) error {
		return q.EnqueueTx(ctx, tx, WelcomeEmailTask, WelcomeEmail{
			UserID:   u.ID,
			Email:    u.Email,
			Name:     u.Name,
			TeamName: u.DefaultTeamName(),
			Locale:   loc,
		}, job.InQueue(EmailQueue), job.MaxAttempts(5))
	}
}
