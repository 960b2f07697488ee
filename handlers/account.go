package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/saasgate"
	"github.com/dmitrymomot/saasgate/middlewares"
	"github.com/dmitrymomot/saasgate/pkg/i18n"
	"github.com/dmitrymomot/saasgate/pkg/sanitizer"
	"github.com/dmitrymomot/saasgate/pkg/session"
	"github.com/dmitrymomot/saasgate/repository"
)

// Activity is an activity log entry prepared for display.
type Activity struct {
	Timestamp   time.Time             `json:"timestamp"`
	Action      repository.ActionType `json:"action"`
	Description string                `json:"description"`
	When        string                `json:"when"`
	IPAddress   string                `json:"ip_address,omitempty"`
	ID          int64                 `json:"id"`
}

// TeamView is the team of the signed-in user.
type TeamView struct {
	*repository.Team
	Plan    string `json:"plan"`
	Members string `json:"members_label"`
}

// AccountUpdate is the body of PUT /api/account.
type AccountUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PasswordChange is the body of PUT /api/account/password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// AccountDeletion is the body of DELETE /api/account.
type AccountDeletion struct {
	Password string `json:"password"`
}

// MessageResponse carries a translated confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// Account serves the signed-in user's data and account settings under /api.
type Account struct {
	store      repository.Store
	signer     session.Signer
	now        func() time.Time
	options    []middlewares.SessionOption
	cookieName string
	cost       int
}

// AccountOption configures Account.
type AccountOption func(*Account)

// WithAccountClock overrides the clock used for relative times.
func WithAccountClock(now func() time.Time) AccountOption {
	return func(h *Account) {
		if now != nil {
			h.now = now
			h.options = append(h.options, middlewares.WithSessionClock(now))
		}
	}
}

// WithAccountBcryptCost sets the cost of new password hashes.
func WithAccountBcryptCost(cost int) AccountOption {
	return func(h *Account) {
		h.cost = cost
	}
}

// WithAccountCookie sets the session cookie name cleared on account deletion.
func WithAccountCookie(name string) AccountOption {
	return func(h *Account) {
		if name != "" {
			h.cookieName = name
			h.options = append(h.options, middlewares.WithSessionExtractor(saasgate.NewExtractor(
				saasgate.FromCookie(name),
				saasgate.FromBearerToken(),
			)))
		}
	}
}

func NewAccount(store repository.Store, signer session.Signer, opts ...AccountOption) *Account {
	h := &Account{
		store:      store,
		signer:     signer,
		now:        time.Now,
		cookieName: middlewares.DefaultSessionCookie,
		cost:       bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Account) Routes(r saasgate.Router) {
	r.Group(func(r saasgate.Router) {
		r.Use(middlewares.RequireSession(h.signer, h.options...))
		r.GET("/api/user", h.user)
		r.GET("/api/team", h.team)
		r.GET("/api/activity", h.activity)
		r.PUT("/api/account", h.updateAccount)
		r.PUT("/api/account/password", h.updatePassword)
		r.DELETE("/api/account", h.deleteAccount)
		r.DELETE("/api/team/members/{memberID}", h.removeMember)
	})
}

func (h *Account) currentUser(c saasgate.Context) (*repository.User, error) {
	id, err := userID(c)
	if err != nil {
		return nil, err
	}
	u, err := h.store.GetUserByID(c, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, saasgate.ErrUnauthorized("unauthorized", saasgate.WithError(err))
	}
	return u, err
}

func (h *Account) user(c saasgate.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Account) team(c saasgate.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return err
	}

	t, err := h.store.GetTeamForUser(c, u.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return saasgate.ErrNotFound("team not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TeamView{
		Team:    t,
		Plan:    c.T("team.current_plan", i18n.M{"plan": t.PlanName}),
		Members: c.Tn("team.members", len(t.Members)),
	})
}

func (h *Account) activity(c saasgate.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	limit := saasgate.QueryInt(c, "limit", repository.DefaultActivityLimit, 1, 100)
	logs, err := h.store.GetActivityLogs(c, id, limit)
	if err != nil {
		return err
	}

	now := h.now()
	out := make([]Activity, 0, len(logs))
	for _, l := range logs {
		out = append(out, Activity{
			ID:          l.ID,
			Action:      l.Action,
			Timestamp:   l.Timestamp,
			IPAddress:   l.IPAddress,
			Description: describe(c, l),
			When:        relativeTime(c, l.Timestamp, now),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func describe(c saasgate.Context, l repository.ActivityLog) string {
	action := c.T("activity.actions.unknown")
	if l.Action.Valid() {
		action = c.T("activity.actions." + string(l.Action))
	}
	if l.IPAddress == "" {
		return action
	}
	return c.T("activity.from_ip", i18n.M{"action": action, "ip": l.IPAddress})
}

func (h *Account) updateAccount(c saasgate.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var in AccountUpdate
	if isJSON(c) {
		if err := c.BindJSON(&in); err != nil {
			return err
		}
	} else {
		in = AccountUpdate{Name: c.Form("name"), Email: c.Form("email")}
	}

	name := sanitizer.Name(in.Name, maxNameLength)
	email, ok := sanitizer.Email(in.Email)
	if !ok || name == "" {
		return saasgate.ErrBadRequest(c.T("account.invalid_input"), saasgate.WithErrorCode("account.invalid_input"))
	}

	updated, err := h.store.UpdateUser(c, u.ID, repository.UserUpdate{Name: name, Email: email})
	if errors.Is(err, repository.ErrEmailTaken) {
		return saasgate.ErrConflict(c.T("auth.email_taken"), saasgate.WithErrorCode("auth.email_taken"))
	}
	if err != nil {
		return err
	}

	logActivity(c, h.store, u.ID, repository.ActionUpdateAccount)
	return c.JSON(http.StatusOK, updated)
}

// updatePassword requires the current password. The new password must be
// 8-72 bytes, differ from the current one and match its confirmation.
func (h *Account) updatePassword(c saasgate.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var in PasswordChange
	if isJSON(c) {
		if err := c.BindJSON(&in); err != nil {
			return err
		}
	} else {
		in = PasswordChange{
			CurrentPassword: c.Form("current_password"),
			NewPassword:     c.Form("new_password"),
			ConfirmPassword: c.Form("confirm_password"),
		}
	}

	if len(in.NewPassword) < minPasswordLength || len(in.NewPassword) > maxPasswordLength {
		return saasgate.ErrBadRequest(c.T("account.invalid_password"), saasgate.WithErrorCode("account.invalid_password"))
	}
	if in.NewPassword != in.ConfirmPassword {
		return saasgate.ErrBadRequest(c.T("account.password_mismatch"), saasgate.WithErrorCode("account.password_mismatch"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return wrongPassword(c, err)
	}
	if in.NewPassword == in.CurrentPassword {
		return saasgate.ErrBadRequest(c.T("account.same_password"), saasgate.WithErrorCode("account.same_password"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), h.cost)
	if err != nil {
		return err
	}
	if err := h.store.UpdatePassword(c, u.ID, string(hash)); err != nil {
		return err
	}

	logActivity(c, h.store, u.ID, repository.ActionUpdatePassword)
	return c.JSON(http.StatusOK, MessageResponse{Message: c.T("account.password_updated")})
}

// deleteAccount soft-deletes the user after checking the password. The
// activity is logged first because deletion drops the team membership the
// log entry is attached to.
func (h *Account) deleteAccount(c saasgate.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var in AccountDeletion
	if isJSON(c) {
		if err := c.BindJSON(&in); err != nil {
			return err
		}
	} else {
		in.Password = c.Form("password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return wrongPassword(c, err)
	}

	logActivity(c, h.store, u.ID, repository.ActionDeleteAccount)
	if err := h.store.SoftDeleteUser(c, u.ID); err != nil {
		return err
	}

	c.DeleteCookie(h.cookieName)
	return c.NoContent(http.StatusNoContent)
}

// removeMember lets a team owner remove another member of their team.
func (h *Account) removeMember(c saasgate.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return err
	}

	memberID, err := strconv.ParseInt(c.Param("memberID"), 10, 64)
	if err != nil || memberID <= 0 {
		return saasgate.ErrNotFound("member not found")
	}

	t, err := h.store.GetTeamForUser(c, u.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return saasgate.ErrNotFound("team not found")
	}
	if err != nil {
		return err
	}

	owner := false
	for _, m := range t.Members {
		if m.User.ID == u.ID {
			owner = m.Role == repository.RoleOwner
			if m.ID == memberID {
				return saasgate.ErrBadRequest(c.T("team.remove_self"), saasgate.WithErrorCode("team.remove_self"))
			}
		}
	}
	if !owner {
		return saasgate.ErrForbidden(c.T("team.owner_only"), saasgate.WithErrorCode("team.owner_only"))
	}

	err = h.store.RemoveTeamMember(c, t.ID, memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return saasgate.ErrNotFound("member not found")
	}
	if err != nil {
		return err
	}

	logActivity(c, h.store, u.ID, repository.ActionRemoveTeamMember)
	return c.JSON(http.StatusOK, MessageResponse{Message: c.T("team.member_removed")})
}

func wrongPassword(c saasgate.Context, cause error) error {
	return saasgate.ErrBadRequest(c.T("account.wrong_password"),
		saasgate.WithErrorCode("account.wrong_password"),
		saasgate.WithError(cause),
	)
}

func isJSON(c saasgate.Context) bool {
	return strings.HasPrefix(c.Header("Content-Type"), "application/json")
}
