package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/saasgate"
	"github.com/dmitrymomot/saasgate/middlewares"
	"github.com/dmitrymomot/saasgate/pkg/locale"
	"github.com/dmitrymomot/saasgate/pkg/sanitizer"
	"github.com/dmitrymomot/saasgate/pkg/session"
	"github.com/dmitrymomot/saasgate/repository"
	"github.com/dmitrymomot/saasgate/tasks"
)

// Sign-in results reported to a SignInObserver.
const (
	SignInSuccess            = "success"
	SignInInvalidCredentials = "invalid_credentials"
	SignInError              = "error"
)

// Password length bounds. bcrypt ignores bytes past 72.
const (
	minPasswordLength = 8
	maxPasswordLength = 72
	maxNameLength     = 100
)

// SignInObserver counts sign-in attempts; *metrics.Metrics satisfies it.
type SignInObserver interface {
	SignIn(result string)
}

type nopSignInObserver struct{}

func (nopSignInObserver) SignIn(string) {}

// Credentials is the body of sign-in and sign-up requests. JSON and form
// encodings are accepted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse is returned after a successful sign-in or sign-up.
type AuthResponse struct {
	User     *repository.User `json:"user"`
	Redirect string           `json:"redirect"`
}

// Auth handles sign-in, sign-up and sign-out. It issues the session cookie
// Gate verifies and rotates.
type Auth struct {
	store      repository.Store
	signer     session.Signer
	set        *locale.Set
	observer   SignInObserver
	enqueuer   tasks.TxEnqueuer
	now        func() time.Time
	cookieName string
	ttl        time.Duration
	cost       int

	// compare checks a password against a hash. Unknown emails are
	// compared against dummyHash so both sign-in failures cost one bcrypt run.
	compare   func(hash, password []byte) error
	dummyHash func() []byte
}

// AuthOption configures Auth.
type AuthOption func(*Auth)

// WithSessionTTL sets the lifetime of issued tokens. Defaults to
// session.DefaultExtension.
func WithSessionTTL(d time.Duration) AuthOption {
	return func(h *Auth) {
		if d > 0 {
			h.ttl = d
		}
	}
}

// WithAuthClock overrides the time source.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(h *Auth) {
		if now != nil {
			h.now = now
		}
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) AuthOption {
	return func(h *Auth) {
		h.cost = cost
	}
}

// WithSignInObserver reports sign-in outcomes to o.
func WithSignInObserver(o SignInObserver) AuthOption {
	return func(h *Auth) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithWelcomeEmail enqueues the welcome email in the sign-up transaction.
func WithWelcomeEmail(q tasks.TxEnqueuer) AuthOption {
	return func(h *Auth) {
		h.enqueuer = q
	}
}

// WithAuthCookie sets the session cookie name.
func WithAuthCookie(name string) AuthOption {
	return func(h *Auth) {
		if name != "" {
			h.cookieName = name
		}
	}
}

func NewAuth(store repository.Store, signer session.Signer, set *locale.Set, opts ...AuthOption) *Auth {
	h := &Auth{
		store:      store,
		signer:     signer,
		set:        set,
		observer:   nopSignInObserver{},
		now:        time.Now,
		cookieName: middlewares.DefaultSessionCookie,
		ttl:        session.DefaultExtension,
		cost:       bcrypt.DefaultCost,
		compare:    bcrypt.CompareHashAndPassword,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.dummyHash = sync.OnceValue(func() []byte {
		hash, _ := bcrypt.GenerateFromPassword([]byte("saasgate:unknown-account"), h.cost)
		return hash
	})
	return h
}

func (h *Auth) Routes(r saasgate.Router) {
	r.POST("/api/sign-in", h.signIn)
	r.POST("/api/sign-up", h.signUp)
	r.POST("/api/sign-out", h.signOut)
}

func (h *Auth) signIn(c saasgate.Context) error {
	creds, err := bindCredentials(c)
	if err != nil {
		return err
	}
	email, ok := sanitizer.Email(creds.Email)
	if !ok || creds.Password == "" {
		return h.invalidCredentials(c, nil)
	}

	u, err := h.store.GetUserByEmail(c, email)
	if errors.Is(err, repository.ErrNotFound) {
		_ = h.compare(h.dummyHash(), []byte(creds.Password))
		return h.invalidCredentials(c, err)
	}
	if err != nil {
		h.observer.SignIn(SignInError)
		return err
	}

	if err := h.compare([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		return h.invalidCredentials(c, err)
	}

	if err := h.startSession(c, u); err != nil {
		h.observer.SignIn(SignInError)
		return err
	}
	h.observer.SignIn(SignInSuccess)
	logActivity(c, h.store, u.ID, repository.ActionSignIn)

	return c.JSON(http.StatusOK, AuthResponse{User: u, Redirect: h.set.Localize("/dashboard", c.Locale())})
}

func (h *Auth) invalidCredentials(c saasgate.Context, cause error) error {
	h.observer.SignIn(SignInInvalidCredentials)
	return saasgate.ErrUnauthorized(c.T("auth.invalid_credentials"),
		saasgate.WithErrorCode("auth.invalid_credentials"),
		saasgate.WithError(cause),
	)
}

func (h *Auth) signUp(c saasgate.Context) error {
	creds, err := bindCredentials(c)
	if err != nil {
		return err
	}
	email, ok := sanitizer.Email(creds.Email)
	if !ok || len(creds.Password) < minPasswordLength || len(creds.Password) > maxPasswordLength {
		return saasgate.ErrBadRequest(c.T("auth.invalid_input"), saasgate.WithErrorCode("auth.invalid_input"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), h.cost)
	if err != nil {
		return err
	}

	var hooks []repository.TxHook
	if h.enqueuer != nil {
		hooks = append(hooks, tasks.EnqueueWelcome(h.enqueuer, c.Locale()))
	}

	u, err := h.store.CreateUserWithTeam(c, repository.NewUser{
		Name:         sanitizer.Name(creds.Name, maxNameLength),
		Email:        email,
		PasswordHash: string(hash),
		IPAddress:    c.ClientIP(),
	}, hooks...)
	if errors.Is(err, repository.ErrEmailTaken) {
		return saasgate.ErrConflict(c.T("auth.email_taken"), saasgate.WithErrorCode("auth.email_taken"))
	}
	if err != nil {
		return err
	}

	if err := h.startSession(c, u); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, AuthResponse{User: u, Redirect: h.set.Localize("/dashboard", c.Locale())})
}

// signOut always clears the cookie. The action is logged only when the
// cookie held a valid session.
func (h *Auth) signOut(c saasgate.Context) error {
	if raw, err := c.Cookie(h.cookieName); err == nil && raw != "" {
		if p, err := h.signer.Verify(c, raw); err == nil && !p.Expired(h.now()) {
			if id, err := strconv.ParseInt(p.Subject, 10, 64); err == nil {
				logActivity(c, h.store, id, repository.ActionSignOut)
			}
		}
	}
	c.DeleteCookie(h.cookieName)
	return c.JSON(http.StatusOK, map[string]string{"redirect": h.set.Localize("/sign-in", c.Locale())})
}

func (h *Auth) startSession(c saasgate.Context, u *repository.User) error {
	expires := h.now().Add(h.ttl).Truncate(time.Second)
	token, err := h.signer.Sign(c, session.NewPayload(strconv.FormatInt(u.ID, 10), expires))
	if err != nil {
		return err
	}
	return c.SetCookieUntil(h.cookieName, token, expires)
}

// logActivity records an action without failing the request.
func logActivity(c saasgate.Context, store repository.Store, userID int64, action repository.ActionType) {
	err := store.LogActivity(c, repository.Activity{
		UserID:    userID,
		Action:    action,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		c.LogWarn("failed to log activity", "action", string(action), "error", err)
	}
}

func bindCredentials(c saasgate.Context) (Credentials, error) {
	var creds Credentials
	if isJSON(c) {
		if err := c.BindJSON(&creds); err != nil {
			return creds, err
		}
		return creds, nil
	}
	creds.Email = c.Form("email")
	creds.Password = c.Form("password")
	creds.Name = c.Form("name")
	return creds, nil
}
