package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/saasgate"
	"github.com/dmitrymomot/saasgate/handlers"
	"github.com/dmitrymomot/saasgate/locales"
	"github.com/dmitrymomot/saasgate/middlewares"
	"github.com/dmitrymomot/saasgate/pkg/i18n"
	"github.com/dmitrymomot/saasgate/pkg/job"
	"github.com/dmitrymomot/saasgate/pkg/locale"
	"github.com/dmitrymomot/saasgate/pkg/route"
	"github.com/dmitrymomot/saasgate/pkg/session"
	"github.com/dmitrymomot/saasgate/pkg/token"
	"github.com/dmitrymomot/saasgate/repository"
)

const (
	testSecret   = "test-secret-with-at-least-32-bytes!"
	testPassword = "correct horse battery"
)

// memStore is an in-memory repository.Store.
type memStore struct {
	mu      sync.Mutex
	users   []*repository.User
	members []repository.TeamMember
	logs    []repository.ActivityLog
	nextID  int64
}

func newMemStore(t *testing.T) *memStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &memStore{
		nextID: 4,
		users: []*repository.User{
			{ID: 1, Name: "Ana", Email: "ana@example.com", Role: repository.RoleOwner, PasswordHash: string(hash)},
			{ID: 3, Name: "Luis", Email: "luis@example.com", Role: repository.RoleMember, PasswordHash: string(hash)},
		},
		members: []repository.TeamMember{
			{ID: 1, Role: repository.RoleOwner, User: repository.MemberUser{ID: 1, Name: "Ana", Email: "ana@example.com"}},
			{ID: 2, Role: repository.RoleMember, User: repository.MemberUser{ID: 3, Name: "Luis", Email: "luis@example.com"}},
		},
	}
}

func (s *memStore) GetUserByID(_ context.Context, id int64) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) CreateUserWithTeam(ctx context.Context, in repository.NewUser, hooks ...repository.TxHook) (*repository.User, error) {
	if _, err := s.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, repository.ErrEmailTaken
	}
	s.mu.Lock()
	u := &repository.User{ID: s.nextID, Name: in.Name, Email: in.Email, PasswordHash: in.PasswordHash, Role: repository.RoleOwner}
	s.mu.Unlock()

	for _, hook := range hooks {
		if err := hook(ctx, nil, u); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.users = append(s.users, u)
	s.logs = append(s.logs,
		repository.ActivityLog{ID: int64(len(s.logs) + 1), Action: repository.ActionSignUp, IPAddress: in.IPAddress, Timestamp: time.Now()},
	)
	cp := *u
	return &cp, nil
}

func (s *memStore) UpdateUser(_ context.Context, id int64, in repository.UserUpdate) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var target *repository.User
	for _, u := range s.users {
		if u.Email == in.Email && u.ID != id {
			return nil, repository.ErrEmailTaken
		}
		if u.ID == id {
			target = u
		}
	}
	if target == nil {
		return nil, repository.ErrNotFound
	}
	target.Name, target.Email = in.Name, in.Email
	cp := *target
	return &cp, nil
}

func (s *memStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memStore) SoftDeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.users, func(u *repository.User) bool { return u.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	s.users = slices.Delete(s.users, i, i+1)
	s.members = slices.DeleteFunc(s.members, func(m repository.TeamMember) bool { return m.User.ID == id })
	return nil
}

func (s *memStore) GetTeamForUser(_ context.Context, userID int64) (*repository.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.members, func(m repository.TeamMember) bool { return m.User.ID == userID }) {
		return nil, repository.ErrNotFound
	}
	return &repository.Team{
		ID:       1,
		Name:     "Ana's Team",
		PlanName: repository.DefaultPlan,
		Members:  slices.Clone(s.members),
	}, nil
}

func (s *memStore) RemoveTeamMember(_ context.Context, teamID, memberID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.members, func(m repository.TeamMember) bool { return m.ID == memberID })
	if teamID != 1 || i < 0 {
		return repository.ErrNotFound
	}
	s.members = slices.Delete(s.members, i, i+1)
	return nil
}

func (s *memStore) passwordHash(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.PasswordHash
		}
	}
	return ""
}

func (s *memStore) GetActivityLogs(_ context.Context, _ int64, limit int) ([]repository.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.logs)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) LogActivity(_ context.Context, a repository.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, repository.ActivityLog{
		ID:        int64(len(s.logs) + 1),
		Action:    a.Action,
		IPAddress: a.IPAddress,
		Timestamp: time.Now(),
	})
	return nil
}

func (s *memStore) PruneActivity(context.Context, time.Time) (int64, error) { return 0, nil }

func (s *memStore) actions() []repository.ActionType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.ActionType, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, l.Action)
	}
	return out
}

type signInCounter struct {
	mu      sync.Mutex
	results []string
}

func (o *signInCounter) SignIn(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
}

type enqueued struct {
	name    string
	payload any
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []enqueued
}

func (q *fakeEnqueuer) EnqueueTx(_ context.Context, _ pgx.Tx, name string, payload any, _ ...job.InsertOption) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, enqueued{name: name, payload: payload})
	return nil
}

type testEnv struct {
	app      *saasgate.App
	store    *memStore
	signer   *token.Signer
	observer *signInCounter
	enqueuer *fakeEnqueuer
}

func newTestEnv(t *testing.T, accountOpts ...handlers.AccountOption) *testEnv {
	t.Helper()

	set := locale.MustNewSet("en", "es")
	signer, err := token.NewSigner([]byte(testSecret))
	require.NoError(t, err)
	catalog, err := i18n.New(set, i18n.WithFS(locales.FS))
	require.NoError(t, err)
	resolver := locale.NewResolver(set)

	env := &testEnv{
		store:    newMemStore(t),
		signer:   signer,
		observer: &signInCounter{},
		enqueuer: &fakeEnqueuer{},
	}
	env.app = saasgate.New(
		saasgate.WithMiddleware(
			middlewares.Gate(resolver, route.NewClassifier(set), route.NewMatcher(route.DefaultExcluded...), session.NewGuard(signer)),
			middlewares.I18n(catalog, middlewares.WithI18nDetector(resolver)),
		),
		saasgate.WithHandlers(
			handlers.NewPages(set, env.store),
			handlers.NewAccount(env.store, signer,
				append([]handlers.AccountOption{handlers.WithAccountBcryptCost(bcrypt.MinCost)}, accountOpts...)...),
			handlers.NewAuth(env.store, signer, set,
				handlers.WithBcryptCost(bcrypt.MinCost),
				handlers.WithSignInObserver(env.observer),
				handlers.WithWelcomeEmail(env.enqueuer),
			),
			handlers.NewLocale(set),
		),
	)
	return env
}

func (e *testEnv) session(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	raw, err := e.signer.Sign(context.Background(),
		session.NewPayload(strconv.FormatInt(userID, 10), time.Now().Add(time.Hour)))
	require.NoError(t, err)
	return &http.Cookie{Name: middlewares.DefaultSessionCookie, Value: raw}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, values map[string]string) *http.Request {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
