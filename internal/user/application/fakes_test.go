package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
)

var clock = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type memUsers struct {
	users      map[uuid.UUID]*domain.User
	warnings   map[uuid.UUID]*domain.Warning
	lastFilter domain.Filter
	tick       int
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uuid.UUID]*domain.User{}, warnings: map[uuid.UUID]*domain.Warning{}}
}

func (m *memUsers) next() time.Time {
	m.tick++
	return clock.Add(time.Duration(m.tick) * time.Minute)
}

func (m *memUsers) add(u *domain.User) *domain.User {
	c := *u
	m.users[u.ID] = &c
	return u
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	u.CreatedAt, u.UpdatedAt = m.next(), clock
	m.add(u)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotExist
	}
	c := *u
	return &c, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotExist
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Find(_ context.Context, f domain.Filter) ([]domain.User, int, error) {
	m.lastFilter = f
	var out []domain.User
	for _, u := range m.users {
		if f.Email != "" && !strings.Contains(u.Email, f.Email) {
			continue
		}
		if f.IsBanned != nil && u.IsBanned != *f.IsBanned {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotExist
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) SetVerified(_ context.Context, id uuid.UUID) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotExist
	}
	u.IsVerified = true
	return nil
}

func (m *memUsers) UpdateStanding(_ context.Context, u *domain.User) error {
	stored, ok := m.users[u.ID]
	if !ok {
		return domain.ErrUserNotExist
	}
	u.UpdatedAt = m.next()
	stored.IsBanned, stored.WarningCount, stored.UpdatedAt = u.IsBanned, u.WarningCount, u.UpdatedAt
	return nil
}

// memUsers doubles as the warning repository.
type memWarnings struct{ *memUsers }

func (m memWarnings) Create(_ context.Context, w *domain.Warning) error {
	w.CreatedAt = m.next()
	c := *w
	m.warnings[w.ID] = &c
	return nil
}

func (m memWarnings) GetByID(_ context.Context, id uuid.UUID) (*domain.Warning, error) {
	w, ok := m.warnings[id]
	if !ok {
		return nil, domain.ErrWarningNotFound
	}
	c := *w
	return &c, nil
}

func (m memWarnings) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.warnings, id)
	return nil
}

func (m memWarnings) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, w := range m.warnings {
		if w.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m memWarnings) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Warning, error) {
	var out []domain.Warning
	for _, w := range m.warnings {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type passTx struct{ calls int }

func (p *passTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Compare(hash, password string) bool   { return hash == "hashed:"+password }

type fixture struct {
	users   *memUsers
	tx      *passTx
	service UserService
}

func newFixture() *fixture {
	users := newMemUsers()
	tx := &passTx{}
	warnings := memWarnings{users}
	return &fixture{
		users: users,
		tx:    tx,
		service: NewUserService(
			NewFindUsersUseCase(users),
			NewUpdatePasswordUseCase(users, plainHasher{}),
			NewWarningsUseCase(users, warnings, tx),
			NewBanUseCase(users),
		),
	}
}

func (f *fixture) user(email string) *domain.User {
	u := domain.NewUser(email, strings.Split(email, "@")[0], "hashed:secret", false)
	u.IsVerified = true
	return f.users.add(u)
}
