package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/pagination"
	"github.com/redmonkez12/storefront-api/internal/password"
)

type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*User
	seq   int
}

func newMemStore() *memStore {
	return &memStore{users: map[uuid.UUID]*User{}}
}

func (m *memStore) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.seq++
	u.CreatedAt = time.Unix(int64(m.seq), 0)
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memStore) List(_ context.Context, offset, limit int) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(store, logging.NewDiscardLogger()), store
}

func validAccount(email string) NewAccountRequest {
	return NewAccountRequest{Name: "Jane", Email: email, Password: "secret1"}
}

func TestCreateByAdminIsApproved(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Create(context.Background(), validAccount("jane@example.com"))
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, u.ApprovalStatus)
	assert.True(t, u.EmailValidated)
	assert.Nil(t, u.ApprovalToken)
	assert.Equal(t, []string{identity.RoleUser}, u.Roles)
	assert.True(t, password.Verify(u.PasswordHash, "secret1"))
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validAccount("jane@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validAccount("JANE@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Create(ctx, validAccount("jane@example.com"))
	require.NoError(t, err)
	other, err := svc.Create(ctx, validAccount("other@example.com"))
	require.NoError(t, err)

	name := "Jane Doe"
	pw := "newsecret"
	updated, err := svc.Update(ctx, u.ID, UpdateRequest{Name: &name, Password: &pw, Roles: []string{identity.RoleAdmin, identity.RoleAdmin}})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, []string{identity.RoleAdmin}, updated.Roles)
	assert.True(t, password.Verify(updated.PasswordHash, "newsecret"))

	taken := other.Email
	_, err = svc.Update(ctx, u.ID, UpdateRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	own := u.Email
	_, err = svc.Update(ctx, u.ID, UpdateRequest{Email: &own})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, uuid.New(), UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetApprovalStampsAndClears(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token := "tok"
	pending := &User{Name: "P", Email: "p@example.com", Roles: []string{identity.RoleUser}, ApprovalStatus: StatusPending, ApprovalToken: &token}
	require.NoError(t, store.Create(ctx, pending))

	rejected, err := svc.SetApproval(ctx, pending.ID, StatusRejected, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.ApprovalStatus)
	require.NotNil(t, rejected.RejectedBy)
	assert.Equal(t, "boss@example.com", *rejected.RejectedBy)
	assert.Equal(t, fixed, *rejected.RejectedAt)
	assert.Nil(t, rejected.ApprovalToken)
	require.NotNil(t, rejected.ProcessedHash)
	assert.Equal(t, TokenHash(token), *rejected.ProcessedHash)

	approved, err := svc.SetApproval(ctx, pending.ID, StatusApproved, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.ApprovalStatus)
	assert.NotNil(t, approved.ApprovedAt)
	assert.Nil(t, approved.RejectedAt)
	assert.Nil(t, approved.RejectedBy)
	assert.True(t, approved.EmailValidated)

	reset, err := svc.SetApproval(ctx, pending.ID, StatusPending, "boss@example.com")
	require.NoError(t, err)
	assert.Nil(t, reset.ApprovedAt)
	assert.Nil(t, reset.RejectedAt)
}

func TestListAndDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var ids []uuid.UUID
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		u, err := svc.Create(ctx, validAccount(email))
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}

	p, _ := pagination.New(2, 2)
	page, err := svc.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c@example.com", page.Items[0].Email)

	require.NoError(t, svc.Delete(ctx, ids[0]))
	assert.ErrorIs(t, svc.Delete(ctx, ids[0]), ErrNotFound)
}

func TestNewAccountRequestValidate(t *testing.T) {
	badCUIT := "123"
	zero := 0

	tests := []struct {
		name    string
		req     NewAccountRequest
		wantErr string
	}{
		{name: "valid", req: validAccount(" Jane@Example.com ")},
		{name: "missing name", req: NewAccountRequest{Email: "a@example.com", Password: "secret1"}, wantErr: "Missing name"},
		{name: "missing email", req: NewAccountRequest{Name: "A", Password: "secret1"}, wantErr: "Missing email"},
		{name: "invalid email", req: NewAccountRequest{Name: "A", Email: "nope", Password: "secret1"}, wantErr: "Email is not valid"},
		{name: "short password", req: NewAccountRequest{Name: "A", Email: "a@example.com", Password: "12345"}, wantErr: "Password too short"},
		{name: "bad role", req: NewAccountRequest{Name: "A", Email: "a@example.com", Password: "secret1", Roles: []string{"ROOT"}}, wantErr: "Invalid role"},
		{name: "bad cuit", req: NewAccountRequest{Name: "A", Email: "a@example.com", Password: "secret1", Profile: Profile{CUIT: &badCUIT}}, wantErr: "CUIT"},
		{name: "bad postal code", req: NewAccountRequest{Name: "A", Email: "a@example.com", Password: "secret1", Profile: Profile{CodigoPostal: &zero}}, wantErr: "Codigo postal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "jane@example.com", tt.req.Email)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
