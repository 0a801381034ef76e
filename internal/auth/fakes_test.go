package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/storefront-api/internal/email"
	"github.com/redmonkez12/storefront-api/internal/user"
)

type fakeUserStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*user.User
	processed map[string]bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*user.User{}, processed: map[string]bool{}}
}

func (f *fakeUserStore) add(u *user.User) *user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	clone := *u
	f.users[u.ID] = &clone
	return u
}

func (f *fakeUserStore) Create(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrDuplicateEmail
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, addr string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, addr) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserStore) GetByApprovalToken(_ context.Context, token string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ApprovalToken != nil && *u.ApprovalToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserStore) IsProcessedToken(_ context.Context, tokenHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processed[tokenHash] {
		return true, nil
	}
	for _, u := range f.users {
		if u.ProcessedHash != nil && *u.ProcessedHash == tokenHash {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ResolveApproval(_ context.Context, id uuid.UUID, d user.Decision) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.ApprovalStatus != user.StatusPending {
		return nil, user.ErrNotPending
	}
	u.ApplyApproval(d.Status, d.Actor, d.At)
	f.processed[d.TokenHash] = true
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) Update(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeResets struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func newFakeResets() *fakeResets {
	return &fakeResets{tokens: map[string]uuid.UUID{}}
}

func (f *fakeResets) Save(_ context.Context, userID uuid.UUID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for t, id := range f.tokens {
		if id == userID {
			delete(f.tokens, t)
		}
	}
	f.tokens[token] = userID
	return nil
}

func (f *fakeResets) Consume(_ context.Context, token string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	if !ok {
		return uuid.Nil, ErrPasswordResetTokenNotFound
	}
	delete(f.tokens, token)
	return id, nil
}

func (f *fakeResets) only() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token := range f.tokens {
		return token, true
	}
	return "", false
}

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: map[string]time.Duration{}}
}

func (f *fakeRevocations) Revoke(_ context.Context, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = ttl
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[token]
	return ok, nil
}

type sentDecision struct {
	To       string
	Approved bool
}

type fakeNotifier struct {
	mu          sync.Mutex
	requests    []email.Applicant
	approveURLs []string
	rejectURLs  []string
	decisions   []sentDecision
	resets      chan string
	requestErr  error
	decisionErr error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{resets: make(chan string, 4)}
}

func (f *fakeNotifier) SendApprovalRequest(_ context.Context, a email.Applicant, approveURL, rejectURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.requestErr != nil {
		return f.requestErr
	}
	f.requests = append(f.requests, a)
	f.approveURLs = append(f.approveURLs, approveURL)
	f.rejectURLs = append(f.rejectURLs, rejectURL)
	return nil
}

func (f *fakeNotifier) SendApprovalDecision(_ context.Context, to, _ string, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decisionErr != nil {
		return f.decisionErr
	}
	f.decisions = append(f.decisions, sentDecision{To: to, Approved: approved})
	return nil
}

func (f *fakeNotifier) SendPasswordResetEmail(_ context.Context, to, _ string) error {
	f.resets <- to
	return nil
}

type fakeLimiter struct {
	exceeded   bool
	onCooldown bool
	recorded   []string
}

func (f *fakeLimiter) CheckIPRateLimitWithPurpose(context.Context, string, string) (bool, error) {
	return f.exceeded, nil
}

func (f *fakeLimiter) RecordIPRequestWithPurpose(_ context.Context, _ string, purpose string) error {
	f.recorded = append(f.recorded, purpose)
	return nil
}

func (f *fakeLimiter) CheckEmailCooldown(context.Context, string) (bool, error) {
	return f.onCooldown, nil
}

func (f *fakeLimiter) SetEmailCooldown(context.Context, string) error {
	return nil
}
