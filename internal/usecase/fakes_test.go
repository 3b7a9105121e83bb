package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gita-assistant/internal/domain/entity"
)

var errBoom = errors.New("connection refused")

func fastPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: time.Millisecond, Strategy: RetryFixed}
}

type fakeEmbedder struct {
	vector []float32
	err    error
	failN  int // fail the first failN calls
	calls  int
	texts  []string
}

func (f *fakeEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.calls++
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, entity.NewRemoteError(entity.StageEmbed, f.err)
	}
	if f.calls <= f.failN {
		return nil, entity.NewRemoteError(entity.StageEmbed, errBoom)
	}
	return f.vector, nil
}

type fakeSearcher struct {
	docs  []entity.RetrievedDocument
	err   error
	calls int
	k     int
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, k int) ([]entity.RetrievedDocument, error) {
	f.calls++
	f.k = k
	if f.err != nil {
		return nil, entity.NewRemoteError(entity.StageSearch, f.err)
	}
	return f.docs, nil
}

type fakeProvider struct {
	model   string
	replies []string // consumed in order, the last one repeats
	err     error
	failN   int // fail the first failN calls
	calls   int
	prompts []string
}

func (f *fakeProvider) Model() string { return f.model }

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil || f.calls <= f.failN {
		err := f.err
		if err == nil {
			err = errBoom
		}
		return "", entity.NewRemoteError(entity.StageGenerate, err)
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	i := min(f.calls-f.failN-1, len(f.replies)-1)
	return f.replies[i], nil
}

type fakeLimiter struct {
	mu     sync.Mutex
	limit  int // zero means unlimited
	err    error
	keys   []string
	counts map[string]int
}

func newFakeLimiter(limit int) *fakeLimiter {
	return &fakeLimiter{limit: limit, counts: map[string]int{}}
}

func (f *fakeLimiter) Reserve(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.err != nil {
		return false, f.err
	}
	f.counts[key]++
	return f.limit == 0 || f.counts[key] <= f.limit, nil
}

type fakeChatStore struct {
	mu      sync.Mutex
	records map[string]entity.ChatRecord
	saveErr error
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{records: map[string]entity.ChatRecord{}}
}

func (f *fakeChatStore) Save(_ context.Context, r *entity.ChatRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[r.ID] = *r
	return nil
}

func (f *fakeChatStore) List(_ context.Context, userID string) ([]entity.ChatRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.ChatRecord{}
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (f *fakeChatStore) Get(_ context.Context, userID, chatID string) (*entity.ChatRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[chatID]
	if !ok || r.UserID != userID {
		return nil, entity.ErrResourceNotFound
	}
	return &r, nil
}

func (f *fakeChatStore) Delete(_ context.Context, userID, chatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[chatID]
	if !ok || r.UserID != userID {
		return entity.ErrResourceNotFound
	}
	delete(f.records, chatID)
	return nil
}

func (f *fakeChatStore) DeleteAll(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, r := range f.records {
		if r.UserID == userID {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

type fakeUserStore struct {
	byID map[string]*entity.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]*entity.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *entity.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return entity.ErrUserExists
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, entity.ErrResourceNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrResourceNotFound
}

func (f *fakeUserStore) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return entity.ErrResourceNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, u *entity.User) error {
	delete(f.byID, u.ID)
	return nil
}

type fakeSessionStore struct {
	tokens map[string]string
	n      int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: map[string]string{}}
}

func (f *fakeSessionStore) Create(_ context.Context, userID string, _ time.Duration) (string, error) {
	f.n++
	token := userID + "-token-" + string(rune('a'+f.n))
	f.tokens[token] = userID
	return token, nil
}

func (f *fakeSessionStore) Resolve(_ context.Context, token string) (string, error) {
	id, ok := f.tokens[token]
	if !ok {
		return "", entity.ErrResourceNotFound
	}
	return id, nil
}

func (f *fakeSessionStore) Revoke(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeSessionStore) RevokeAll(_ context.Context, userID string) error {
	for t, id := range f.tokens {
		if id == userID {
			delete(f.tokens, t)
		}
	}
	return nil
}

type fakeOTPStore struct {
	codes map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: map[string]string{}}
}

func (f *fakeOTPStore) Put(_ context.Context, p entity.OTPPurpose, email, code string, _ time.Duration) error {
	f.codes[string(p)+":"+email] = code
	return nil
}

func (f *fakeOTPStore) Consume(_ context.Context, p entity.OTPPurpose, email, code string) (bool, error) {
	key := string(p) + ":" + email
	stored, ok := f.codes[key]
	if !ok || stored != code {
		return false, nil
	}
	delete(f.codes, key)
	return true, nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}
