package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/domain"
)

// fakeSender records outbound messages and can be told to fail delivery to
// specific chats.
type fakeSender struct {
	mu     sync.Mutex
	sent   []tgbotapi.MessageConfig
	failTo map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failTo: make(map[int64]bool)}
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mc, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	if f.failTo[mc.ChatID] {
		return tgbotapi.Message{}, errors.New("forbidden: bot was blocked by the user")
	}
	f.sent = append(f.sent, mc)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

func (f *fakeSender) textsTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

type fakeListings struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]*domain.Listing
	insertErr error
}

func newFakeListings() *fakeListings {
	return &fakeListings{rows: make(map[int64]*domain.Listing)}
}

func (f *fakeListings) Insert(_ context.Context, l domain.Listing) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	l.ID = f.nextID
	l.Status = domain.StatusActive
	l.CreatedAt = time.Now()
	f.rows[l.ID] = &l
	return l.ID, nil
}

func (f *fakeListings) MarkDeletedIfActive(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.rows[id]
	if !ok || l.Status != domain.StatusActive {
		return false, nil
	}
	l.Status = domain.StatusDeleted
	return true, nil
}

func (f *fakeListings) ListActive(_ context.Context, limit int) ([]domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Listing
	for id := int64(1); id <= f.nextID && len(out) < limit; id++ {
		if l, ok := f.rows[id]; ok && l.Status == domain.StatusActive {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListings) CountByStatus(_ context.Context, status domain.ListingStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, l := range f.rows {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeListings) CountActiveByKind(_ context.Context, kind domain.Kind) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, l := range f.rows {
		if l.Status == domain.StatusActive && l.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (f *fakeListings) active() []domain.Listing {
	out, _ := f.ListActive(context.Background(), 1000)
	return out
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*domain.User
	order []int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*domain.User)}
}

func (f *fakeUsers) Upsert(_ context.Context, id int64, firstName, username *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.FirstName = firstName
		u.Username = username
		return nil
	}
	f.users[id] = &domain.User{ID: id, FirstName: firstName, Username: username, JoinedAt: time.Now()}
	f.order = append(f.order, id)
	return nil
}

func (f *fakeUsers) IsVerified(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return false, errors.New("no such user")
	}
	return u.Verified, nil
}

func (f *fakeUsers) SetVerified(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.Verified = true
	}
	return nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUsers) ListIDsExcept(_ context.Context, except int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int64
	for _, id := range f.order {
		if id != except {
			out = append(out, id)
		}
	}
	return out, nil
}
