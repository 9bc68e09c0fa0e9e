package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/config"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/session"
)

const (
	testAdminID = int64(99)
	testUserID  = int64(7)

	testPaymentCode = "P2P_PAY_2025"
)

type testEnv struct {
	h        *Handler
	sender   *fakeSender
	listings *fakeListings
	users    *fakeUsers
	sessions *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sender := newFakeSender()
	listings := newFakeListings()
	users := newFakeUsers()
	sessions := session.NewStore()

	cfg := config.Config{
		AdminID:              testAdminID,
		PaymentCode:          testPaymentCode,
		BroadcastConcurrency: 4,
	}

	return &testEnv{
		h:        NewHandler(sender, cfg, zap.NewNop().Sugar(), users, listings, sessions),
		sender:   sender,
		listings: listings,
		users:    users,
		sessions: sessions,
	}
}

func (e *testEnv) send(userID int64, text string) {
	e.h.HandleUpdate(context.Background(), privateMessage(userID, text))
}

// verify marks a user as having passed the payment gate, skipping the
// payment sub-flow in tests that are not about it.
func (e *testEnv) verify(userID int64) {
	_ = e.users.Upsert(context.Background(), userID, nil, nil)
	_ = e.users.SetVerified(context.Background(), userID)
}

func privateMessage(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			From: &tgbotapi.User{ID: userID, FirstName: "Abel", UserName: "abel"},
			Chat: &tgbotapi.Chat{ID: userID, Type: "private"},
		},
	}
}
