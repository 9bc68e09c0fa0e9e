package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Broadcaster delivers one message to every registered user except the
// sender. Best effort: each failed delivery is recorded and counted, never
// retried, and never stops the rest of the fan-out.
type Broadcaster struct {
	api   Sender
	users UserStore
	log   *zap.SugaredLogger
	limit int
}

// Delivery is the outcome for a single recipient.
type Delivery struct {
	UserID int64
	Err    error
}

// Report tallies one fan-out.
type Report struct {
	Attempted int
	Delivered int
	Failures  []Delivery
}

func NewBroadcaster(api Sender, users UserStore, log *zap.SugaredLogger, limit int) *Broadcaster {
	if limit <= 0 {
		limit = 1
	}
	return &Broadcaster{api: api, users: users, log: log, limit: limit}
}

// Send fans text out to all users except exceptID with bounded concurrency.
// The returned error covers only the recipient-list read; per-recipient
// failures live in the Report.
func (b *Broadcaster) Send(ctx context.Context, exceptID int64, text string) (Report, error) {
	ids, err := b.users.ListIDsExcept(ctx, exceptID)
	if err != nil {
		return Report{}, err
	}

	var (
		mu  sync.Mutex
		rep = Report{Attempted: len(ids)}
	)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(b.limit)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, sendErr := b.api.Send(tgbotapi.NewMessage(id, text))

			mu.Lock()
			defer mu.Unlock()
			if sendErr != nil {
				// Typical case: the recipient blocked the bot. Absorbed.
				rep.Failures = append(rep.Failures, Delivery{UserID: id, Err: sendErr})
				b.log.Warnw("broadcast delivery failed", "user_id", id, "err", sendErr)
				return nil
			}
			rep.Delivered++
			return nil
		})
	}
	_ = g.Wait()

	b.log.Infow("broadcast finished",
		"attempted", rep.Attempted,
		"delivered", rep.Delivered,
		"failed", len(rep.Failures))
	return rep, nil
}
