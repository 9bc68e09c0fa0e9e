package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/config"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/domain"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/session"
)

// Sender is the outbound half of the Telegram transport. *tgbotapi.BotAPI
// satisfies it; tests substitute a fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ListingStore is the durable listing contract (repo.Listings in production).
type ListingStore interface {
	Insert(ctx context.Context, l domain.Listing) (int64, error)
	MarkDeletedIfActive(ctx context.Context, id int64) (bool, error)
	ListActive(ctx context.Context, limit int) ([]domain.Listing, error)
	CountByStatus(ctx context.Context, status domain.ListingStatus) (int64, error)
	CountActiveByKind(ctx context.Context, kind domain.Kind) (int64, error)
}

// UserStore is the durable user-registry contract (repo.Users in production).
type UserStore interface {
	Upsert(ctx context.Context, id int64, firstName, username *string) error
	IsVerified(ctx context.Context, id int64) (bool, error)
	SetVerified(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	ListIDsExcept(ctx context.Context, except int64) ([]int64, error)
}

const browseLimit = 50

type Handler struct {
	api Sender
	cfg config.Config
	log *zap.SugaredLogger

	users    UserStore
	listings ListingStore
	sessions *session.Store
	bcast    *Broadcaster
}

func NewHandler(api Sender, cfg config.Config, log *zap.SugaredLogger, u UserStore, l ListingStore, s *session.Store) *Handler {
	return &Handler{
		api:      api,
		cfg:      cfg,
		log:      log,
		users:    u,
		listings: l,
		sessions: s,
		bcast:    NewBroadcaster(api, u, log, cfg.BroadcastConcurrency),
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}

	msg := upd.Message
	// private chats only
	if !msg.Chat.IsPrivate() || msg.From == nil {
		return
	}

	var uname *string
	if msg.From.UserName != "" {
		u := msg.From.UserName
		uname = &u
	}
	var fn *string
	if msg.From.FirstName != "" {
		s := msg.From.FirstName
		fn = &s
	}

	if err := h.users.Upsert(ctx, msg.From.ID, fn, uname); err != nil {
		h.log.Errorw("upsert user", "user_id", msg.From.ID, "err", err)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	// The whole read-transition-commit span for one message runs under the
	// sender's own lock, so rapid-fire messages from one user cannot
	// interleave. Other users are untouched.
	h.sessions.WithLock(msg.From.ID, func() {
		h.route(ctx, msg, text)
	})
}

func (h *Handler) route(ctx context.Context, msg *tgbotapi.Message, text string) {
	if strings.HasPrefix(text, "/cancel") {
		h.handleCancel(msg)
		return
	}

	if strings.HasPrefix(text, "/start") {
		h.reply(msg.Chat.ID, welcomeMessage(msg.From.FirstName))
		return
	}

	if strings.HasPrefix(text, "/post_ad") {
		h.handlePostAd(ctx, msg)
		return
	}

	if strings.HasPrefix(text, "/browse_ads") {
		h.handleBrowse(ctx, msg.Chat.ID)
		return
	}

	if strings.HasPrefix(text, "/stats") {
		h.handleStats(ctx, msg.Chat.ID)
		return
	}

	if strings.HasPrefix(text, "/admin") {
		h.handleAdminMenu(msg)
		return
	}

	if strings.HasPrefix(text, "/del_ad") {
		h.handleDeleteStart(msg)
		return
	}

	if strings.HasPrefix(text, "/broadcast") {
		h.handleBroadcastStart(msg)
		return
	}

	// Not a command: feed the open session, if any.
	if st, ok := h.sessions.Get(msg.From.ID); ok {
		h.continueFlow(ctx, msg, st, text)
		return
	}

	h.reply(msg.Chat.ID, msgDefault)
}

// handleCancel is the universal abort: any open flow, submission or admin,
// is discarded.
func (h *Handler) handleCancel(msg *tgbotapi.Message) {
	if _, ok := h.sessions.Get(msg.From.ID); !ok {
		h.reply(msg.Chat.ID, msgNoFlow)
		return
	}
	h.sessions.Clear(msg.From.ID)
	h.replyRemoveKeyboard(msg.Chat.ID, msgCancelled)
}

func (h *Handler) continueFlow(ctx context.Context, msg *tgbotapi.Message, st session.State, text string) {
	switch st.Flow {
	case session.FlowPayment:
		h.continuePayment(ctx, msg, text)
	case session.FlowSubmit:
		h.continueSubmission(ctx, msg, st, text)
	case session.FlowAdminDelete:
		h.continueDelete(ctx, msg, text)
	case session.FlowAdminBroadcast:
		h.continueBroadcast(ctx, msg, text)
	default:
		h.sessions.Clear(msg.From.ID)
	}
}

func (h *Handler) handleBrowse(ctx context.Context, chatID int64) {
	listings, err := h.listings.ListActive(ctx, browseLimit)
	if err != nil {
		h.log.Errorw("list active listings", "err", err)
		h.reply(chatID, msgBrowseError)
		return
	}
	if len(listings) == 0 {
		h.reply(chatID, msgBrowseEmpty)
		return
	}
	h.reply(chatID, browseMessage(listings))
}

func (h *Handler) handleStats(ctx context.Context, chatID int64) {
	users, err := h.users.Count(ctx)
	if err != nil {
		h.log.Errorw("count users", "err", err)
		h.reply(chatID, msgStorageFailure)
		return
	}
	active, err := h.listings.CountByStatus(ctx, domain.StatusActive)
	if err != nil {
		h.log.Errorw("count listings", "err", err)
		h.reply(chatID, msgStorageFailure)
		return
	}
	sell, err := h.listings.CountActiveByKind(ctx, domain.KindSell)
	if err != nil {
		h.log.Errorw("count listings", "kind", domain.KindSell, "err", err)
		h.reply(chatID, msgStorageFailure)
		return
	}
	buy, err := h.listings.CountActiveByKind(ctx, domain.KindBuy)
	if err != nil {
		h.log.Errorw("count listings", "kind", domain.KindBuy, "err", err)
		h.reply(chatID, msgStorageFailure)
		return
	}
	h.reply(chatID, statsMessage(users, active, sell, buy))
}

func (h *Handler) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(m); err != nil {
		h.log.Warnw("send reply", "chat_id", chatID, "err", err)
	}
}

// replyKind prompts for the listing kind with a one-time SELL/BUY keyboard.
func (h *Handler) replyKind(chatID int64) {
	m := tgbotapi.NewMessage(chatID, msgAskKind)
	m.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(string(domain.KindSell)),
			tgbotapi.NewKeyboardButton(string(domain.KindBuy)),
		),
	)
	if _, err := h.api.Send(m); err != nil {
		h.log.Warnw("send reply", "chat_id", chatID, "err", err)
	}
}

func (h *Handler) replyRemoveKeyboard(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	if _, err := h.api.Send(m); err != nil {
		h.log.Warnw("send reply", "chat_id", chatID, "err", err)
	}
}
