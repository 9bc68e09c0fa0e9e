package bot

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/session"
)

// Admin sub-flows share the same per-user session slot as listing
// submission, so the admin can have at most one of them open and /cancel
// aborts whichever it is.

func (h *Handler) isAdmin(userID int64) bool {
	return userID == h.cfg.AdminID
}

func (h *Handler) handleAdminMenu(msg *tgbotapi.Message) {
	if !h.isAdmin(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminDenied)
		return
	}
	h.reply(msg.Chat.ID, adminMenuMessage())
}

func (h *Handler) handleDeleteStart(msg *tgbotapi.Message) {
	if !h.isAdmin(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminDenied)
		return
	}
	if _, ok := h.sessions.Get(msg.From.ID); ok {
		h.reply(msg.Chat.ID, msgFlowOpen)
		return
	}
	h.sessions.Set(msg.From.ID, session.State{Flow: session.FlowAdminDelete})
	h.reply(msg.Chat.ID, msgAskAdID)
}

// continueDelete consumes one listing id. A malformed id re-prompts and
// keeps the sub-flow open; any successfully parsed id ends it, whether or
// not a row was actually deleted. The two outcomes are reported apart so
// "already deleted" is not mistaken for success.
func (h *Handler) continueDelete(ctx context.Context, msg *tgbotapi.Message, text string) {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		h.reply(msg.Chat.ID, msgBadAdID)
		return
	}

	deleted, err := h.listings.MarkDeletedIfActive(ctx, id)
	h.sessions.Clear(msg.From.ID)
	if err != nil {
		h.log.Errorw("delete listing", "listing_id", id, "err", err)
		h.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	h.reply(msg.Chat.ID, deleteResultMessage(id, deleted))
}

func (h *Handler) handleBroadcastStart(msg *tgbotapi.Message) {
	if !h.isAdmin(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminDenied)
		return
	}
	if _, ok := h.sessions.Get(msg.From.ID); ok {
		h.reply(msg.Chat.ID, msgFlowOpen)
		return
	}
	h.sessions.Set(msg.From.ID, session.State{Flow: session.FlowAdminBroadcast})
	h.reply(msg.Chat.ID, msgAskBroadcast)
}

// continueBroadcast takes the message body and fans it out. Only the
// admin's own session slot is held while the fan-out runs; other users'
// messages keep flowing.
func (h *Handler) continueBroadcast(ctx context.Context, msg *tgbotapi.Message, text string) {
	h.sessions.Clear(msg.From.ID)

	rep, err := h.bcast.Send(ctx, msg.From.ID, text)
	if err != nil {
		h.log.Errorw("broadcast", "err", err)
		h.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	h.reply(msg.Chat.ID, broadcastReportMessage(rep.Delivered, rep.Attempted))
}
