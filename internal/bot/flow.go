package bot

import (
	"context"
	"math"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/domain"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/session"
)

// handlePostAd opens the submission flow. Unverified users first go through
// the payment-code check; the submission itself starts only for verified
// users. Re-issuing the command mid-flow changes nothing: the user is told
// to /cancel first.
func (h *Handler) handlePostAd(ctx context.Context, msg *tgbotapi.Message) {
	if _, ok := h.sessions.Get(msg.From.ID); ok {
		h.reply(msg.Chat.ID, msgFlowOpen)
		return
	}

	verified, err := h.users.IsVerified(ctx, msg.From.ID)
	if err != nil {
		h.log.Errorw("read verified", "user_id", msg.From.ID, "err", err)
		h.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	if !verified {
		h.sessions.Set(msg.From.ID, session.State{Flow: session.FlowPayment})
		h.reply(msg.Chat.ID, msgPaymentPrompt)
		return
	}

	h.sessions.Set(msg.From.ID, session.State{Flow: session.FlowSubmit, Step: session.StepKind})
	h.replyKind(msg.Chat.ID)
}

// continuePayment checks the mock payment code. A match marks the user
// verified durably and closes the flow; anything else re-prompts.
func (h *Handler) continuePayment(ctx context.Context, msg *tgbotapi.Message, text string) {
	if text != h.cfg.PaymentCode {
		h.reply(msg.Chat.ID, msgPaymentBad)
		return
	}

	if err := h.users.SetVerified(ctx, msg.From.ID); err != nil {
		h.log.Errorw("set verified", "user_id", msg.From.ID, "err", err)
		h.sessions.Clear(msg.From.ID)
		h.reply(msg.Chat.ID, msgStorageFailure)
		return
	}

	h.sessions.Clear(msg.From.ID)
	h.reply(msg.Chat.ID, msgPaymentOK)
}

// continueSubmission advances the submission machine by exactly one step.
// Invalid input re-prompts and leaves both step and draft untouched; the
// last accepted field triggers the commit.
func (h *Handler) continueSubmission(ctx context.Context, msg *tgbotapi.Message, st session.State, text string) {
	switch st.Step {
	case session.StepKind:
		kind, ok := domain.ParseKind(text)
		if !ok {
			h.reply(msg.Chat.ID, msgBadKind)
			return
		}
		st.Draft.Kind = &kind
		st.Step = session.StepName
		h.sessions.Set(msg.From.ID, st)
		h.replyRemoveKeyboard(msg.Chat.ID, msgAskName)

	case session.StepName:
		st.Draft.GroupName = &text
		st.Step = session.StepMembers
		h.sessions.Set(msg.From.ID, st)
		h.reply(msg.Chat.ID, msgAskMembers)

	case session.StepMembers:
		n, err := strconv.Atoi(text)
		if err != nil || n <= 0 {
			h.reply(msg.Chat.ID, msgBadMembers)
			return
		}
		st.Draft.MemberCount = &n
		st.Step = session.StepDate
		h.sessions.Set(msg.From.ID, st)
		h.reply(msg.Chat.ID, msgAskDate)

	case session.StepDate:
		// Accepted verbatim; the date is free text on purpose.
		st.Draft.Established = &text
		st.Step = session.StepPrice
		h.sessions.Set(msg.From.ID, st)
		h.reply(msg.Chat.ID, msgAskPrice)

	case session.StepPrice:
		p, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			h.reply(msg.Chat.ID, msgBadPrice)
			return
		}
		st.Draft.Price = &p
		st.Step = session.StepContact
		h.sessions.Set(msg.From.ID, st)
		h.reply(msg.Chat.ID, msgAskContact)

	case session.StepContact:
		st.Draft.Contact = &text
		h.commitSubmission(ctx, msg, st.Draft)

	default:
		h.sessions.Clear(msg.From.ID)
	}
}

// commitSubmission writes the completed draft and destroys the session in
// the same handling span. The session is cleared even when the insert
// fails, so a user is never stranded behind a dead draft.
func (h *Handler) commitSubmission(ctx context.Context, msg *tgbotapi.Message, d session.Draft) {
	defer h.sessions.Clear(msg.From.ID)

	if !d.Complete() {
		// Steps only advance on accepted input, so this indicates a bug.
		h.log.Errorw("incomplete draft at commit", "user_id", msg.From.ID)
		h.reply(msg.Chat.ID, msgInsertError)
		return
	}

	var uname *string
	if msg.From.UserName != "" {
		u := msg.From.UserName
		uname = &u
	}

	l := domain.Listing{
		UserID:      msg.From.ID,
		Username:    uname,
		Kind:        *d.Kind,
		GroupName:   *d.GroupName,
		MemberCount: *d.MemberCount,
		Established: *d.Established,
		Price:       *d.Price,
		Contact:     *d.Contact,
		Status:      domain.StatusActive,
	}

	id, err := h.listings.Insert(ctx, l)
	if err != nil {
		h.log.Errorw("insert listing", "user_id", msg.From.ID, "err", err)
		h.reply(msg.Chat.ID, msgInsertError)
		return
	}
	l.ID = id

	h.reply(msg.Chat.ID, listingSavedMessage(l))
}
