package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"igmond/internal/models"
	"igmond/internal/monitor"
	"igmond/internal/providers"
	"igmond/internal/services"
	"igmond/internal/structures"
)

// Handlers is the chat command surface. It is the only path that adds a
// username to the set the monitor will check.
type Handlers struct {
	config  *structures.Config
	store   services.StoreServiceInterface
	fetcher monitor.ProfileFetcher
	sender  Sender
	logger  providers.Logger
}

func NewHandlers(conf *structures.Config, store services.StoreServiceInterface, fetcher monitor.ProfileFetcher, sender Sender, logger providers.Logger) *Handlers {
	return &Handlers{
		config:  conf,
		store:   store,
		fetcher: fetcher,
		sender:  sender,
		logger:  logger,
	}
}

func (h *Handlers) Handle(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.start(msg)
	case "watch":
		h.watch(msg)
	case "unwatch":
		h.unwatch(msg)
	case "list":
		h.list(msg)
	case "banned":
		h.banned(msg)
	case "check":
		h.check(msg)
	case "stats":
		h.stats(msg)
	case "grant":
		h.grant(msg)
	default:
		h.reply(msg.Chat.ID, "Unknown command. Try /watch, /unwatch, /list, /banned, /check.")
	}
}

func (h *Handlers) start(msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		return
	}
	h.store.GetOrCreateSubscriber(from.ID, from.UserName)
	if from.ID == h.config.Telegram.OwnerID {
		h.store.SetRole(from.ID, models.RoleOwner)
	} else if h.isConfiguredAdmin(from.ID) {
		h.store.SetRole(from.ID, models.RoleAdmin)
	}

	h.reply(msg.Chat.ID, fmt.Sprintf("👋 Welcome %s!\nUse /watch <username> to track an account.", from.FirstName))
}

func (h *Handlers) watch(msg *tgbotapi.Message) {
	if !h.requireSubscriber(msg) {
		return
	}
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		h.reply(msg.Chat.ID, "⚠️ Usage: `/watch <username>`")
		return
	}

	username, err := h.store.AddWatch(msg.From.ID, arg)
	switch err {
	case nil:
		h.reply(msg.Chat.ID, fmt.Sprintf("✅ Now watching: *@%s*", username))
	case services.ErrAlreadyWatching:
		h.reply(msg.Chat.ID, fmt.Sprintf("⚠️ Already watching *@%s*", username))
	case services.ErrWatchLimit:
		h.reply(msg.Chat.ID, fmt.Sprintf("⚠️ Watch list is full (max %d)", h.config.Monitor.MaxUsernamesPerUser))
	case services.ErrEmptyUsername:
		h.reply(msg.Chat.ID, "⚠️ Usage: `/watch <username>`")
	default:
		h.logger.Errorf(providers.TypeBot, "watch %q for %d: %s", arg, msg.From.ID, err)
		h.reply(msg.Chat.ID, "❌ Something went wrong, try again")
	}
}

func (h *Handlers) unwatch(msg *tgbotapi.Message) {
	if !h.requireSubscriber(msg) {
		return
	}
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		h.reply(msg.Chat.ID, "⚠️ Usage: `/unwatch <username>`")
		return
	}

	username := models.NormalizeUsername(arg)
	if h.store.RemoveFromWatch(msg.From.ID, username) {
		h.reply(msg.Chat.ID, fmt.Sprintf("🗑 Stopped watching *@%s*", username))
	} else {
		h.reply(msg.Chat.ID, fmt.Sprintf("⚠️ You are not watching *@%s*", username))
	}
}

func (h *Handlers) list(msg *tgbotapi.Message) {
	sub, ok := h.store.GetSubscriber(msg.From.ID)
	if !ok || len(sub.WatchList) == 0 {
		h.reply(msg.Chat.ID, "📭 Your watchlist is empty.")
		return
	}

	var b strings.Builder
	b.WriteString("📊 *Your watchlist:*\n\n")
	for _, name := range sub.WatchList {
		b.WriteString("• @" + name + "\n")
	}
	h.reply(msg.Chat.ID, b.String())
}

func (h *Handlers) banned(msg *tgbotapi.Message) {
	sub, ok := h.store.GetSubscriber(msg.From.ID)
	if !ok || len(sub.BanList) == 0 {
		h.reply(msg.Chat.ID, "📭 No banned accounts on your list.")
		return
	}

	var b strings.Builder
	b.WriteString("🚫 *Banned accounts:*\n\n")
	for _, name := range sub.BanList {
		b.WriteString("• @" + name + "\n")
	}
	h.reply(msg.Chat.ID, b.String())
}

// check performs an on-demand fetch outside the polling cycle. It does not
// touch confirmation counters: a one-off look must not influence debounce.
func (h *Handlers) check(msg *tgbotapi.Message) {
	if !h.requireSubscriber(msg) {
		return
	}
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		h.reply(msg.Chat.ID, "⚠️ Usage: `/check <username>`")
		return
	}

	username := models.NormalizeUsername(arg)
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Monitor.FetchTimeout)
	defer cancel()

	profile, err := h.fetcher.Fetch(ctx, username)
	if err != nil || profile == nil {
		h.reply(msg.Chat.ID, fmt.Sprintf("❓ Could not check *@%s* right now", username))
		return
	}

	var icon string
	switch profile.Status {
	case models.StatusActive:
		icon = "✅"
	case models.StatusBanned:
		icon = "🚫"
	default:
		icon = "❓"
	}
	h.reply(msg.Chat.ID, fmt.Sprintf("%s *@%s* is %s", icon, username, profile.Status))
}

func (h *Handlers) stats(msg *tgbotapi.Message) {
	if !h.requireRole(msg, models.RoleAdmin) {
		return
	}
	checks, alerts := h.store.StatsSnapshot()
	h.reply(msg.Chat.ID, fmt.Sprintf(
		"📈 *Statistics*\n\n🔍 Total checks: %d\n📣 Alerts sent: %d\n👥 Subscribers: %d\n👁 Watched usernames: %d",
		checks, alerts, h.store.CountSubscribers(), h.store.CountWatched(),
	))
}

func (h *Handlers) grant(msg *tgbotapi.Message) {
	if !h.requireRole(msg, models.RoleAdmin) {
		return
	}
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		h.reply(msg.Chat.ID, "⚠️ Usage: `/grant <user_id> <days>`")
		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.reply(msg.Chat.ID, "⚠️ Invalid user id")
		return
	}
	days, err := strconv.Atoi(args[1])
	if err != nil || days <= 0 {
		h.reply(msg.Chat.ID, "⚠️ Invalid number of days")
		return
	}

	until := time.Now().AddDate(0, 0, days)
	if !h.store.ExtendSubscription(id, until) {
		h.reply(msg.Chat.ID, "⚠️ Unknown subscriber — they need to /start first")
		return
	}
	h.reply(msg.Chat.ID, fmt.Sprintf("🔑 Subscription for `%d` extended until %s", id, until.Format("2006-01-02")))
}

func (h *Handlers) requireSubscriber(msg *tgbotapi.Message) bool {
	if msg.From == nil {
		return false
	}
	h.store.GetOrCreateSubscriber(msg.From.ID, msg.From.UserName)
	if h.isConfiguredAdmin(msg.From.ID) || msg.From.ID == h.config.Telegram.OwnerID {
		return true
	}
	if !h.store.IsSubscribed(msg.From.ID) {
		h.reply(msg.Chat.ID, "🔒 Your subscription is inactive. Contact an admin.")
		return false
	}
	return true
}

func (h *Handlers) requireRole(msg *tgbotapi.Message, role models.Role) bool {
	if msg.From == nil {
		return false
	}
	if msg.From.ID == h.config.Telegram.OwnerID || h.isConfiguredAdmin(msg.From.ID) {
		return true
	}
	sub, ok := h.store.GetSubscriber(msg.From.ID)
	if !ok || !sub.Role.AtLeast(role) {
		h.reply(msg.Chat.ID, "🔒 You are not allowed to do that.")
		return false
	}
	return true
}

func (h *Handlers) isConfiguredAdmin(id int64) bool {
	for _, adminID := range h.config.Telegram.AdminIDs {
		if adminID == id {
			return true
		}
	}
	return false
}

func (h *Handlers) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.sender.Send(msg); err != nil {
		h.logger.Errorf(providers.TypeBot, "reply to %d: %s", chatID, err)
	}
}
