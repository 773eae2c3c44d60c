package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"ai-cookbook/internal/app"
	"ai-cookbook/internal/config"
	"ai-cookbook/internal/metrics"
	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot serves one cookbook session per Telegram user.
type Bot struct {
	api Sender
	app *app.App
	cfg *config.Config

	mu    sync.Mutex
	users map[int64]*userSession
}

// userSession serialises updates from one user.
type userSession struct {
	mu   sync.Mutex
	sess *session.Session
}

// NewBot initializes the Telegram API client and sets the webhook.
func NewBot(cfg *config.Config, a *app.App) (*Bot, error) {
	if err := cfg.RequireTelegram(); err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return New(api, cfg, a), nil
}

// New builds a Bot on an existing API client.
func New(api Sender, cfg *config.Config, a *app.App) *Bot {
	return &Bot{
		api:   api,
		app:   a,
		cfg:   cfg,
		users: make(map[int64]*userSession),
	}
}

// RegisterHandlers registers the webhook, health and metrics endpoints.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", metrics.Handler())
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("Error parsing update: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	go b.HandleUpdate(context.Background(), update)
}

// HandleUpdate processes one update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if !b.allowed(q.From) {
			return
		}
		b.withUser(ctx, q.From, func(sess *session.Session) {
			b.handleCallback(ctx, sess, q)
		})
	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		if !b.allowed(msg.From) {
			return
		}
		b.withUser(ctx, msg.From, func(sess *session.Session) {
			b.handleMessage(ctx, sess, msg)
		})
	}
}

func (b *Bot) allowed(u *tgbotapi.User) bool {
	if u == nil {
		return false
	}
	if !b.cfg.IsAllowed(u.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", u.ID, u.UserName)
		return false
	}
	return true
}

// withUser runs fn with the user's session while holding the user's lock.
func (b *Bot) withUser(ctx context.Context, u *tgbotapi.User, fn func(*session.Session)) {
	b.mu.Lock()
	us, ok := b.users[u.ID]
	if !ok {
		us = &userSession{}
		b.users[u.ID] = us
	}
	b.mu.Unlock()

	us.mu.Lock()
	defer us.mu.Unlock()

	if us.sess == nil {
		sess, err := b.app.OpenSession(ctx, namespace(u.ID))
		if err != nil {
			log.Printf("Failed to open session for %d: %v", u.ID, err)
			return
		}
		us.sess = sess
	}
	fn(us.sess)
}

func namespace(userID int64) string {
	return fmt.Sprintf("tg-%d", userID)
}

func identity(u *tgbotapi.User) profile.AuthIdentity {
	return profile.AuthIdentity{
		UID:         namespace(u.ID),
		DisplayName: strings.TrimSpace(u.FirstName + " " + u.LastName),
		Provider:    "telegram",
	}
}

func (b *Bot) send(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) tgbotapi.Message {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send message to %d: %v", chatID, err)
	}
	return sent
}

func (b *Bot) edit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = markup
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit message %d in %d: %v", messageID, chatID, err)
	}
}

// status sends a progress note and returns a func that replaces it.
func (b *Bot) status(chatID int64, text string) func(string, *tgbotapi.InlineKeyboardMarkup) {
	sent := b.send(chatID, text, nil)
	return func(final string, markup *tgbotapi.InlineKeyboardMarkup) {
		if sent.MessageID == 0 {
			b.send(chatID, final, markup)
			return
		}
		b.edit(chatID, sent.MessageID, final, markup)
	}
}
