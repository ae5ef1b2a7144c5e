// Package telegram is the Telegram long-poll transport. It parses
// incoming messages into normalized command requests, hands them to
// the core engine, and renders reply payloads into Telegram messages.
// All Telegram-specific markup lives here, never in the core.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pgulin/placebot/internal/command"
	"github.com/pgulin/placebot/internal/core"
)

// Adapter drives the Telegram bot API.
type Adapter struct {
	bot     *tgbotapi.BotAPI
	engine  *core.Engine
	adminID int64
	logger  *slog.Logger
}

// New creates the adapter and verifies the token against the API.
func New(token string, adminID int64, engine *core.Engine, logger *slog.Logger) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	return &Adapter{
		bot:     bot,
		engine:  engine,
		adminID: adminID,
		logger:  logger,
	}, nil
}

// Start runs the long-poll loop until the context is cancelled. Each
// message is handled in its own goroutine; commands from different
// users are independent and need no ordering between them.
func (a *Adapter) Start(ctx context.Context) error {
	a.logger.Info("telegram transport started", "bot", a.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			msg := update.Message
			go a.handleMessage(ctx, msg)
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	req, ok := a.toRequest(msg)
	if !ok {
		return
	}

	reply := a.engine.Handle(ctx, req)

	out := tgbotapi.NewMessage(msg.Chat.ID, a.render(reply))
	out.ParseMode = tgbotapi.ModeMarkdown
	if _, err := a.bot.Send(out); err != nil {
		a.logger.Warn("telegram send failed", "chat", msg.Chat.ID, "error", err)
	}
}

// toRequest normalizes a Telegram message. The admin flag is verified
// here, against the configured admin chat id, before the core ever
// sees the request.
func (a *Adapter) toRequest(msg *tgbotapi.Message) (command.Request, bool) {
	if msg.From == nil {
		return command.Request{}, false
	}
	callerID := strconv.FormatInt(msg.From.ID, 10)
	isAdmin := a.adminID != 0 && msg.From.ID == a.adminID

	if msg.IsCommand() {
		name, known := command.Parse(msg.Command())
		if !known {
			return command.Request{}, false
		}
		return command.Request{
			Command:       name,
			Argument:      strings.TrimSpace(msg.CommandArguments()),
			CallerID:      callerID,
			CallerIsAdmin: isAdmin,
		}, true
	}

	// Plain text is treated as a name probe: run it through find so
	// the user gets a card or suggestions.
	return command.Request{
		Command:       command.Find,
		Argument:      strings.TrimSpace(msg.Text),
		CallerID:      callerID,
		CallerIsAdmin: isAdmin,
	}, true
}

// render turns a reply payload into Telegram markdown. Structured
// fields are preferred; Text is the plain fallback.
func (a *Adapter) render(reply core.Reply) string {
	if reply.Place == nil && reply.Weather == nil && reply.Route == nil && len(reply.Suggestions) == 0 {
		return escapeMarkdown(reply.Text)
	}

	var b strings.Builder

	if len(reply.Suggestions) > 0 {
		b.WriteString("I found several possible matches:\n")
		for _, m := range reply.Suggestions {
			fmt.Fprintf(&b, "%s. %s\n", m.Place.ID, escapeMarkdown(m.Place.Name))
		}
		b.WriteString("Reply with the exact id or name to pick one.")
		return b.String()
	}

	if reply.Place != nil {
		p := reply.Place
		fmt.Fprintf(&b, "*%s* (id %s)\n", escapeMarkdown(p.Name), p.ID)
		if p.Hours != "" {
			fmt.Fprintf(&b, "Hours: %s\n", escapeMarkdown(p.Hours))
		}
		if p.Address != "" {
			fmt.Fprintf(&b, "Address: %s\n", escapeMarkdown(p.Address))
		}
		if p.Tickets != "" {
			fmt.Fprintf(&b, "Tickets: %s\n", escapeMarkdown(p.Tickets))
		}
		if p.Site != "" {
			fmt.Fprintf(&b, "Site: %s\n", p.Site)
		}
	}

	if reply.Weather != nil {
		fmt.Fprintf(&b, "\nNow: %+.1f °C, %s\n",
			reply.Weather.TemperatureC, escapeMarkdown(reply.Weather.Condition))
	}

	if reply.Route != nil {
		fmt.Fprintf(&b, "\nDistance: %.1f km, about %d min\nOpen the route: %s\n",
			reply.Route.DistanceKm,
			int(reply.Route.Duration.Minutes()+0.5),
			reply.Route.MapLink)
	}

	for _, note := range reply.Notes {
		fmt.Fprintf(&b, "\n_%s_", escapeMarkdown(note))
	}

	return strings.TrimRight(b.String(), "\n")
}

func escapeMarkdown(text string) string {
	r := strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`")
	return r.Replace(text)
}
