package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/rs/zerolog"

	"github.com/Entelsac/ENTEL-SAC/internal/models"
)

const channelBuffer = 256

// sender is the narrow slice of the Telegram client the worker needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers events to a single chat through one worker goroutine.
// Enqueueing is non-blocking; when the buffer is full the event is dropped
// and counted in the log rather than stalling a request.
type Telegram struct {
	bot    sender
	chatID int64
	events chan Event
	log    zerolog.Logger
}

// NewTelegram builds the notifier around an authorized bot client.
func NewTelegram(token string, chatID int64, log zerolog.Logger) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	return newTelegram(bot, chatID, log), nil
}

func newTelegram(bot sender, chatID int64, log zerolog.Logger) *Telegram {
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		events: make(chan Event, channelBuffer),
		log:    log,
	}
}

// Start launches the delivery worker. It stops when ctx is cancelled.
func (t *Telegram) Start(ctx context.Context) {
	go t.run(ctx)
}

func (t *Telegram) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-t.events:
			msg := tgbotapi.NewMessage(t.chatID, event.Text)
			if _, err := t.bot.Send(msg); err != nil {
				t.log.Warn().Err(err).Msg("notification delivery failed")
			}
		}
	}
}

func (t *Telegram) enqueue(event Event) {
	select {
	case t.events <- event:
	default:
		t.log.Warn().Msg("notification buffer full, event dropped")
	}
}

func (t *Telegram) OrderCreated(order *models.Order, actor *models.User) {
	t.enqueue(Event{Text: orderCreatedText(order, actor)})
}

func (t *Telegram) OrderFulfilled(order *models.Order, actor *models.User) {
	t.enqueue(Event{Text: orderFulfilledText(order, actor)})
}

func (t *Telegram) UserCreated(user *models.User, actor *models.User) {
	t.enqueue(Event{Text: userCreatedText(user, actor)})
}
