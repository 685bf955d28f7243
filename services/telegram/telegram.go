package telegram

import (
	"fmt"
	"luas-schedule/models/constants"
	"luas-schedule/models/entities"
	"luas-schedule/pkg/observer"
	telegramRepo "luas-schedule/repositories/telegram"
	"strconv"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

func New(token string, chatIDs []int64, telegramRepo telegramRepo.Repository) (*Impl, error) {
	if token == "" {
		return &Impl{}, ErrTokenIsMissing
	}

	b, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return &Impl{}, fmt.Errorf("%w: %v", ErrBotNotInitialized, err)
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Warn().Err(err).Msg("An error occurred while handling update")
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})

	service := newWithSender(b, chatIDs, telegramRepo)
	service.bot = b
	for _, handler := range service.commandHandlers() {
		dispatcher.AddHandler(handler)
	}
	service.updater = ext.NewUpdater(dispatcher, nil)

	return service, nil
}

func newWithSender(bot sender, chatIDs []int64, telegramRepo telegramRepo.Repository) *Impl {
	return &Impl{
		sender:       bot,
		chatIDs:      chatIDs,
		telegramRepo: telegramRepo,
		messages:     cache.New(cache.NoExpiration, 0),
	}
}

// commandHandlers lists the bot commands in dispatch order. The first
// matching handler of a group wins, so the catch-all comes last.
func (service *Impl) commandHandlers() []ext.Handler {
	return []ext.Handler{
		handlers.NewCommand("start", service.startCmd),
		handlers.NewCommand("help", service.helpCmd),
		handlers.NewCommand("subscribe", service.subscribeCmd),
		handlers.NewCommand("unsubscribe", service.unsubscribeCmd),
		handlers.NewMessage(message.Command, service.unknownCmd),
	}
}

// ParseChatIDs reads a comma separated list of chat IDs.
func ParseChatIDs(value string) ([]int64, error) {
	var chatIDs []int64
	for _, raw := range strings.Split(value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat ID %q: %w", raw, err)
		}
		chatIDs = append(chatIDs, chatID)
	}
	return chatIDs, nil
}

// ListenAndDispatch starts polling bot commands in the background.
func (service *Impl) ListenAndDispatch() error {
	if service.bot == nil || service.updater == nil {
		return ErrBotNotInitialized
	}

	err := service.updater.StartPolling(service.bot, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToStartListening, err)
	}

	log.Info().Str(constants.LogUsername, service.bot.Username).Msg("Telegram bot listening")
	return nil
}

func (service *Impl) Shutdown() {
	if service.updater == nil {
		return
	}
	if err := service.updater.Stop(); err != nil {
		log.Debug().Err(err).Msg("Cannot stop telegram updater, continuing...")
	}
}

func (service *Impl) startCmd(_ *gotgbot.Bot, ctx *ext.Context) error {
	service.logCommand("start", ctx)
	service.reply(ctx.EffectiveChat.Id, getMessageFromMessageType(MessageTypeWelcome))
	return nil
}

func (service *Impl) helpCmd(_ *gotgbot.Bot, ctx *ext.Context) error {
	service.logCommand("help", ctx)
	service.reply(ctx.EffectiveChat.Id, getMessageFromMessageType(MessageTypeHelp))
	return nil
}

func (service *Impl) unknownCmd(_ *gotgbot.Bot, ctx *ext.Context) error {
	service.logCommand("unknown", ctx)
	service.reply(ctx.EffectiveChat.Id, getMessageFromMessageType(MessageTypeUnknown))
	return nil
}

func (service *Impl) subscribeCmd(_ *gotgbot.Bot, ctx *ext.Context) error {
	service.logCommand("subscribe", ctx)
	err := service.telegramRepo.SaveOrUpdate(entities.TelegramUser{ChatID: ctx.EffectiveChat.Id, Name: ctx.EffectiveChat.Username})
	if err != nil {
		log.Error().Err(err).Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("Cannot save subscription")
		service.reply(ctx.EffectiveChat.Id, getMessageFromMessageType(MessageTypeUnknown))
		return nil
	}
	service.reply(ctx.EffectiveChat.Id, getMessageFromMessageType(MessageTypeSubscribe))
	return nil
}

func (service *Impl) unsubscribeCmd(_ *gotgbot.Bot, ctx *ext.Context) error {
	service.logCommand("unsubscribe", ctx)
	if err := service.telegramRepo.Delete(ctx.EffectiveChat.Id); err != nil {
		log.Error().Err(err).Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("Cannot delete subscription")
	}
	service.reply(ctx.EffectiveChat.Id, getMessageFromMessageType(MessageTypeUnsubscribe))
	return nil
}

func (service *Impl) logCommand(cmd string, ctx *ext.Context) {
	log.Info().
		Str(constants.LogCommand, cmd).
		Str(constants.LogUsername, ctx.EffectiveChat.Username).
		Int64(constants.LogChatID, ctx.EffectiveChat.Id).
		Msg("Command received")
}

func (service *Impl) reply(chatID int64, text string) {
	if _, err := service.sender.SendMessage(chatID, text, &gotgbot.SendMessageOpts{ParseMode: "Markdown"}); err != nil {
		log.Error().Err(err).Int64(constants.LogChatID, chatID).Msg("Cannot reply to command")
	}
}

// OnNotify alerts every chat when the service message of a stop changes. The
// first message seen for a stop is only remembered.
func (service *Impl) OnNotify(e observer.Event) {
	switch e.E {
	case observer.UnloadEvent:
		service.messages.Delete(e.StopCode)
		return
	case observer.ForecastEvent:
	default:
		return
	}
	if e.Forecast == nil {
		return
	}

	message := strings.TrimSpace(e.Forecast.ServiceMessage)
	previous, found := service.messages.Get(e.StopCode)
	service.messages.SetDefault(e.StopCode, message)
	if !found || previous.(string) == message {
		return
	}

	service.broadcast(formatAlert(e.StopName, e.StopCode, message))
}

// recipients returns the configured chats followed by the subscribed ones.
func (service *Impl) recipients() []int64 {
	seen := map[int64]struct{}{}
	var chatIDs []int64
	add := func(chatID int64) {
		if _, found := seen[chatID]; !found {
			seen[chatID] = struct{}{}
			chatIDs = append(chatIDs, chatID)
		}
	}

	for _, chatID := range service.chatIDs {
		add(chatID)
	}

	if service.telegramRepo != nil {
		users, err := service.telegramRepo.FetchAll()
		if err != nil {
			log.Error().Err(err).Msg("Cannot fetch telegram subscribers, continuing...")
		}
		for _, user := range users {
			add(user.ChatID)
		}
	}
	return chatIDs
}

func (service *Impl) broadcast(text string) {
	for _, chatID := range service.recipients() {
		if _, err := service.sender.SendMessage(chatID, text, nil); err != nil {
			log.Error().Err(err).Int64(constants.LogChatID, chatID).Msg("Cannot send service message alert")
			continue
		}
		log.Info().Int64(constants.LogChatID, chatID).Msg("Service message alert sent")
	}
}

func formatAlert(stopName string, stopCode string, message string) string {
	if message == "" {
		message = "No service message"
	}
	return fmt.Sprintf("🚊 Luas %s (%s)\n%s", stopName, stopCode, message)
}

func getMessageFromMessageType(messageType MessageType) string {
	switch messageType {
	case MessageTypeWelcome:
		return "👋 *Welcome!*\n\nI post Luas service message changes for the monitored stops.\n" +
			"Send /subscribe to receive them, /help for the commands."
	case MessageTypeHelp:
		return "🚊 *Commands*\n\n/subscribe - receive service message alerts\n" +
			"/unsubscribe - stop receiving them\n/help - show this message"
	case MessageTypeSubscribe:
		return "✅ You will now receive Luas service message alerts."
	case MessageTypeUnsubscribe:
		return "👋 You will no longer receive Luas service message alerts."
	default:
		return "🤔 Sorry, I did not understand. Send /help for the commands."
	}
}
