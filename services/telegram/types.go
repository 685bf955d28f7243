package telegram

import (
	"errors"
	"luas-schedule/pkg/observer"
	telegramRepo "luas-schedule/repositories/telegram"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/patrickmn/go-cache"
)

type MessageType int

const (
	MessageTypeUnknown     MessageType = -1
	MessageTypeWelcome     MessageType = 1
	MessageTypeHelp        MessageType = 2
	MessageTypeSubscribe   MessageType = 4
	MessageTypeUnsubscribe MessageType = 5
)

var (
	ErrTokenIsMissing         = errors.New("telegram token is missing")
	ErrBotNotInitialized      = errors.New("telegram bot is not ready yet")
	ErrFailedToStartListening = errors.New("telegram bot can't start to listen command")
)

// sender is the part of *gotgbot.Bot used to push messages.
type sender interface {
	SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
}

type Service interface {
	observer.Observer
	ListenAndDispatch() error
	Shutdown()
}

type Impl struct {
	bot          *gotgbot.Bot
	sender       sender
	updater      *ext.Updater
	telegramRepo telegramRepo.Repository
	chatIDs      []int64
	// last service message seen, per stop code
	messages *cache.Cache
}
