package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"igmond/internal/providers"
	"igmond/internal/structures"
)

// Sender is the slice of the Telegram client the bot package needs; it is
// satisfied by *tgbotapi.BotAPI and mocked in tests.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func NewBotAPI(conf *structures.Config, logger providers.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(conf.Telegram.Token)
	if err != nil {
		return nil, err
	}
	api.Debug = conf.Debug
	logger.Infof(providers.TypeBot, "Authorized as @%s", api.Self.UserName)
	return api, nil
}

// Service owns the long-polling update loop.
type Service struct {
	api      *tgbotapi.BotAPI
	handlers *Handlers
	logger   providers.Logger
}

func NewService(api *tgbotapi.BotAPI, handlers *Handlers, logger providers.Logger) *Service {
	return &Service{
		api:      api,
		handlers: handlers,
		logger:   logger,
	}
}

// Start consumes updates on its own goroutine until Stop is called.
func (s *Service) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.api.GetUpdatesChan(u)

	go func() {
		s.logger.Infof(providers.TypeBot, "Update loop started")
		for update := range updates {
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			s.handlers.Handle(update.Message)
		}
		s.logger.Infof(providers.TypeBot, "Update loop stopped")
	}()
}

func (s *Service) Stop() {
	s.api.StopReceivingUpdates()
}
