package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// InteractionHandler — обработчик одной команды бота.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate) error

// Recover оборачивает обработчик команды: паника перехватывается,
// преобразуется в ошибку и логируется, чтобы один обработчик не ронял бота.
func Recover(log *zap.Logger, next InteractionHandler) InteractionHandler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) (err error) {
		defer func() {
			if r := recover(); r != nil {
				var e error
				switch x := r.(type) {
				case error:
					e = x
				case string:
					e = errors.New(x)
				default:
					e = errors.New("unknown panic")
				}
				log.Error("recovered from panic in interaction handler", zap.Error(e))
				err = e
			}
		}()
		return next(s, i)
	}
}
