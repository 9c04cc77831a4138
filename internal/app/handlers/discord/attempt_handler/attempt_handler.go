package attempt_handler

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	"github.com/thatredkite/pyrobot/internal/domain/questions"
	"github.com/thatredkite/pyrobot/internal/domain/verify"
	"github.com/thatredkite/pyrobot/internal/infra/discord"
)

// AttemptHandler обрабатывает команду /pyrotest attempt: проверяет
// допустимость попытки и запускает сессию теста в личных сообщениях.
type AttemptHandler struct {
	store    repository.AttemptStore
	bank     *questions.Bank
	platform verify.Platform
	log      *zap.Logger
	timeout  time.Duration
}

func NewAttemptHandler(
	store repository.AttemptStore,
	bank *questions.Bank,
	platform verify.Platform,
	log *zap.Logger,
	timeout time.Duration,
) *AttemptHandler {
	return &AttemptHandler{
		store:    store,
		bank:     bank,
		platform: platform,
		log:      log,
		timeout:  timeout,
	}
}

// CheckEligibility решает, может ли пользователь начать попытку.
// Возвращает счетчики на момент проверки и текст отказа, если попытка
// запрещена (пустая строка — попытка разрешена).
func (h *AttemptHandler) CheckEligibility(ctx context.Context, guildID, userID string) (numTries, maxTries int, deny string, err error) {
	done, err := h.store.IsCompleted(ctx, guildID, userID)
	if err != nil {
		return 0, 0, "", err
	}
	if done {
		return 0, 0, "You have already completed the test.", nil
	}

	maxTries, err = h.store.GetMaxTries(ctx, guildID)
	if err != nil {
		return 0, 0, "", err
	}
	numTries, err = h.store.GetAttemptCount(ctx, guildID, userID)
	if err != nil {
		return 0, 0, "", err
	}

	if numTries >= maxTries {
		return numTries, maxTries, fmt.Sprintf(
			"You have already attempted the test %d times. Please contact an administrator if you would like to try it again.",
			maxTries), nil
	}
	return numTries, maxTries, "", nil
}

func (h *AttemptHandler) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	guildID := i.GuildID
	userID := i.Member.User.ID

	numTries, maxTries, deny, err := h.CheckEligibility(ctx, guildID, userID)
	if err != nil {
		_ = discord.Respond(s, i, discord.GenericErrorReply)
		return err
	}
	if deny != "" {
		return discord.Respond(s, i, deny)
	}

	if err := discord.Respond(s, i, "Please check your DMs for instructions on how to complete the test."); err != nil {
		return err
	}

	session := verify.NewSession(h.platform, h.store, h.bank, h.log,
		guildID, userID, numTries, maxTries, h.timeout)
	go h.runSession(session, guildID, userID)

	return nil
}

// runSession доводит сессию до терминального состояния в своей горутине;
// жизненный цикл сессии не привязан к вызову команды.
func (h *AttemptHandler) runSession(session *verify.Session, guildID, userID string) {
	if err := session.Run(context.Background()); err != nil {
		h.log.Error("test session failed",
			zap.String("guild_id", guildID),
			zap.String("user_id", userID),
			zap.String("state", session.State().String()),
			zap.Error(err))
		return
	}
	h.log.Info("test session finished",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("state", session.State().String()))
}
