package reset_handler

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	"github.com/thatredkite/pyrobot/internal/infra/discord"
)

// ResetHandler обрабатывает команду /pyrotest reset: сбрасывает счетчик
// попыток и отметку о прохождении для одного пользователя.
// Только для администраторов гильдии.
type ResetHandler struct {
	store repository.AttemptStore
}

func NewResetHandler(store repository.AttemptStore) *ResetHandler {
	return &ResetHandler{store: store}
}

func (h *ResetHandler) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !discord.IsAdmin(i) {
		return discord.Respond(s, i, discord.NoPermissionReply)
	}

	subcommand := i.ApplicationCommandData().Options[0]
	member := subcommand.Options[0].UserValue(s)
	if member == nil {
		return discord.Respond(s, i, discord.GenericErrorReply)
	}

	if err := h.store.ResetUser(context.Background(), i.GuildID, member.ID); err != nil {
		_ = discord.Respond(s, i, discord.GenericErrorReply)
		return err
	}

	return discord.Respond(s, i, fmt.Sprintf("Successfully reset <@%s>'s test attempts.", member.ID))
}
