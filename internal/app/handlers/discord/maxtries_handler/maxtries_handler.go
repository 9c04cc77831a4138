package maxtries_handler

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	"github.com/thatredkite/pyrobot/internal/infra/discord"
)

// MaxTriesHandler обрабатывает команду /pyrotest maxtries: сохраняет потолок
// попыток для гильдии. Только для администраторов гильдии.
type MaxTriesHandler struct {
	store repository.AttemptStore
}

func NewMaxTriesHandler(store repository.AttemptStore) *MaxTriesHandler {
	return &MaxTriesHandler{store: store}
}

func (h *MaxTriesHandler) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !discord.IsAdmin(i) {
		return discord.Respond(s, i, discord.NoPermissionReply)
	}

	subcommand := i.ApplicationCommandData().Options[0]
	numTries := int(subcommand.Options[0].IntValue())
	if numTries < 1 {
		return discord.Respond(s, i, "The maximum number of tries must be at least 1.")
	}

	if err := h.store.SetMaxTries(context.Background(), i.GuildID, numTries); err != nil {
		_ = discord.Respond(s, i, discord.GenericErrorReply)
		return err
	}

	return discord.Respond(s, i, fmt.Sprintf("Successfully set the maximum number of tries to %d.", numTries))
}
