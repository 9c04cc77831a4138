package setrole_handler

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	"github.com/thatredkite/pyrobot/internal/infra/discord"
)

// SetRoleHandler обрабатывает команду /pyrotest setrole: сохраняет роль,
// выдаваемую за прохождение теста. Только для администраторов гильдии.
type SetRoleHandler struct {
	store repository.AttemptStore
}

func NewSetRoleHandler(store repository.AttemptStore) *SetRoleHandler {
	return &SetRoleHandler{store: store}
}

func (h *SetRoleHandler) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !discord.IsAdmin(i) {
		return discord.Respond(s, i, discord.NoPermissionReply)
	}

	subcommand := i.ApplicationCommandData().Options[0]
	role := subcommand.Options[0].RoleValue(s, i.GuildID)
	if role == nil {
		return discord.Respond(s, i, discord.GenericErrorReply)
	}

	if err := h.store.SetRewardRole(context.Background(), i.GuildID, role.ID); err != nil {
		_ = discord.Respond(s, i, discord.GenericErrorReply)
		return err
	}

	return discord.Respond(s, i, fmt.Sprintf("Successfully set the role to <@&%s>.", role.ID))
}
