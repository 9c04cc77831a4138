package app

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const commandName = "pyrotest"

// RegisterCommands регистрирует группу команд pyrotest глобально.
func RegisterCommands(s *discordgo.Session) error {
	minTries := float64(1)

	command := &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: "Pyro test commands",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "attempt",
				Description: "Attempt the pyrotechnics test",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "setrole",
				Description: "Set the role that users will receive upon completing the test",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "The reward role",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "maxtries",
				Description: "Set the maximum number of tries a user can attempt the test",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "num_tries",
						Description: "Maximum number of tries",
						Required:    true,
						MinValue:    &minTries,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "reset",
				Description: "Reset a user's test attempts",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "member",
						Description: "The user to reset",
						Required:    true,
					},
				},
			},
		},
	}

	if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", command); err != nil {
		return fmt.Errorf("create application command: %w", err)
	}
	return nil
}
