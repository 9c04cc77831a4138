package discord

import "github.com/bwmarrin/discordgo"

// NoPermissionReply — ответ на административную команду без прав администратора.
const NoPermissionReply = "You do not have permission to use this command."

// GenericErrorReply — ответ пользователю при внутренней ошибке команды.
const GenericErrorReply = "Something went wrong. Please try again later."

// Respond отвечает на вызов команды обычным сообщением в канал.
func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// IsAdmin сообщает, есть ли у вызвавшего команду участника право администратора.
func IsAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
