package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thatredkite/pyrobot/internal/domain/verify"
)

const (
	customIDPrefix   = "pyrotest"
	maxButtonsPerRow = 5
	embedColor       = 0x5865F2
)

// Platform — адаптер discordgo под узкий интерфейс verify.Platform.
// Приглашения отправляются в личные сообщения; нажатия кнопок доставляются
// ожидающей сессии через брокер: одно приглашение — один одноразовый канал.
type Platform struct {
	session *discordgo.Session
	log     *zap.Logger

	mu      sync.Mutex
	pending map[string]chan int
}

var _ verify.Platform = (*Platform)(nil)

func NewPlatform(session *discordgo.Session, log *zap.Logger) *Platform {
	p := &Platform{
		session: session,
		log:     log,
		pending: make(map[string]chan int),
	}
	session.AddHandler(p.handleComponent)
	return p
}

// SendPrompt отправляет личное сообщение с кнопками и регистрирует приглашение
// у брокера. Возвращаемый handle разрешается первым нажатием или дедлайном.
func (p *Platform) SendPrompt(_ context.Context, userID string, prompt verify.Prompt) (verify.PromptHandle, error) {
	channel, err := p.session.UserChannelCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("create dm channel: %w", err)
	}

	promptID := uuid.NewString()
	message, err := p.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       prompt.Title,
			Description: prompt.Description,
			Color:       embedColor,
		}},
		Components: buttonRows(promptID, prompt.Buttons),
	})
	if err != nil {
		return nil, fmt.Errorf("send prompt: %w", err)
	}

	presses := make(chan int, 1)
	p.mu.Lock()
	p.pending[promptID] = presses
	p.mu.Unlock()

	return &promptHandle{
		platform:  p,
		promptID:  promptID,
		channelID: channel.ID,
		messageID: message.ID,
		presses:   presses,
	}, nil
}

func (p *Platform) SendText(_ context.Context, userID, text string) error {
	channel, err := p.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("create dm channel: %w", err)
	}
	if _, err := p.session.ChannelMessageSend(channel.ID, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (p *Platform) GrantRole(_ context.Context, guildID, userID, roleID string) error {
	if err := p.session.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	return nil
}

// handleComponent доставляет первое нажатие кнопки ожидающей сессии.
// Нажатия по уже разрешенным приглашениям подтверждаются и отбрасываются.
func (p *Platform) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return
	}
	index, err := strconv.Atoi(parts[2])
	if err != nil {
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		p.log.Warn("failed to ack component interaction", zap.Error(err))
	}

	p.mu.Lock()
	presses, ok := p.pending[parts[1]]
	if ok {
		delete(p.pending, parts[1])
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	presses <- index
}

func (p *Platform) drop(promptID string) {
	p.mu.Lock()
	delete(p.pending, promptID)
	p.mu.Unlock()
}

type promptHandle struct {
	platform  *Platform
	promptID  string
	channelID string
	messageID string
	presses   chan int
}

func (h *promptHandle) Await(ctx context.Context) (int, error) {
	select {
	case index := <-h.presses:
		return index, nil
	case <-ctx.Done():
		h.platform.drop(h.promptID)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, verify.ErrPromptTimeout
		}
		return 0, ctx.Err()
	}
}

func (h *promptHandle) Delete() error {
	return h.platform.session.ChannelMessageDelete(h.channelID, h.messageID)
}

func buttonRows(promptID string, buttons []verify.Button) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for i, b := range buttons {
		row = append(row, discordgo.Button{
			Label:    b.Label,
			Style:    buttonStyle(b.Style),
			CustomID: fmt.Sprintf("%s:%s:%d", customIDPrefix, promptID, i),
		})
		if len(row) == maxButtonsPerRow || i == len(buttons)-1 {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	return rows
}

func buttonStyle(style verify.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case verify.StyleSuccess:
		return discordgo.SuccessButton
	case verify.StyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}
