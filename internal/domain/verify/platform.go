package verify

import (
	"context"
	"errors"
)

// ErrPromptTimeout возвращается из PromptHandle.Await, когда отведенное
// время истекло без единого нажатия.
var ErrPromptTimeout = errors.New("prompt timed out")

// ButtonStyle задает визуальный стиль кнопки приглашения.
type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota
	StyleSuccess
	StyleDanger
)

// Button — одна кнопка приглашения. Индекс кнопки в Prompt.Buttons и есть
// значение, которым разрешается ожидание.
type Button struct {
	Label string
	Style ButtonStyle
}

// Prompt — личное сообщение с текстом и набором кнопок.
type Prompt struct {
	Title       string
	Description string
	Buttons     []Button
}

// PromptHandle — ожидание ровно одного нажатия по отправленному приглашению.
// Await блокируется до первого нажатия или истечения ctx; первое разрешение
// терминально, поздние нажатия платформа отбрасывает.
type PromptHandle interface {
	Await(ctx context.Context) (int, error)
	Delete() error
}

// Platform — узкий интерфейс чат-платформы, нужный сессии теста.
type Platform interface {
	SendPrompt(ctx context.Context, userID string, p Prompt) (PromptHandle, error)
	SendText(ctx context.Context, userID, text string) error
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
}
