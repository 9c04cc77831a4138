package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	"github.com/thatredkite/pyrobot/internal/domain/questions"
)

// step описывает сценарное действие пользователя на одно приглашение:
// нажатие кнопки с индексом press либо истечение времени.
type step struct {
	press   int
	timeout bool
}

type fakeHandle struct {
	presses chan int
	deleted bool
}

func (h *fakeHandle) Await(ctx context.Context) (int, error) {
	select {
	case index := <-h.presses:
		return index, nil
	case <-ctx.Done():
		return 0, ErrPromptTimeout
	}
}

func (h *fakeHandle) Delete() error {
	h.deleted = true
	return nil
}

// fakePlatform воспроизводит сценарий нажатий и записывает все обращения сессии.
type fakePlatform struct {
	steps   []step
	prompts []Prompt
	handles []*fakeHandle
	texts   []string
	grants  [][3]string
}

func (f *fakePlatform) SendPrompt(_ context.Context, _ string, p Prompt) (PromptHandle, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, p)
	h := &fakeHandle{presses: make(chan int, 1)}
	if i < len(f.steps) && !f.steps[i].timeout {
		h.presses <- f.steps[i].press
	}
	f.handles = append(f.handles, h)
	return h, nil
}

func (f *fakePlatform) SendText(_ context.Context, _ string, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakePlatform) GrantRole(_ context.Context, guildID, userID, roleID string) error {
	f.grants = append(f.grants, [3]string{guildID, userID, roleID})
	return nil
}

// Пул из одного вопроса с известным правильным ответом (индекс 1),
// чтобы сценарии были детерминированными.
const testPool = `[{"question": "Какой провод резать?", "answers": ["Красный", "Синий", "Зеленый"], "correct": 1}]`

func newTestBank(t *testing.T) *questions.Bank {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(testPool), 0644))
	return questions.NewBank(path)
}

func newTestSession(t *testing.T, platform *fakePlatform, store repository.AttemptStore) *Session {
	t.Helper()
	return NewSession(platform, store, newTestBank(t), zap.NewNop(),
		"g1", "u1", 0, 3, 50*time.Millisecond)
}

// TestSessionPass_WithRole: принятие, правильный ответ, выдача настроенной роли.
func TestSessionPass_WithRole(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.SetRewardRole(ctx, "g1", "role123"))

	platform := &fakePlatform{steps: []step{{press: consentAccept}, {press: 1}}}
	session := newTestSession(t, platform, store)

	require.NoError(t, session.Run(ctx))
	require.Equal(t, StatePassed, session.State())

	// Приглашение к согласию: две кнопки; вопрос: кнопка на каждый вариант.
	require.Len(t, platform.prompts, 2)
	require.Len(t, platform.prompts[0].Buttons, 2)
	require.Len(t, platform.prompts[1].Buttons, 3)

	done, err := store.IsCompleted(ctx, "g1", "u1")
	require.NoError(t, err)
	require.True(t, done)

	// Завершение вытесняет учет попыток.
	count, err := store.GetAttemptCount(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	require.Equal(t, [][3]string{{"g1", "u1", "role123"}}, platform.grants)
	require.Contains(t, platform.texts, "Correct!")
	require.Contains(t, platform.texts[len(platform.texts)-1], "<@&role123>")
}

// TestSessionPass_NoRole: прохождение без настроенной роли — предупреждение, выдачи нет.
func TestSessionPass_NoRole(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	platform := &fakePlatform{steps: []step{{press: consentAccept}, {press: 1}}}
	session := newTestSession(t, platform, store)

	require.NoError(t, session.Run(ctx))
	require.Equal(t, StatePassed, session.State())

	done, err := store.IsCompleted(ctx, "g1", "u1")
	require.NoError(t, err)
	require.True(t, done)

	require.Empty(t, platform.grants)
	require.Contains(t, platform.texts[len(platform.texts)-1], "contact the admins")
}

// TestSessionWrongAnswer: неправильный ответ; попытка засчитана, показан остаток.
func TestSessionWrongAnswer(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	platform := &fakePlatform{steps: []step{{press: consentAccept}, {press: 0}}}
	session := newTestSession(t, platform, store)

	require.NoError(t, session.Run(ctx))
	require.Equal(t, StateFailed, session.State())

	count, err := store.GetAttemptCount(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	done, err := store.IsCompleted(ctx, "g1", "u1")
	require.NoError(t, err)
	require.False(t, done)

	require.Contains(t, platform.texts, "Incorrect! You have 2 attempt(s) remaining.")
	// Приглашение с вопросом снимается после нажатия.
	require.True(t, platform.handles[1].deleted)
}

// TestSessionAnswerTimeout: истечение на вопросе; попытка остается потраченной.
func TestSessionAnswerTimeout(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	platform := &fakePlatform{steps: []step{{press: consentAccept}, {timeout: true}}}
	session := newTestSession(t, platform, store)

	require.NoError(t, session.Run(ctx))
	require.Equal(t, StateTimedOut, session.State())

	count, err := store.GetAttemptCount(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	done, err := store.IsCompleted(ctx, "g1", "u1")
	require.NoError(t, err)
	require.False(t, done)

	require.Contains(t, platform.texts, "You ran out of time. Please try again later.")
}

// TestSessionDecline: отказ не тратит попытку и уведомляет пользователя.
func TestSessionDecline(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	platform := &fakePlatform{steps: []step{{press: consentDecline}}}
	session := newTestSession(t, platform, store)

	require.NoError(t, session.Run(ctx))
	require.Equal(t, StateDeclined, session.State())

	count, err := store.GetAttemptCount(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	require.Contains(t, platform.texts, "You may try again later.")
	require.True(t, platform.handles[0].deleted)
}

// TestSessionConsentTimeout: молчаливое истечение согласия — без уведомления,
// без траты попытки, приглашение снимается.
func TestSessionConsentTimeout(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	platform := &fakePlatform{steps: []step{{timeout: true}}}
	session := newTestSession(t, platform, store)

	require.NoError(t, session.Run(ctx))
	require.Equal(t, StateDeclined, session.State())

	count, err := store.GetAttemptCount(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	require.Empty(t, platform.texts)
	require.True(t, platform.handles[0].deleted)
}

// TestRecordConsentIdempotent: решение фиксируется ровно один раз.
func TestRecordConsentIdempotent(t *testing.T) {
	session := &Session{}

	require.True(t, session.recordConsent(true))
	require.False(t, session.recordConsent(false))
	require.NotNil(t, session.didAccept)
	require.True(t, *session.didAccept)
}
