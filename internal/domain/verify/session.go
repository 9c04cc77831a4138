package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	"github.com/thatredkite/pyrobot/internal/domain/questions"
)

// State — состояние сессии теста.
type State int

const (
	StateCreated State = iota
	StateAwaitingConsent
	StateAwaitingAnswer
	StatePassed
	StateFailed
	StateTimedOut
	StateDeclined
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAwaitingConsent:
		return "awaiting_consent"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StatePassed:
		return "passed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	case StateDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// Индексы кнопок приглашения accept/decline.
const (
	consentAccept = iota
	consentDecline
)

// Session проводит одну попытку теста одного пользователя: приглашение
// accept/decline, затем вопрос с кнопками-вариантами, каждое с собственным
// таймаутом. Сессия принадлежит запустившему ее вызову команды и не
// разделяется между горутинами.
//
// Последовательности "проверить завершение → INCR" и "проверить завершение →
// SADD" не атомарны: каждая операция хранилища — отдельный запрос, и узкое
// окно для двойного принятия существует. Это сохраненное поведение, а не
// недосмотр; командный слой отсекает повторные попытки по счетчику.
type Session struct {
	platform Platform
	store    repository.AttemptStore
	bank     *questions.Bank
	log      *zap.Logger

	guildID string
	userID  string

	numTries int
	maxTries int
	timeout  time.Duration

	didAccept *bool
	state     State
}

// NewSession создает сессию для пользователя. numTries — счетчик попыток
// на момент вызова команды (до инкремента), maxTries — потолок гильдии.
func NewSession(
	platform Platform,
	store repository.AttemptStore,
	bank *questions.Bank,
	log *zap.Logger,
	guildID, userID string,
	numTries, maxTries int,
	timeout time.Duration,
) *Session {
	return &Session{
		platform: platform,
		store:    store,
		bank:     bank,
		log:      log,
		guildID:  guildID,
		userID:   userID,
		numTries: numTries,
		maxTries: maxTries,
		timeout:  timeout,
		state:    StateCreated,
	}
}

// State возвращает текущее состояние сессии.
func (s *Session) State() State {
	return s.state
}

// Run проводит попытку от приглашения до терминального состояния.
func (s *Session) Run(ctx context.Context) error {
	s.state = StateAwaitingConsent

	consent := Prompt{
		Title: "Pyro Test",
		Description: fmt.Sprintf(
			"You will be asked a random question regarding pyrotechnics. "+
				"When you are ready to begin, press the Accept button, and you will have %d seconds to answer the question.",
			int(s.timeout.Seconds())),
		Buttons: []Button{
			{Label: "Accept", Style: StyleSuccess},
			{Label: "Nevermind", Style: StyleDanger},
		},
	}

	handle, err := s.platform.SendPrompt(ctx, s.userID, consent)
	if err != nil {
		return fmt.Errorf("send consent prompt: %w", err)
	}

	index, err := s.await(ctx, handle)
	if errors.Is(err, ErrPromptTimeout) {
		// Молчаливое истечение: приглашение снимается, пользователь не уведомляется.
		s.state = StateDeclined
		_ = handle.Delete()
		return nil
	}
	if err != nil {
		s.state = StateDeclined
		return err
	}

	if index == consentDecline {
		if !s.recordConsent(false) {
			return nil
		}
		s.state = StateDeclined
		if err := s.platform.SendText(ctx, s.userID, "You may try again later."); err != nil {
			s.log.Warn("failed to send decline notice", zap.String("user_id", s.userID), zap.Error(err))
		}
		return handle.Delete()
	}

	if !s.recordConsent(true) {
		return nil
	}
	// Единственное место, где попытка засчитывается.
	if err := s.store.IncrementAttemptCount(ctx, s.guildID, s.userID); err != nil {
		return err
	}

	return s.askQuestion(ctx)
}

// recordConsent фиксирует решение пользователя ровно один раз; повторное
// нажатие (в том числе проигравшее гонку) игнорируется.
func (s *Session) recordConsent(accepted bool) bool {
	if s.didAccept != nil {
		return false
	}
	s.didAccept = &accepted
	return true
}

func (s *Session) askQuestion(ctx context.Context) error {
	question, err := s.bank.GetRandomQuestion()
	if err != nil {
		return fmt.Errorf("draw question: %w", err)
	}

	buttons := make([]Button, 0, len(question.Answers))
	for _, answer := range question.Answers {
		buttons = append(buttons, Button{Label: answer, Style: StylePrimary})
	}

	s.state = StateAwaitingAnswer
	handle, err := s.platform.SendPrompt(ctx, s.userID, Prompt{
		Title:       "Pyro Test",
		Description: question.Question,
		Buttons:     buttons,
	})
	if err != nil {
		return fmt.Errorf("send question prompt: %w", err)
	}

	index, err := s.await(ctx, handle)
	if errors.Is(err, ErrPromptTimeout) {
		// Попытка уже засчитана при принятии и остается потраченной.
		s.state = StateTimedOut
		return s.platform.SendText(ctx, s.userID, "You ran out of time. Please try again later.")
	}
	if err != nil {
		return err
	}

	// Нажатие терминально для приглашения: сообщение снимается, поздние
	// нажатия брокер платформы уже не доставит.
	_ = handle.Delete()

	if index != question.Correct {
		s.state = StateFailed
		remaining := s.maxTries - s.numTries - 1
		return s.platform.SendText(ctx, s.userID,
			fmt.Sprintf("Incorrect! You have %d attempt(s) remaining.", remaining))
	}

	return s.pass(ctx)
}

func (s *Session) pass(ctx context.Context) error {
	s.state = StatePassed

	if err := s.platform.SendText(ctx, s.userID, "Correct!"); err != nil {
		s.log.Warn("failed to send pass notice", zap.String("user_id", s.userID), zap.Error(err))
	}

	if err := s.store.MarkCompleted(ctx, s.guildID, s.userID); err != nil {
		return err
	}

	roleID, err := s.store.GetRewardRole(ctx, s.guildID)
	if err != nil {
		return err
	}
	if roleID == "" {
		return s.platform.SendText(ctx, s.userID,
			"Congratulations! You have passed the test. However, no reward role is configured, please contact the admins!")
	}

	if err := s.platform.GrantRole(ctx, s.guildID, s.userID, roleID); err != nil {
		return fmt.Errorf("grant role %s: %w", roleID, err)
	}
	return s.platform.SendText(ctx, s.userID,
		fmt.Sprintf("Congratulations! You have passed the test and have been given the <@&%s> role.", roleID))
}

// await ожидает первое нажатие с собственным отсчетом от момента отправки.
func (s *Session) await(ctx context.Context, handle PromptHandle) (int, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return handle.Await(waitCtx)
}
