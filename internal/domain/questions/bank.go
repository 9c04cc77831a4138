package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/thatredkite/pyrobot/internal/domain/model"
)

// ErrNoQuestions возвращается, когда пул вопросов пуст и тест провести нельзя.
var ErrNoQuestions = errors.New("no questions configured")

// Bank хранит пул вопросов теста. Пул загружается из JSON-файла при первом
// обращении и кэшируется на всё время жизни процесса.
type Bank struct {
	path string

	mu     sync.Mutex
	pool   []model.Question
	loaded bool
}

// NewBank создает банк вопросов с указанным путем к файлу пула.
// Файл не читается до первого вызова GetRandomQuestion.
func NewBank(path string) *Bank {
	return &Bank{path: path}
}

// GetRandomQuestion возвращает равновероятно выбранный вопрос из пула.
// Если файл пула отсутствует, он создается пустым, а операция завершается
// ошибкой ErrNoQuestions: без вопросов тест запускать нельзя.
func (b *Bank) GetRandomQuestion() (model.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.loaded {
		if err := b.load(); err != nil {
			return model.Question{}, err
		}
	}
	if len(b.pool) == 0 {
		return model.Question{}, fmt.Errorf("%s: %w", b.path, ErrNoQuestions)
	}
	return b.pool[rand.Intn(len(b.pool))], nil
}

func (b *Bank) load() error {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		// Создаем пустой файл, чтобы администратору было куда добавить вопросы.
		if writeErr := os.WriteFile(b.path, []byte("[]"), 0644); writeErr != nil {
			return fmt.Errorf("create empty question file: %w", writeErr)
		}
		return fmt.Errorf("%s: %w", b.path, ErrNoQuestions)
	}
	if err != nil {
		return fmt.Errorf("read question file: %w", err)
	}

	var pool []model.Question
	if err := json.Unmarshal(data, &pool); err != nil {
		return fmt.Errorf("parse question file %s: %w", b.path, err)
	}
	for i, q := range pool {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d in %s: %w", i, b.path, err)
		}
	}

	b.pool = pool
	b.loaded = true
	return nil
}
