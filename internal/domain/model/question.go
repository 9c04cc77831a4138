package model

import (
	"errors"
	"fmt"
)

// Question представляет один вопрос теста, загружаемый из questions.json.
type Question struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Correct  int      `json:"correct"`
}

// Validate проверяет инварианты записи: непустой текст, непустой список
// вариантов и валидный индекс правильного ответа.
func (q Question) Validate() error {
	if q.Question == "" {
		return errors.New("empty question text")
	}
	if len(q.Answers) == 0 {
		return errors.New("question has no answers")
	}
	if q.Correct < 0 || q.Correct >= len(q.Answers) {
		return fmt.Errorf("correct answer index %d out of range (answers: %d)", q.Correct, len(q.Answers))
	}
	return nil
}
