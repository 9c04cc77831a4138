package dto

// AttemptReportResponse — отчет о состоянии теста одного пользователя в гильдии.
type AttemptReportResponse struct {
	GuildID      string `json:"guild_id"`
	UserID       string `json:"user_id"`
	AttemptCount int    `json:"attempt_count"`
	MaxTries     int    `json:"max_tries"`
	Completed    bool   `json:"completed"`
}
