package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrInvalidScore          = errors.New("invalid score")
	ErrInvalidWinner         = errors.New("winner must be one of the two teams or Tie")
	ErrTooManyWickets        = errors.New("wickets exceed the all-out limit")
	ErrMatchAlreadyCompleted = errors.New("match already has a result")
	ErrInvalidSeed           = errors.New("invalid seed tournament")

	// Ошибки конфликтов
	ErrTournamentConflict = errors.New("tournament already exists")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid scorer PIN")
	ErrScorerLoginDisabled    = errors.New("scorer login is not configured")

	// Ошибки, специфичные для сущностей
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
)
