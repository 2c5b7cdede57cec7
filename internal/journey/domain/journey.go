package domain

import "time"

// Journey — путешествие пользователя с упорядоченной последовательностью маркеров.
// Создается пустым; все мутации маркеров идут через операции владельца.
type Journey struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsOwnedBy проверяет владельца journey
func (j *Journey) IsOwnedBy(userID string) bool {
	return j.OwnerID == userID
}
