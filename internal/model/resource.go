package model

import "time"

// Resource ресурс (академия) с расписанием и его оператор
type Resource struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OperatorID     string    `json:"operator_id"`
	OperatorChatID *int64    `json:"operator_chat_id"` // Telegram чат для уведомлений
	OperatorEmail  *string   `json:"operator_email"`
	CreatedAt      time.Time `json:"created_at"`
}
