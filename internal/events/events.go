// Package events описывает аудиторские события жизненного цикла пользователей
// и их публикацию в RabbitMQ.
//
// Публикация выполняется по принципу "best effort": ошибка публикации
// логируется вызывающей стороной, но не прерывает основную операцию.
package events

import (
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/user-management-service/internal/lib/rabbitmq"
)

// Типы событий жизненного цикла пользователя.
const (
	TypeUserCreated     = "user.created"
	TypeUserSoftDeleted = "user.soft_deleted"
	TypeUserHardDeleted = "user.hard_deleted"
	TypeUserRestored    = "user.restored"
)

// UserEvent описывает одно событие жизненного цикла пользователя.
type UserEvent struct {
	Type       string    `json:"type"`        // Тип события
	Login      string    `json:"login"`       // Логин пользователя, с которым произошло событие
	Actor      string    `json:"actor"`       // Логин пользователя, выполнившего операцию
	OccurredAt time.Time `json:"occurred_at"` // Время события
}

// NewUserEvent создает событие с текущим временем.
func NewUserEvent(eventType, login, actor string) UserEvent {
	return UserEvent{
		Type:       eventType,
		Login:      login,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher публикует события пользователей в обменник user-events.
// Ключом маршрутизации служит тип события.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала AMQP.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish отправляет событие в RabbitMQ.
func (p *Publisher) Publish(event UserEvent) error {
	return rabbitmq.PublishMessage(p.ch, rabbitmq.ExchangeUserEvents, event.Type, event)
}
