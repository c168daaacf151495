package rabbitmq

import "github.com/magabrotheeeer/gymhub/internal/models"

// QueueConfig связывает очередь с ключом маршрутизации обменника уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Очереди уведомлений.
const (
	QueueTrialExpired  = "notifications." + models.NotificationTrialExpired
	QueueMembershipDue = "notifications." + models.NotificationMembershipDue
)

// GetNotificationQueues возвращает очереди, которые слушает сервис рассылки.
// Ключ маршрутизации совпадает с видом уведомления.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueTrialExpired, RoutingKey: models.NotificationTrialExpired},
		{QueueName: QueueMembershipDue, RoutingKey: models.NotificationMembershipDue},
	}
}
