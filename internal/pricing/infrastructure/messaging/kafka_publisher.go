// 包 messaging 领域事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
	"github.com/wyfcoding/energyderivatives/pkg/mq"
)

// KafkaEventPublisher 将领域事件发布到 Kafka 主题
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) domain.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// Publish 发布事件，key 用于分区（同一指纹的事件保持有序）
func (p *KafkaEventPublisher) Publish(ctx context.Context, key string, event any) error {
	return p.producer.SendMessage(ctx, p.topic, key, event)
}
