package repositories

import (
	shared "github.com/whiteelite/launchpad/pkg/shared/domain/entities"
)

// MessageQueueParams carries implementation-specific queue settings.
type MessageQueueParams interface {
	Get() map[string]any
}

// InitializeMessageQueue constructs a queue from params.
type InitializeMessageQueue func(MessageQueueParams) MessageQueue

// MessageQueueConsumer delivers launch/transfer outcome events.
type MessageQueueConsumer interface {
	ToConsumeBuffered() <-chan shared.Entity
	Close()
}

// MessageQueueProducer accepts outcome events for publication.
type MessageQueueProducer interface {
	ToProduceBuffered() chan<- shared.Entity
	Close()
}

type MessageQueue interface {
	MessageQueueProducer
	MessageQueueConsumer
}
