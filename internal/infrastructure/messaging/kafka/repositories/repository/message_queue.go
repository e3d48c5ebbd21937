package repository

import (
	"context"
	"errors"
	"sync"

	sdk "github.com/segmentio/kafka-go"
	domainrepos "github.com/whiteelite/launchpad/internal/domain/repositories"
	shared "github.com/whiteelite/launchpad/pkg/shared/domain/entities"
)

// KafkaMessageQueueParams implements repositories.MessageQueueParams
// and provides configuration for initializing KafkaMessageQueue.
type KafkaMessageQueueParams struct {
	// Required
	Brokers []string
	Topic   string

	// Optional
	GroupID          string
	ToProduceBufSize int
	ToConsumeBufSize int
}

func (p KafkaMessageQueueParams) Get() map[string]any {
	return map[string]any{
		"brokers":         p.Brokers,
		"topic":           p.Topic,
		"groupId":         p.GroupID,
		"toProduceBuffer": p.ToProduceBufSize,
		"toConsumeBuffer": p.ToConsumeBufSize,
	}
}

// KafkaMessageQueue carries launch/transfer outcome events through a
// kafka topic, implementing the domain MessageQueue interfaces over
// the StartProducer/StartConsumer workers.
type KafkaMessageQueue struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup

	reader *sdk.Reader
	writer *sdk.Writer

	// External facing channels (Entity based)
	toProduce chan shared.Entity
	toConsume chan shared.Entity
	errs      chan error

	// Internal bridges (pointer channels the workers consume)
	prodBucket    chan *shared.Entity
	consBucket    chan *shared.Entity
	errorsProd    chan error
	errorsCons    chan error
	confirmations chan *shared.Entity
}

// InitializeKafkaMessageQueue creates a KafkaMessageQueue using params.
// Returns nil when the required params are missing.
func InitializeKafkaMessageQueue(params domainrepos.MessageQueueParams) domainrepos.MessageQueue {
	typed, _ := params.(KafkaMessageQueueParams)
	if err := ValidateKafkaParams(typed); err != nil {
		return nil
	}

	if typed.ToProduceBufSize <= 0 {
		typed.ToProduceBufSize = 1024
	}
	if typed.ToConsumeBufSize <= 0 {
		typed.ToConsumeBufSize = 1024
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	writer := &sdk.Writer{
		Addr:         sdk.TCP(typed.Brokers...),
		Topic:        typed.Topic,
		RequiredAcks: sdk.RequireAll,
		Balancer:     &sdk.LeastBytes{},
	}

	reader := sdk.NewReader(sdk.ReaderConfig{
		Brokers: typed.Brokers,
		Topic:   typed.Topic,
		GroupID: typed.GroupID,
	})

	mq := &KafkaMessageQueue{
		ctx:           ctx,
		cancel:        cancel,
		wg:            wg,
		reader:        reader,
		writer:        writer,
		toProduce:     make(chan shared.Entity, typed.ToProduceBufSize),
		toConsume:     make(chan shared.Entity, typed.ToConsumeBufSize),
		errs:          make(chan error, 32),
		prodBucket:    make(chan *shared.Entity, typed.ToProduceBufSize),
		consBucket:    make(chan *shared.Entity, typed.ToConsumeBufSize),
		errorsProd:    make(chan error, 16),
		errorsCons:    make(chan error, 16),
		confirmations: make(chan *shared.Entity, 16),
	}

	mq.startWorkers()
	return mq
}

func (q *KafkaMessageQueue) startWorkers() {
	q.wg.Add(1)
	go StartProducer[shared.Entity](q.ctx, q.wg, q.writer, q.prodBucket, q.errorsProd)

	q.wg.Add(1)
	go StartConsumer[shared.Entity](q.ctx, q.wg, q.reader, q.consBucket, q.errorsCons, q.confirmations)

	// Merge worker failures onto the public errors channel. The merge
	// never blocks a worker; overflow beyond the buffer is dropped.
	forward := func(in <-chan error) {
		defer q.wg.Done()
		for err := range in {
			select {
			case q.errs <- err:
			default:
			}
		}
	}
	q.wg.Add(2)
	go forward(q.errorsProd)
	go forward(q.errorsCons)

	// Bridge external toProduce -> prodBucket (*Entity)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ctx.Done():
				return
			case e, ok := <-q.toProduce:
				if !ok {
					return
				}
				event := e
				select {
				case q.prodBucket <- &event:
				case <-q.ctx.Done():
					return
				}
			}
		}
	}()

	// Bridge consBucket (*Entity) -> toConsume, acknowledging each
	// delivered event for offset commit.
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ctx.Done():
				return
			case ptr, ok := <-q.consBucket:
				if !ok {
					return
				}
				if ptr == nil {
					continue
				}
				select {
				case q.toConsume <- *ptr:
				case <-q.ctx.Done():
					return
				}
				select {
				case q.confirmations <- ptr:
				case <-q.ctx.Done():
					return
				}
			}
		}
	}()
}

// ToConsumeBuffered exposes the consumer channel of outcome events.
func (q *KafkaMessageQueue) ToConsumeBuffered() <-chan shared.Entity {
	return q.toConsume
}

// ToProduceBuffered exposes the producer channel of outcome events.
func (q *KafkaMessageQueue) ToProduceBuffered() chan<- shared.Entity {
	return q.toProduce
}

// Errors exposes asynchronous worker failures. Closed by Close once
// the workers have drained.
func (q *KafkaMessageQueue) Errors() <-chan error {
	return q.errs
}

// Close stops workers and closes resources.
func (q *KafkaMessageQueue) Close() {
	if q.cancel != nil {
		q.cancel()
	}

	if q.reader != nil {
		_ = q.reader.Close()
	}
	if q.writer != nil {
		_ = q.writer.Close()
	}

	q.wg.Wait()

	close(q.errs)
	if q.toProduce != nil {
		close(q.toProduce)
	}
	if q.toConsume != nil {
		close(q.toConsume)
	}
}

var _ domainrepos.MessageQueueConsumer = (*KafkaMessageQueue)(nil)
var _ domainrepos.MessageQueueProducer = (*KafkaMessageQueue)(nil)
var _ domainrepos.MessageQueue = (*KafkaMessageQueue)(nil)

// ValidateKafkaParams checks the required fields.
func ValidateKafkaParams(p KafkaMessageQueueParams) error {
	if len(p.Brokers) == 0 {
		return errors.New("kafka brokers are required")
	}
	if p.Topic == "" {
		return errors.New("kafka topic is required")
	}
	return nil
}
