package repository

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"

	sdk "github.com/segmentio/kafka-go"
	mapper "github.com/whiteelite/launchpad/internal/infrastructure/messaging/kafka/repositories/mapper"
	shared "github.com/whiteelite/launchpad/pkg/shared/domain/entities"
)

// reportErr delivers err on the error channel without ever wedging a
// worker behind an undrained receiver. Returns false when the context
// ended instead.
func reportErr(ctx context.Context, errors chan<- error, err error) bool {
	select {
	case errors <- err:
		return true
	case <-ctx.Done():
		return false
	}
}

// StartProducer drains bucket and writes each outcome event to the
// topic, keyed by its content hash. Runs until ctx is cancelled or
// the bucket closes.
func StartProducer[T shared.Entity](
	ctx context.Context,
	wg *sync.WaitGroup,
	writer *sdk.Writer,
	bucket <-chan *T,
	errors chan<- error,
) {
	defer wg.Done()
	defer close(errors)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-bucket:
			if !ok {
				return
			}

			model, err := mapper.ToMessage(event)
			if err != nil {
				if !reportErr(ctx, errors, err) {
					return
				}
				continue
			}

			serialized, err := json.Marshal(model)
			if err != nil {
				if !reportErr(ctx, errors, err) {
					return
				}
				continue
			}
			if err := writer.WriteMessages(ctx, sdk.Message{
				Key:   []byte(model.Hash),
				Value: serialized,
			}); err != nil {
				if !reportErr(ctx, errors, err) {
					return
				}
				continue
			}
		}
	}
}
