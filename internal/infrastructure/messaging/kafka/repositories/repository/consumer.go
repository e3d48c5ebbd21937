package repository

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"

	sdk "github.com/segmentio/kafka-go"
	mapper "github.com/whiteelite/launchpad/internal/infrastructure/messaging/kafka/repositories/mapper"
	models "github.com/whiteelite/launchpad/internal/infrastructure/messaging/kafka/repositories/models"
	shared "github.com/whiteelite/launchpad/pkg/shared/domain/entities"
)

// StartConsumer reads outcome events into bucket and commits offsets
// for events acknowledged on the confirmed channel.
func StartConsumer[T shared.Entity](
	ctx context.Context,
	wg *sync.WaitGroup,
	reader *sdk.Reader,
	bucket chan<- *T,
	errors chan<- error,
	confirmed <-chan *T,
) {
	defer wg.Done()

	var workers sync.WaitGroup
	workers.Add(2)

	go func() {
		defer workers.Done()

		for {
			select {
			case <-ctx.Done():
				return
			default:
				data, err := reader.ReadMessage(ctx)
				if err != nil {
					if !reportErr(ctx, errors, err) {
						return
					}
					continue
				}

				model := new(models.Message)
				if err := json.Unmarshal(data.Value, model); err != nil {
					if !reportErr(ctx, errors, err) {
						return
					}
					continue
				}

				event, err := mapper.FromMessage[T](model)
				if err != nil {
					if !reportErr(ctx, errors, err) {
						return
					}
					continue
				}

				select {
				case bucket <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		defer workers.Done()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-confirmed:
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

				if err := reader.CommitMessages(ctx, sdk.Message{
					Key:   []byte(model.Hash),
					Value: serialized,
				}); err != nil {
					if !reportErr(ctx, errors, err) {
						return
					}
				}
			}
		}
	}()

	// Channels close only once both workers have stopped touching them.
	workers.Wait()
	close(bucket)
	close(errors)
}
