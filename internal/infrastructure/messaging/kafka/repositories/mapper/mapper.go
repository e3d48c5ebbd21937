package mapper

import (
	"crypto/sha256"
	"encoding/hex"

	json "github.com/goccy/go-json"

	"github.com/google/uuid"
	"github.com/whiteelite/launchpad/internal/infrastructure/messaging/kafka/repositories/models"
	shared "github.com/whiteelite/launchpad/pkg/shared/domain/entities"
)

func ToMessage[T shared.Entity](entity *T) (*models.Message, error) {
	serialized, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(serialized)

	return &models.Message{
		ID:      uuid.New(),
		Content: string(serialized),
		Hash:    hex.EncodeToString(sum[:]),
	}, nil
}

func FromMessage[T shared.Entity](message *models.Message) (*T, error) {
	entity := new(T)
	if err := json.Unmarshal([]byte(message.Content), entity); err != nil {
		return nil, err
	}

	return entity, nil
}
