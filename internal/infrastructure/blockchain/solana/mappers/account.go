package mappers

import (
	entities "github.com/whiteelite/launchpad/internal/domain/entities"
	"github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana/models"
)

func ToAccount(entity entities.Account) models.Account {
	return models.Account{
		PublicKey:  string(entity.PublicKey),
		PrivateKey: string(entity.PrivateKey),
	}
}

func FromAccount(model models.Account) entities.Account {
	return entities.Account{
		PublicKey:  entities.PublicKey(model.PublicKey),
		PrivateKey: entities.PrivateKey(model.PrivateKey),
	}
}
