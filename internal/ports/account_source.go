package ports

import (
	"context"

	"github.com/bnema/checkin-bot/internal/domain"
)

type AccountSource interface {
	List(ctx context.Context) ([]domain.Account, error)
}
