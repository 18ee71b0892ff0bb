package ports

import (
	"context"

	"github.com/bnema/studybuddy/internal/domain"
)

type TipCatalog interface {
	List(ctx context.Context) ([]domain.Tip, error)
	Add(ctx context.Context, tip domain.Tip) error
}
