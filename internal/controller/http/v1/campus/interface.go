package campus

import (
	"context"

	"oza-attendance/backend/internal/entity"
)

type Campuses interface {
	List(ctx context.Context) ([]entity.Campus, error)
}
