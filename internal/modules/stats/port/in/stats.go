package in

import (
	"context"

	"stillness/internal/modules/stats/dto"
)

type Usecase interface {
	Snapshot(ctx context.Context) dto.SnapshotOutput
	RecordOffline(ctx context.Context, input dto.OfflineInput) (dto.SnapshotOutput, error)
}
