//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"social-lab/domain/social"

	"github.com/google/uuid"
)

// ISnapshotRepository persists full platform snapshots.
// Save replaces whatever was stored before and returns the revision it was stamped with.
type ISnapshotRepository interface {
	Save(ctx context.Context, snapshot social.Snapshot) (uuid.UUID, error)
	Load(ctx context.Context) (social.Snapshot, error)
}

// IContentFilter rewrites a message before it is stored.
// Implementations must keep the rune count unchanged.
type IContentFilter interface {
	Censor(message string) string
}
