package ports

import (
	"context"

	"github.com/KeSeaman/deep-causality/domain/sample"
)

// SampleSource is the external data-loading collaborator: it owns ingestion,
// schema validation, typing, and Unknown-marker translation, and hands this
// core an already-validated sample set.
type SampleSource interface {
	Load(ctx context.Context) (*sample.Set, error)
}
