package outbound

import (
	"context"
	"time"
)

// ArtifactRecord describes one uploaded remote artifact.
type ArtifactRecord struct {
	Stage      string
	Ref        string
	UploadedAt time.Time
}

// ArtifactLedgerPort records uploaded artifacts so that orphans left behind
// by failed runs can be garbage-collected by a periodic job. Recording is
// best-effort bookkeeping: callers log failures but never fail the stage on
// them.
type ArtifactLedgerPort interface {
	Record(ctx context.Context, record ArtifactRecord) error
}
