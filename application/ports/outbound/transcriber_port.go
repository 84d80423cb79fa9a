package outbound

import (
	"context"
	"time"
)

// TranscriptSegment is one decoded speech segment, in engine order.
type TranscriptSegment struct {
	Text string
}

// OperationHandle identifies a long-running recognition operation on the
// engine side.
type OperationHandle struct {
	Name string
}

// TranscriberPort is the speech-to-text collaborator. Recognition is a
// long-running remote operation: Submit starts it, Await blocks until the
// engine finishes or timeout elapses.
type TranscriberPort interface {
	Submit(ctx context.Context, audioRef string) (OperationHandle, error)
	Await(ctx context.Context, handle OperationHandle, timeout time.Duration) ([]TranscriptSegment, error)
}
