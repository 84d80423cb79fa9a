package outbound

// TaskDispatcher submits work to a bounded worker pool.
type TaskDispatcher interface {
	Submit(task func()) error
}
