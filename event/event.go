package event

// Type identifies a kernel event category
type Type uint16

// Kernel-owned event types. Hosts may define their own starting at TypeUser.
const (
	TypeNone Type = iota

	// Asset pipeline completions, published by the flush goroutine and
	// consumed at the next logic turn
	TypeAssetLoaded
	TypeAssetBatchFailed

	// Structural changes, bridged from the hierarchy's synchronous callbacks
	TypeActorAdded
	TypeActorRemoved

	// Emitted after a start-queue drain that processed at least one component
	TypeStartsFlushed
)

// TypeUser is the first event type id available to host applications
const TypeUser Type = 64

// Event is a single kernel event with an optional payload
type Event struct {
	Type    Type
	Payload any
	Frame   int64
}
