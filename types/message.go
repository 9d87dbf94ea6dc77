package types

// Message is the invalidation broadcast exchanged between instances of one
// deployment. Every successful write or removal produces one; subscribers
// drop the named keys from their local tier unless they sent the message
// themselves. Delivery is at-most-once and best-effort: a lost message
// leaves a stale local entry until it expires by TTL.
type Message struct {
	// Sender is the origin instance identity, used only so an instance can
	// discard its own echo.
	Sender string `json:"sender"`

	// Keys are the affected fully-qualified cache keys.
	Keys []string `json:"keys"`
}
