package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "cah-online context key " + string(c)
}

const (
	// RequestIDKey holds the X-Request-ID assigned to the inbound request.
	RequestIDKey = contextKey("requestID")

	// SessionIDKey holds the hex id of the authenticated session.
	SessionIDKey = contextKey("sessionID")

	// UsernameKey holds the username bound to the authenticated session.
	UsernameKey = contextKey("username")

	ComponentKey = contextKey("component")
	OperationKey = contextKey("operation")
)
