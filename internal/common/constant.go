package common

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// Session metadata keys. Every key under SessionKeyPrefix belongs to the
// session and is dropped on logout.
const (
	SessionKeyPrefix = "session."
	SessionTokenKey  = SessionKeyPrefix + "token"
	SessionUserKey   = SessionKeyPrefix + "user"
)

// LegacyTokenKeys are storage keys older clients used for the token,
// in lookup order. They are migrated to SessionTokenKey once.
var LegacyTokenKeys = []string{"token", "access_token", "authToken"}

// LegacyUserKeys are storage keys older clients used for the cached user.
var LegacyUserKeys = []string{"user"}
