package common

type contextKey string

// AuthInfoKey carries the validated JWT claims through a request context.
const AuthInfoKey contextKey = "authInfo"
