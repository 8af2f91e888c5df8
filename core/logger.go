package core

// Identity is the authenticated caller attached to log entries, when known.
type Identity struct {
	ID       string
	Username string
	Email    string
}

// Logger is any service that can record application events.
// expected args: error | map[string]interface{} | Identity
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
