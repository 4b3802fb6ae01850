package core

// Logger logs messages to local stdout and optionally ships them to an
// error tracking service. Implementations decide what extra args mean
// (eg. the rollbar service picks up a user.User to set the person).
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
