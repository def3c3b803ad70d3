package core

// Logger reports application events and errors.
// Implementations may forward extra args to an error tracker;
// expected arg fmt: error | map[string]interface{} | actor.Actor.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
