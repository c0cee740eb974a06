package core

// Logger is any service that can log app events.
// args may carry errors, maps of extras and at most one Person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the grader attached to a logged event.
type Person struct {
	ID    string
	Name  string
	Email string
}
