package i

// Logger is the leveled logger shared by the services.
type Logger interface {
	Debug(string)
	Info(string)
	Warning(string)
	Error(string)
}
