package ports

// Logger is the diagnostic logger used by commands and the HTTP server.
type Logger interface {
	Debug(message string)
	Info(message string)
	Error(message string)
}
