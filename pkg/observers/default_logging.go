package observers

// NewDefaultLoggingObserver creates a logging observer on the default slog logger
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(nil)
}
