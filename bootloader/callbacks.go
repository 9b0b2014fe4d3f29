package bootloader

import "time"

// Progress contains information about an operation in progress.
// Passed to ProgressCallback after every transferred chunk.
type Progress struct {
	// Phase is the current run phase
	Phase Phase

	// Space is the memory space name ("flash" or "eeprom")
	Space string

	// Done is the number of bytes transferred so far in this phase
	Done int

	// Total is the number of bytes this phase will transfer
	Total int

	// Percentage is the completion percentage of the phase (0.0 to 100.0)
	Percentage float64

	// Elapsed is the time elapsed since the operation started
	Elapsed time.Duration
}

// ProgressCallback is called during programming to report progress.
// Implementations should return quickly to avoid blocking the programming operation.
//
// Example:
//
//	prog := bootloader.New(device,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Printf("[%s] %d/%d bytes\n", p.Phase, p.Done, p.Total)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the programmer.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	prog := bootloader.New(device, bootloader.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
