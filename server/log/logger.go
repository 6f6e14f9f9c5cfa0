// Package log defines the logging interface the server components share.
package log

// Logger is the slice of the standard library's log.Logger the game, lobby,
// socket, and http server write to.  Passing it explicitly keeps components
// off the package-level default logger.
type Logger interface {
	// Printf writes the formatted string with values to the logger.
	// Arguments are handled in the manner of fmt.Printf.
	Printf(format string, v ...interface{})
}
