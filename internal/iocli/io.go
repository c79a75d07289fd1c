// Package iocli wraps console input and output for the admin commands.
package iocli

// IO абстрагирует консоль для команд cli
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
