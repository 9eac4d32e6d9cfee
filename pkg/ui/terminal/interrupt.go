package terminal

import "golang.org/x/sys/unix"

// Interrupter delivers an interrupt to the running program.
type Interrupter func() error

// Interrupt sends SIGINT to the process group, as a cooked terminal
// would on Ctrl+C.
func Interrupt() error {
	return unix.Kill(0, unix.SIGINT)
}
