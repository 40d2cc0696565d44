//go:build windows

package transport

import "syscall"

// controlSocket is a no-op on windows; golang.org/x/sys/unix has no
// portable equivalent here and the receive buffer tuning in
// sockopt_unix.go is a throughput nicety, not a correctness requirement.
func controlSocket(_, _ string, _ syscall.RawConn) error {
	return nil
}
