//go:build !windows

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// controlSocket is set as a net.Dialer's Control hook. The teacher
// tunes SO_REUSEPORT on the server's listening socket so multiple
// worker goroutines can share one port; an outbound query socket has
// no analogous reuse concern, but it does benefit from a larger
// receive buffer when a TCP AXFR transfer streams many records back
// to back, so this generalizes the same "reach into the raw fd before
// the read/write loop starts" hook to SO_RCVBUF instead.
func controlSocket(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, rcvBufSize)
	})
	if err != nil {
		return err
	}
	return sockErr
}
