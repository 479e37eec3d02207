package iomux

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Listen binds and listens on a Unix domain socket at path, returning
// the raw file descriptor so it can be polled directly alongside the
// PTY master. Any stale socket file at path is removed first.
func Listen(path string) (int, error) {
	os.Remove(path)

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("set nonblock: %w", err)
	}

	addr := &unix.SockaddrUnix{Name: path}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("bind %s: %w", path, err)
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listen: %w", err)
	}
	return fd, nil
}

// Close closes a listener fd and removes the socket file.
func Close(fd int, path string) error {
	err := unix.Close(fd)
	os.Remove(path)
	return err
}
