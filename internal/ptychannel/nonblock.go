package ptychannel

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func setNonblock(f *os.File) error {
	return unix.SetNonblock(int(f.Fd()), true)
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}
