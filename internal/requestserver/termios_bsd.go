//go:build darwin || freebsd || netbsd || openbsd

package requestserver

import "golang.org/x/sys/unix"

const ioctlGetTermios = unix.TIOCGETA
