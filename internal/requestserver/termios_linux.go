//go:build linux

package requestserver

import "golang.org/x/sys/unix"

const ioctlGetTermios = unix.TCGETS
