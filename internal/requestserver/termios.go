package requestserver

import (
	"os"

	"golang.org/x/sys/unix"
)

// snapshotTermios reads the logical termios fields the DEBUG verb
// reports from the PTY master. The raw flag bit layout is host-specific;
// only these derived booleans and control characters are part of the
// wire contract.
func snapshotTermios(f *os.File) *Termios {
	t, err := unix.IoctlGetTermios(int(f.Fd()), ioctlGetTermios)
	if err != nil {
		return nil
	}
	return &Termios{
		Echo:   t.Lflag&unix.ECHO != 0,
		Icanon: t.Lflag&unix.ICANON != 0,
		Icrnl:  t.Iflag&unix.ICRNL != 0,
		Onlcr:  t.Oflag&unix.ONLCR != 0,
		VIntr:  controlCharName(t.Cc[unix.VINTR]),
		VEOF:   controlCharName(t.Cc[unix.VEOF]),
		VErase: controlCharName(t.Cc[unix.VERASE]),
		VKill:  controlCharName(t.Cc[unix.VKILL]),
		VSusp:  controlCharName(t.Cc[unix.VSUSP]),
		VQuit:  controlCharName(t.Cc[unix.VQUIT]),
	}
}

// controlCharName renders a termios control character the way stty does:
// "^X" for control codes, the literal character otherwise.
func controlCharName(b byte) string {
	if b < 0x20 {
		return "^" + string(rune('@'+b))
	}
	if b == 0x7f {
		return "^?"
	}
	return string(rune(b))
}
