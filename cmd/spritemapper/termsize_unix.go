//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

var kittySizeReply = regexp.MustCompile(`\[4;(\d+);(\d+)t`)

// GetTermSize asks the controlling terminal for its size. Standard input and
// output are left alone since they may carry a manifest and placements.
func GetTermSize() (TermSize, error) {
	f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666)
	if err != nil {
		return getStderrSize()
	}
	defer f.Close()

	// https://sw.kovidgoyal.net/kitty/graphics-protocol/#getting-the-window-size
	sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return getStderrSize()
	}
	ts := TermSize{WSRow: uint(sz.Row), WSCol: uint(sz.Col), WSXPixel: uint(sz.Xpixel), WSYPixel: uint(sz.Ypixel)}
	if ts.WSXPixel == 0 && ts.WSYPixel == 0 && os.Getenv("TERM") == "xterm-kitty" {
		if w, h, ok := askKittyPixels(f); ok {
			ts.WSXPixel, ts.WSYPixel = w, h
		}
	}
	return ts, nil
}

// askKittyPixels uses the CSI 14 t query; kitty replies with
// <ESC>[4;<height>;<width>t.
func askKittyPixels(f *os.File) (w, h uint, ok bool) {
	state, err := terminal.MakeRaw(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}
	defer terminal.Restore(int(f.Fd()), state)

	fmt.Fprintf(f, "\033[14t")
	// TODO: time out if the terminal never answers.
	reply, err := bufio.NewReader(f).ReadString('t')
	if err != nil {
		return 0, 0, false
	}
	m := kittySizeReply.FindStringSubmatch(reply)
	if len(m) != 3 {
		return 0, 0, false
	}
	height, errH := strconv.Atoi(m[1])
	width, errW := strconv.Atoi(m[2])
	if errH != nil || errW != nil {
		return 0, 0, false
	}
	return uint(width), uint(height), true
}

func getStderrSize() (TermSize, error) {
	w, h, err := terminal.GetSize(int(os.Stderr.Fd()))
	if err != nil {
		return TermSize{}, err
	}
	return TermSize{WSRow: uint(h), WSCol: uint(w)}, nil
}
