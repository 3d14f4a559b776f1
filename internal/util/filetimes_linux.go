//go:build linux

package util

import (
	"os"
	"syscall"
	"time"
)

func statTimes(fi os.FileInfo) FileTimes {
	times := FileTimes{CTime: fi.ModTime(), MTime: fi.ModTime()}
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		times.CTime = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return times
}
