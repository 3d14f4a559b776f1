//go:build !linux

package util

import "os"

func statTimes(fi os.FileInfo) FileTimes {
	// No portable ctime outside linux; mtime is close enough for change
	// detection there.
	return FileTimes{CTime: fi.ModTime(), MTime: fi.ModTime()}
}
