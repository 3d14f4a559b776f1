package util

import (
	"os"
	"time"
)

// FileTimes holds the filesystem timestamps a sync cares about.
type FileTimes struct {
	CTime time.Time
	MTime time.Time
}

// StatTimes returns the change and modification times for path. On platforms
// without a ctime in stat results, ctime falls back to mtime.
func StatTimes(path string) (FileTimes, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileTimes{}, err
	}
	return statTimes(fi), nil
}
