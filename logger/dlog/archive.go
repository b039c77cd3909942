package dlog

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Archiver moves the previous day's log files into a dated directory under
// the log dir. Writes keep going to the same open files; the archiver copies
// and truncates them so handles stay valid.
type Archiver struct {
	dir   string
	mu    sync.Mutex
	files []*os.File
}

func (a *Archiver) track(f *os.File) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files = append(a.files, f)
}

func (a *Archiver) process() {
	a.mu.Lock()
	defer a.mu.Unlock()

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	archiveDir := filepath.Join(a.dir, yesterday)
	tmp := archiveDir
	counter := 1
	err := os.Mkdir(archiveDir, 0755)
	for os.IsExist(err) {
		archiveDir = tmp + "-" + strconv.Itoa(counter)
		counter++
		err = os.Mkdir(archiveDir, 0755)
	}
	if err != nil {
		Log.Error("Failed to create archive directory", "dir", archiveDir, "err", err)
		return
	}

	for _, f := range a.files {
		name := filepath.Base(f.Name())
		dst, err := os.OpenFile(filepath.Join(archiveDir, name), os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			Log.Error("Failed to open archive file", "fileName", name, "err", err)
			return
		}
		written, err := copyFile(dst, f)
		closeErr := dst.Close()
		if err != nil {
			Log.Error("Failed to copy log", "fileName", name, "err", err)
			return
		}
		if closeErr != nil {
			Log.Error("Failed to close archive file", "fileName", name, "err", closeErr)
			return
		}
		Log.Info("Copied log", "fileName", name, "written", written)

		if err = f.Truncate(0); err != nil {
			Log.Error("Failed to truncate file", "fileName", name, "err", err)
			return
		}
	}
}

func copyFile(dst io.Writer, src *os.File) (int64, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return io.Copy(dst, src)
}
