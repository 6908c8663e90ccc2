package logtail

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Follower forwards lines appended to a simulator log file into a
// client logger. Lines mentioning errors or warnings keep their
// severity; everything else is demoted to debug.
type Follower struct {
	path string
	log  logrus.FieldLogger
	off  int64
}

// NewFollower creates a follower for the log file at path.
func NewFollower(path string, log logrus.FieldLogger) *Follower {
	return &Follower{
		path: path,
		log:  log,
	}
}

// Follow watches the log file and forwards appended lines until the
// context is cancelled. It blocks; run it in its own goroutine. Any
// lines written before cancellation are flushed on the way out.
func (f *Follower) Follow(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory containing the file; the simulator creates
	// the log file itself, possibly after we start watching.
	dir := filepath.Dir(f.path)
	filename := filepath.Base(f.path)

	if err := watcher.Add(dir); err != nil {
		return err
	}

	// Pick up anything already written
	f.emit()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Check if this event is for our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				f.emit()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.log.WithError(err).Warn("log follower error")

		case <-ctx.Done():
			f.emit()
			return ctx.Err()
		}
	}
}

// emit reads complete lines appended since the last call and forwards
// them. A trailing partial line stays in the file until its newline
// arrives.
func (f *Follower) emit() {
	file, err := os.Open(f.path)
	if err != nil {
		return
	}
	defer file.Close()

	if _, err := file.Seek(f.off, io.SeekStart); err != nil {
		return
	}

	r := bufio.NewReader(file)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		f.off += int64(len(line))
		f.forward(strings.TrimRight(line, "\r\n"))
	}
}

func (f *Follower) forward(line string) {
	if line == "" {
		return
	}

	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "error"):
		f.log.Error(line)
	case strings.Contains(lower, "warning"):
		f.log.Warn(line)
	default:
		f.log.Debug(line)
	}
}
