package sink

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// rotatingWriter appends to a file and rotates it when a write would push it
// past maxSize. Backups are named path.1 (newest) through path.N (oldest);
// rotation beyond backups drops the oldest. With backups == 0 the live file
// is truncated in place instead.
type rotatingWriter struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	backups int
	file    *os.File
	size    int64
}

func openRotating(path string, maxSize int64, backups int) (*rotatingWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat log file %s: %w", path, err)
	}
	return &rotatingWriter{
		path:    path,
		maxSize: maxSize,
		backups: backups,
		file:    file,
		size:    info.Size(),
	}, nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// A record larger than maxSize still lands alone in a fresh file.
	if w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close log file %s: %w", w.path, err)
	}

	if w.backups > 0 {
		oldest := backupName(w.path, w.backups)
		if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("drop oldest backup %s: %w", oldest, err)
		}
		for i := w.backups - 1; i >= 1; i-- {
			from := backupName(w.path, i)
			to := backupName(w.path, i+1)
			if err := os.Rename(from, to); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("rotate backup %s: %w", from, err)
			}
		}
		if err := os.Rename(w.path, backupName(w.path, 1)); err != nil {
			return fmt.Errorf("rotate log file %s: %w", w.path, err)
		}
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("reopen log file %s: %w", w.path, err)
	}
	w.file = file
	w.size = 0
	return nil
}

func (w *rotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func backupName(path string, index int) string {
	return path + "." + strconv.Itoa(index)
}
