package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"subject_recommender/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchFile calls onChange after path has been written and then left alone for
// the debounce interval. It blocks until ctx is done. The parent directory is
// watched so editors that replace the file by rename are still noticed.
func WatchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// 防抖处理
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case <-timer.C:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("File watcher error", zap.String("path", absPath), zap.Error(err))
		}
	}
}
