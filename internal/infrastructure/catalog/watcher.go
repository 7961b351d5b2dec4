package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

// DefaultDebounce bir nechta yozish hodisasini bitta reloadga yig'ish oralig'i
const DefaultDebounce = 500 * time.Millisecond

var ErrNoFiles = errors.New("no catalog files to watch")

// Reloader katalogni qayta yuklay oladigan komponent (usecase.CatalogStore)
type Reloader interface {
	Reload(ctx context.Context) (*entity.Catalog, error)
}

// Watcher katalog fayllari o'zgarganda Reload chaqiradi.
// Muharrirlar faylni almashtirib saqlagani uchun fayl emas, uning papkasi kuzatiladi.
type Watcher struct {
	reloader Reloader
	debounce time.Duration
	files    map[string]struct{}
	fs       *fsnotify.Watcher
	log      *logger.Logger
}

func NewWatcher(reloader Reloader, debounce time.Duration, log *logger.Logger, paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	w := &Watcher{
		reloader: reloader,
		debounce: debounce,
		files:    make(map[string]struct{}, len(paths)),
		fs:       fsw,
		log:      log,
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run ctx tugaguncha yoki watcher yopilguncha ishlaydi
func (w *Watcher) Run(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watcher error", "error", err)
		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) reload(ctx context.Context) {
	catalog, err := w.reloader.Reload(ctx)
	if err != nil {
		// eski snapshot ishlashda davom etadi
		w.log.Error("catalog reload failed", "error", err)
		return
	}
	w.log.Info("catalog reloaded from disk", "version", catalog.Version, "devices", catalog.Len())
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
