package config

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"code.swapex.io/swapex/logging"

	"github.com/fsnotify/fsnotify"
)

const namedLogger = "cfgwatcher"

// Watcher is looking for updates in the configurations files.
type Watcher struct {
	log    *logging.Logger
	cfg    Config
	loader *Loader

	// to be used as an atomic
	hasChanged         atomic.Bool
	cfgUpdateListeners map[int]func(Config)
	nextListenerID     int
	mu                 sync.Mutex

	cfgHandlers []func(*Config) error
}

type Option func(w *Watcher)

// Use registers a function applied to the configuration every time it is
// loaded, command line flags use it to take precedence over the file.
func Use(use func(*Config) error) Option {
	return func(w *Watcher) {
		w.cfgHandlers = append(w.cfgHandlers, use)
	}
}

// NewWatcher instantiate a new watcher from the configuration file of the
// home directory.
func NewWatcher(ctx context.Context, log *logging.Logger, loader *Loader, opts ...Option) (*Watcher, error) {
	watcherlog := log.Named(namedLogger)
	// set this logger to debug level as we want to be notified for any configuration changes at any time
	watcherlog.SetLevel(logging.DebugLevel)

	w := &Watcher{
		log:                watcherlog,
		cfg:                NewDefaultConfig(),
		loader:             loader,
		cfgUpdateListeners: map[int]func(Config){},
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(loader.ConfigFilePath()); err != nil {
		watcher.Close()
		return nil, err
	}

	w.log.Info("config watcher started successfully",
		logging.String("config", loader.ConfigFilePath()))

	go w.watch(ctx, watcher)

	return w, nil
}

// OnTimeUpdate notifies the listeners when the file changed since the last
// call. Changes are applied between two ledger operations.
func (w *Watcher) OnTimeUpdate(_ context.Context, _ time.Time) {
	if !w.hasChanged.Swap(false) {
		return
	}
	cfg := w.Get()

	w.mu.Lock()
	listeners := make([]func(Config), 0, len(w.cfgUpdateListeners))
	for id := 0; id < w.nextListenerID; id++ {
		if f, ok := w.cfgUpdateListeners[id]; ok {
			listeners = append(listeners, f)
		}
	}
	w.mu.Unlock()

	for _, f := range listeners {
		f(cfg)
	}
}

// Get return the last update of the configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	conf := w.cfg
	w.mu.Unlock()
	return conf
}

// OnConfigUpdate register a function to be called when the configuration is getting updated.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.OnConfigUpdateWithID(fns...)
}

// OnConfigUpdateWithID does the same as OnConfigUpdate and returns the ids
// of the listeners so they can be unregistered.
func (w *Watcher) OnConfigUpdateWithID(fns ...func(Config)) []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]int, 0, len(fns))
	for _, f := range fns {
		id := w.nextListenerID
		w.nextListenerID++
		w.cfgUpdateListeners[id] = f
		ids = append(ids, id)
	}
	return ids
}

func (w *Watcher) Unregister(ids []int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range ids {
		delete(w.cfgUpdateListeners, id)
	}
}

func (w *Watcher) load() error {
	cfg, err := w.loader.Get()
	if err != nil {
		return err
	}
	for _, f := range w.cfgHandlers {
		if err := f(cfg); err != nil {
			return err
		}
	}

	w.mu.Lock()
	w.cfg = *cfg
	w.mu.Unlock()
	return nil
}

func (w *Watcher) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Rename == fsnotify.Rename {
				if event.Op&fsnotify.Rename == fsnotify.Rename {
					// vi writes a temporary file and renames it over the
					// original one, give it time to land
					time.Sleep(50 * time.Millisecond)
					// the watch is lost with the replaced file
					if err := watcher.Add(w.loader.ConfigFilePath()); err != nil {
						w.log.Error("unable to watch configuration file again", logging.Error(err))
					}
				}
				w.log.Info("configuration updated", logging.String("event", event.Name))
				if err := w.load(); err != nil {
					w.log.Error("unable to load configuration", logging.Error(err))
					continue
				}
				// applied on the next ledger tick
				w.hasChanged.Store(true)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher received error event", logging.Error(err))
		case <-ctx.Done():
			w.log.Debug("config watcher ctx done")
			return
		}
	}
}
