package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/weavetpl/weave"
	"github.com/weavetpl/weave/internal/wlog"
)

// watchCmd re-renders a template to stdout every time it (or anything
// under Dir) changes, for iterating on a template locally.
type watchCmd struct {
	Template string `arg:""                              help:"Template file to render on change." type:"existingfile"`
	Dir      string `                short:"d"            help:"Template directory (for extends/include resolution)."`
	Context  string `                short:"c" default:"" help:"JSON/YAML context file."`
}

func (w *watchCmd) Run(ctx context.Context) error {
	env := weave.NewEnvironment()
	dir := w.Dir
	if dir == "" {
		dir = filepath.Dir(w.Template)
	}
	if err := env.AddTemplateDir(dir); err != nil {
		return err
	}
	if err := env.WatchDir(dir); err != nil {
		return err
	}
	defer env.StopWatching()

	name, err := filepath.Rel(dir, w.Template)
	if err != nil {
		name = filepath.Base(w.Template)
	}
	name = filepath.ToSlash(name)

	rerender := func() {
		ctxVal, err := loadContext(w.Context)
		if err != nil {
			printDiagnostic(err)
			return
		}
		tmpl, err := env.GetTemplate(name)
		if err != nil {
			printDiagnostic(err)
			return
		}
		out, err := tmpl.Render(ctxVal)
		if err != nil {
			printDiagnostic(err)
			return
		}
		fmt.Println("---")
		fmt.Print(out)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}

	rerender()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			wlog.Debug("watch: template changed", "file", ev.Name)
			rerender()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			wlog.Warn("watch: fsnotify error", "error", err)
		}
	}
}
