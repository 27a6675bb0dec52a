package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/forgeci/forgeci/pkg/console"
)

// debounceDelay batches rapid editor writes into one regeneration.
const debounceDelay = 300 * time.Millisecond

// WatchAndGenerate regenerates the workflows whenever the configuration
// file changes, until interrupted. The watcher observes the containing
// directory because editors replace files on save instead of writing in
// place.
func WatchAndGenerate(configFlag string, validate, verbose bool) error {
	root, err := findGitRoot()
	if err != nil {
		return err
	}
	configPath := resolveConfigPath(root, configFlag)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(configPath), err)
	}

	fmt.Printf("Watching %s for changes...\n", console.ToRelativePath(configPath))
	if verbose {
		fmt.Println("Press Ctrl+C to stop watching.")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	regenerate := func() {
		if err := GenerateWorkflows(configFlag, validate, verbose); err != nil {
			fmt.Println(console.FormatWarningMessage(fmt.Sprintf("Generation failed: %v", err)))
		}
	}
	regenerate()

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if filepath.Clean(event.Name) != configPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if verbose {
				fmt.Printf("Detected change: %s (%s)\n", event.Name, event.Op.String())
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, regenerate)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if verbose {
				fmt.Println(console.FormatWarningMessage(fmt.Sprintf("Watcher error: %v", err)))
			}

		case <-sigChan:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		}
	}
}
