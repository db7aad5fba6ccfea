package main

import (
	"github.com/desertthunder/spotlist/internal/tasks"
	"github.com/desertthunder/spotlist/internal/ui"
)

// renderProgress prints engine updates until updates is closed.
//
// The returned channel is closed once every update has been written.
func (r *Runner) renderProgress(updates <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			switch update.Phase {
			case tasks.SkipTrack:
				r.writePlain("%s\n", ui.Warn(update.Message))
			case tasks.CreatePlaylist:
				r.writePlain("%s\n", ui.Title(update.Message))
			case tasks.AddTracks:
				r.writePlain("%s\n", ui.OK(update.Message))
			default:
				r.writePlain("%s\n", ui.Help(update.Message))
			}
		}
	}()
	return done
}
