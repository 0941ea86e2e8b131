package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"

	"markerexp/logger"
	"markerexp/marker"
)

func initSDL() (func(), error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init: %w", err)
	}
	if err := ttf.Init(); err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("TTF_Init: %w", err)
	}
	return func() {
		ttf.Quit()
		sdl.Quit()
	}, nil
}

func openFont(cfg *Config) (*ttf.Font, error) {
	path := FindFont(cfg.FontFile)
	if path == "" {
		return nil, errors.New("no font found; set font_file")
	}
	font, err := ttf.OpenFont(path, float32(cfg.FontSize))
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	return font, nil
}

// flip presents the frame. Event delivery failures are logged and the run
// goes on; the event log keeps them with sent=false.
func flip(win *Window) {
	if err := win.Flip(); err != nil {
		logger.S().Warnw("event not delivered", "error", err)
	}
}

// Run is the marker experiment: connect to the tracker (unless dummy),
// show the instructions, start recording and present every trial as
// fixation, image and blank with markers on screen throughout. Escape
// ends the run early. Teardown happens on every return path.
func Run(ctx context.Context, cfg *Config, backend marker.Backend) (err error) {
	trials, err := LoadTrials(cfg)
	if err != nil {
		return err
	}

	quit, err := initSDL()
	if err != nil {
		return err
	}
	defer quit()

	sess := newSession(ctx, cfg.OutputFile)
	defer func() {
		err = errors.Join(err, sess.Close())
	}()
	logger.S().Infow("run started", "run_id", sess.log.RunID, "trials", len(trials), "dummy", cfg.Dummy)

	sender := &EventSender{Log: sess.log}
	if cfg.Dummy {
		logger.S().Warn("dummy mode: no eye tracker, events are only logged locally")
	} else {
		dev, offset, err := connectLoop(ctx, cfg, SDLDialogs{FontFile: cfg.FontFile}, ConnectTracker)
		if errors.Is(err, ErrCancelled) {
			logger.S().Info("connection cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		sess.tracker = dev
		sender.Tracker = dev
		sender.OffsetNS = offset
	}
	if err := cfg.SaveCache(CacheFile); err != nil {
		logger.S().Warnw("save cache", "error", err)
	}

	if cfg.DLPDevice != "" {
		dlp, err := NewDLPIO8G(cfg.DLPDevice, 9600)
		if err != nil {
			logger.S().Warnw("DLP device unavailable", "device", cfg.DLPDevice, "error", err)
		} else {
			sess.trigger = dlp
			sender.Trigger = dlp
		}
	}

	win, err := NewWindow("markerexp", cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	sess.window = win

	font, err := openFont(cfg)
	if err != nil {
		return err
	}
	defer font.Close()

	if _, err := DrawMarkers(win, backend, cfg.Markers); err != nil {
		return err
	}
	if err := win.cache.Preload(trials); err != nil {
		return err
	}

	text, err := NewTextStim(win, font, cfg.Instructions, sdl.Color(cfg.TextColor))
	if err != nil {
		return err
	}
	text.Draw(win)
	flip(win)
	if win.WaitKeys("space", "escape") == "escape" {
		logger.S().Info("aborted before start")
		return nil
	}
	flip(win)

	if sess.tracker != nil {
		if err := sess.startRecording(); err != nil {
			return err
		}
		win.Wait(cfg.RecordingWarmup)
	}

	cross := &FixationCross{Size: float64(cfg.FixationSize), Color: sdl.Color(cfg.FixationColor)}
	img := &ImageStim{W: float64(cfg.ImageWidth), H: float64(cfg.ImageHeight)}

	for i, t := range trials {
		fmt.Printf("\rTrial: %d/%d ", i+1, len(trials))
		os.Stdout.Sync()

		if err := img.SetImage(win, t.ImagePath); err != nil {
			return err
		}

		cross.Draw(win)
		win.CallOnFlip(func() error { return sender.Send(ctx, "fixation") })
		flip(win)
		win.Wait(t.Fixation)

		img.Draw(win)
		win.CallOnFlip(func() error { return sender.Send(ctx, "image") })
		flip(win)
		win.Wait(t.Image)

		flip(win)
		win.Wait(t.Blank)

		if len(win.GetKeys("escape")) > 0 {
			fmt.Println()
			logger.S().Infow("aborted", "trial", i+1)
			return nil
		}
		if err := ctx.Err(); err != nil {
			fmt.Println()
			return err
		}
	}
	fmt.Println()
	logger.S().Infow("run finished", "trials", len(trials))
	return nil
}
