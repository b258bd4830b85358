// wristtimer: a three-button countdown timer for the wrist, the terminal
// or a small OLED panel.
//
// Usage:
//
//	wristtimer [-face tui|console|panel] [-store yaml|sqlite|memory] [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/wristtimer/internal/alert"
	"github.com/hammamikhairi/wristtimer/internal/config"
	"github.com/hammamikhairi/wristtimer/internal/display"
	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/engine"
	"github.com/hammamikhairi/wristtimer/internal/frame"
	"github.com/hammamikhairi/wristtimer/internal/input"
	"github.com/hammamikhairi/wristtimer/internal/logger"
	"github.com/hammamikhairi/wristtimer/internal/panel"
	"github.com/hammamikhairi/wristtimer/internal/storage"
	"github.com/hammamikhairi/wristtimer/internal/timer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logOut, closeLog := openLog(cfg.LogFile)
	defer closeLog()

	// Third-party packages that use the standard logger write to the same
	// place so the faces stay clean.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(cfg.LogLevel, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("wristtimer: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// openLog directs logs to a file by default. Falls back to stderr.
func openLog(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	store, err := storage.Open(cfg.Store, cfg.StatePath, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("closing store: %v", err)
		}
	}()

	sound := soundAlerter(cfg, log)
	if b, ok := sound.(*alert.Buzzer); ok {
		defer b.Stop()
	}

	w := &wiring{cfg: cfg, store: store, sound: sound, log: log}
	switch cfg.Face {
	case config.FaceConsole:
		return w.console(ctx)
	case config.FacePanel:
		return w.panel(ctx)
	default:
		return w.tui(ctx)
	}
}

// soundAlerter returns the tone player, or a silent alerter when sound is
// off or the audio device is missing.
func soundAlerter(cfg config.Config, log *logger.Logger) domain.Alerter {
	if cfg.NoSound {
		log.Info("sound disabled")
		return alert.NewNoOp(log)
	}
	var opts []alert.BuzzerOption
	if cfg.ToneHz > 0 {
		opts = append(opts, alert.WithTone(cfg.ToneHz, alert.DefaultAmplitude))
	}
	b, err := alert.NewBuzzer(log, opts...)
	if err != nil {
		log.Warn("audio init failed, sound disabled: %v", err)
		return alert.NewNoOp(log)
	}
	return b
}

type wiring struct {
	cfg   config.Config
	store domain.IntStore
	sound domain.Alerter
	log   *logger.Logger
}

func (w *wiring) runner(face domain.Display, alerter domain.Alerter) *timer.Runner {
	eng := engine.New(face, alerter, w.log, engine.WithClock24h(w.cfg.Clock24h))
	return timer.New(eng, input.NewDispatcher(w.log), w.store, w.log)
}

// tui runs the Bubble Tea face. Bubble Tea owns the terminal and blocks
// until quit; the timer loop starts once it is ready.
func (w *wiring) tui(ctx context.Context) error {
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var runner *timer.Runner
	ui := display.NewUI(func(cmd input.Command) {
		if _, err := runner.Do(runCtx, cmd); err != nil {
			w.log.Debug("key %s dropped: %v", cmd.Kind, err)
		}
	})
	runner = w.runner(ui, alert.Chain{w.sound, alert.NewBanner(w.log, ui.PrintUrgent)})

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Hold 's' to set the time, enter to start or pause, 'q' to quit."))
	fmt.Println()

	loopErr := make(chan error, 1)
	go func() {
		select {
		case <-ui.Ready():
		case <-ui.QuitChan():
			loopErr <- nil
			return
		}
		loopErr <- runner.Run(runCtx)
		ui.Quit()
	}()
	go func() {
		<-runCtx.Done()
		ui.Quit()
	}()

	uiErr := ui.Run()
	cancelRun()
	if err := <-loopErr; err != nil {
		return err
	}
	if uiErr != nil {
		return fmt.Errorf("display: %w", uiErr)
	}
	return nil
}

// console runs the readline face.
func (w *wiring) console(ctx context.Context) error {
	con, err := display.NewConsole(w.log)
	if err != nil {
		return err
	}
	runner := w.runner(con, alert.Chain{w.sound, alert.NewBanner(w.log, con.PrintUrgent)})
	return w.drive(ctx, con, runner)
}

// panel drives the OLED and buttons, mirrored on the console so the watch
// can also be worked from a terminal.
func (w *wiring) panel(ctx context.Context) error {
	p, err := panel.Open(w.cfg.Panel, w.log)
	if err != nil {
		return fmt.Errorf("open panel: %w", err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			w.log.Error("closing panel: %v", err)
		}
	}()

	con, err := display.NewConsole(w.log)
	if err != nil {
		return err
	}

	face := display.Fanout{frame.NewRenderer(p.Layout(), p.Sink(), w.log), con}
	alerters := alert.Chain{w.sound, alert.NewBanner(w.log, con.PrintUrgent)}
	if m := p.Motor(); m != nil {
		alerters = append(alerters, m)
	}
	runner := w.runner(face, alerters)

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go p.Watch(watchCtx, func(e input.Edge) {
		if err := runner.Submit(watchCtx, e); err != nil {
			w.log.Debug("edge dropped: %v", err)
		}
	})

	return w.drive(ctx, con, runner)
}

// drive runs the timer loop next to the console until either stops.
func (w *wiring) drive(ctx context.Context, con *display.Console, runner *timer.Runner) error {
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	loopErr := make(chan error, 1)
	go func() { loopErr <- runner.Run(runCtx) }()
	go func() {
		<-runCtx.Done()
		con.Close()
	}()

	conErr := con.Run(runCtx, func(ctx context.Context, cmd input.Command) (string, error) {
		st, err := runner.Do(ctx, cmd)
		if err != nil {
			return "", err
		}
		return st.String(), nil
	})
	cancelRun()
	if err := <-loopErr; err != nil {
		return err
	}
	return conErr
}
