// Package handlers runs the Telnet command loop for a desk.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/config"
	"github.com/cory-johannsen/fortune/internal/frontend/telnet"
	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/choices"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/widget"
)

// DeskHandler implements telnet.SessionHandler. Each connection starts on
// the configured default profile in wheel mode.
type DeskHandler struct {
	registry       *widget.Registry
	defaultProfile string
	frameInterval  time.Duration
	logger         *zap.Logger
}

// NewDeskHandler creates a DeskHandler.
//
// Precondition: registry and logger must be non-nil; cfg.FrameInterval > 0.
func NewDeskHandler(registry *widget.Registry, cfg config.DeskConfig, logger *zap.Logger) *DeskHandler {
	return &DeskHandler{
		registry:       registry,
		defaultProfile: cfg.DefaultProfile,
		frameInterval:  cfg.FrameInterval,
		logger:         logger,
	}
}

// deskSession is one connection's state. Only the command loop writes
// profile, desk and mode, and it does so under mu; animation goroutines read
// them under mu.
type deskSession struct {
	h      *DeskHandler
	conn   *telnet.Conn
	logger *zap.Logger

	mu        sync.Mutex
	profile   string
	desk      *widget.Desk
	mode      widget.Kind
	animating bool

	// lastMin and lastMax are the bounds an empty line repeats in number mode.
	lastMin, lastMax string
	anims            sync.WaitGroup
}

// HandleSession implements telnet.SessionHandler.
//
// Postcondition: Returns nil on quit, or the error that ended the session.
// Animations started by the session have stopped when it returns.
func (h *DeskHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	s := &deskSession{
		h:      h,
		conn:   conn,
		logger: h.logger.With(zap.String("remote_addr", conn.RemoteAddr().String())),
		mode:   widget.KindWheel,
	}
	defer func() {
		cancel()
		s.anims.Wait()
	}()

	if err := s.switchProfile(ctx, h.defaultProfile); err != nil {
		return fmt.Errorf("opening desk: %w", err)
	}
	if err := conn.Write([]byte(telnet.Colorize(telnet.Dim, "Type help for commands.") + "\r\n")); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}
	s.show()

	for {
		if !s.busy() {
			if err := conn.WritePrompt(s.prompt()); err != nil {
				return fmt.Errorf("writing prompt: %w", err)
			}
		}

		line, err := conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				_ = conn.WriteLine("\r\n" + telnet.Colorize(telnet.Yellow, "Server shutting down. Goodbye!"))
				return ctx.Err()
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if quit := s.dispatch(ctx, strings.TrimSpace(line)); quit {
			_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
			return nil
		}
	}
}

func (s *deskSession) prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return telnet.Colorf(telnet.Dim, "[%s/%s/%s] ", s.profile, s.desk.Wheel.Language(), s.mode) +
		telnet.Colorize(telnet.BrightWhite, "> ")
}

func (s *deskSession) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animating
}

func (s *deskSession) say(text string) {
	_ = s.conn.Write([]byte(text))
}

func (s *deskSession) sayLine(color, text string) {
	_ = s.conn.WriteLine(telnet.Colorize(color, text))
}

// dispatch runs one command line and reports whether the client quit.
func (s *deskSession) dispatch(ctx context.Context, line string) bool {
	if line == "" {
		s.primary(ctx)
		return false
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true
	case "help", "?":
		s.say(RenderHelp())
	case "wheel":
		s.setMode(widget.KindWheel)
	case "coin":
		s.setMode(widget.KindCoin)
	case "number", "random":
		s.setMode(widget.KindNumber)
	case "show", "list":
		s.show()
	case "spin":
		s.useMode(widget.KindWheel)
		s.spin(ctx)
	case "add":
		s.add(ctx, rest)
	case "remove", "rm":
		s.remove(ctx, args)
	case "again", "continue":
		s.desk.Wheel.RemoveSelectedAndContinue(ctx)
		s.spin(ctx)
	case "close", "dismiss":
		s.desk.Wheel.DismissResult()
		s.show()
	case "flip":
		s.useMode(widget.KindCoin)
		s.flip(ctx)
	case "gen", "roll":
		s.useMode(widget.KindNumber)
		s.generate(args)
	case "reset":
		s.reset(ctx)
	case "lang", "language":
		s.language(ctx, args)
	case "profile":
		s.profileCmd(ctx, args)
	default:
		s.sayLine(telnet.Red, fmt.Sprintf("Unknown command %q. Type help for commands.", cmd))
	}
	return false
}

func (s *deskSession) setMode(k widget.Kind) {
	s.useMode(k)
	s.show()
}

func (s *deskSession) useMode(k widget.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = k
}

func (s *deskSession) show() {
	s.desk.Settle(time.Now())
	loc := s.desk.Locale()
	switch s.mode {
	case widget.KindCoin:
		s.say(RenderCoin(loc, s.desk.Coin.View()))
	case widget.KindNumber:
		s.say(RenderNumber(loc, s.desk.Number.View()))
	default:
		s.say(RenderWheel(loc, s.desk.Wheel.View()))
	}
}

// primary repeats the current mode's main action.
func (s *deskSession) primary(ctx context.Context) {
	switch s.mode {
	case widget.KindCoin:
		s.flip(ctx)
	case widget.KindNumber:
		if s.lastMin == "" && s.lastMax == "" {
			s.sayLine(telnet.Dim, s.desk.Locale().Number.Tip)
			return
		}
		s.generate([]string{s.lastMin, s.lastMax})
	default:
		s.spin(ctx)
	}
}

func (s *deskSession) spin(ctx context.Context) {
	w := s.desk.Wheel
	session, ok := w.Spin(time.Now())
	if !ok {
		if w.View().State == animation.Running {
			s.sayLine(telnet.Yellow, "The wheel is already spinning.")
		} else {
			s.sayLine(telnet.Yellow, s.desk.Locale().Wheel.Empty)
		}
		return
	}
	labels := w.View().Spinning
	dial := w.Geometry(len(labels))
	d := s.desk
	s.animate(ctx, func(ctx context.Context) {
		r := w.Run(ctx, session.ID, s.h.frameInterval, func(f animation.Frame) {
			_ = s.conn.Redraw(WheelFrame(labels, dial, f))
		})
		if r == nil {
			return
		}
		s.say("\r\n" + telnet.Bell + RenderResult(d.Locale().Wheel.ResultTitle, r.Label))
	})
}

func (s *deskSession) flip(ctx context.Context) {
	c := s.desk.Coin
	session, ok := c.Flip(time.Now())
	if !ok {
		s.sayLine(telnet.Yellow, "The coin is already in the air.")
		return
	}
	d := s.desk
	s.animate(ctx, func(ctx context.Context) {
		r := c.Run(ctx, session.ID, s.h.frameInterval, func(f animation.Frame) {
			_ = s.conn.Redraw(CoinFrame(d.Locale(), f))
		})
		if r == nil {
			return
		}
		s.say("\r\n" + telnet.Bell + RenderResult(d.Locale().Coin.Title, r.Label))
	})
}

// animate runs fn on its own goroutine, hiding the prompt until it returns.
func (s *deskSession) animate(ctx context.Context, fn func(context.Context)) {
	s.mu.Lock()
	s.animating = true
	s.mu.Unlock()
	s.say(telnet.HideCursor)

	s.anims.Add(1)
	go func() {
		defer s.anims.Done()
		fn(ctx)
		s.mu.Lock()
		s.animating = false
		s.mu.Unlock()
		s.say(telnet.ShowCursor)
		if ctx.Err() == nil {
			_ = s.conn.WritePrompt(s.prompt())
		}
	}()
}

func (s *deskSession) add(ctx context.Context, label string) {
	err := s.desk.Wheel.Add(ctx, label)
	switch {
	case errors.Is(err, choices.ErrEmptyLabel):
		s.sayLine(telnet.Yellow, "Usage: add <option>")
	case errors.Is(err, choices.ErrLabelTooLong):
		s.sayLine(telnet.Yellow, fmt.Sprintf("Options are limited to %d characters.", choices.MaxLabelRunes))
	case err != nil:
		s.sayLine(telnet.Red, err.Error())
	default:
		s.setMode(widget.KindWheel)
	}
}

func (s *deskSession) remove(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.sayLine(telnet.Yellow, "Usage: remove <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || !s.desk.Wheel.RemoveAt(ctx, n-1) {
		s.sayLine(telnet.Yellow, fmt.Sprintf("No option %q.", args[0]))
		return
	}
	s.setMode(widget.KindWheel)
}

func (s *deskSession) generate(args []string) {
	if len(args) != 2 {
		s.sayLine(telnet.Yellow, "Usage: gen <min> <max>")
		return
	}
	s.lastMin, s.lastMax = args[0], args[1]
	_, err := s.desk.Number.GenerateText(args[0], args[1])
	if err != nil && !errors.Is(err, dice.ErrInvalidRange) {
		s.sayLine(telnet.Red, err.Error())
		return
	}
	s.show()
	if err != nil {
		s.say(telnet.ErrorCue)
		return
	}
	s.say(telnet.Bell)
}

func (s *deskSession) reset(ctx context.Context) {
	switch s.mode {
	case widget.KindCoin:
		s.desk.Coin.Reset()
	case widget.KindNumber:
		s.sayLine(telnet.Dim, "Nothing to reset.")
		return
	default:
		s.desk.Wheel.Reset(ctx)
	}
	s.show()
}

func (s *deskSession) language(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.say(RenderLanguages(s.desk.Table(), s.desk.Wheel.Language()))
		return
	}
	code := strings.ToLower(args[0])
	if !s.desk.Table().Has(code) {
		s.sayLine(telnet.Yellow, fmt.Sprintf("Unknown language %q.", code))
		s.say(RenderLanguages(s.desk.Table(), s.desk.Wheel.Language()))
		return
	}
	applied := s.desk.SetLanguage(ctx, code)
	s.logger.Info("language changed", zap.String("profile", s.profile), zap.String("language", applied))
	s.show()
}

func (s *deskSession) profileCmd(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.sayLine(telnet.White, "Profile: "+s.profile)
		return
	}
	if s.busy() {
		s.sayLine(telnet.Yellow, "Wait for the animation to finish.")
		return
	}
	if err := s.switchProfile(ctx, args[0]); err != nil {
		s.sayLine(telnet.Yellow, err.Error())
		return
	}
	s.show()
}

func (s *deskSession) switchProfile(ctx context.Context, profile string) error {
	d, err := s.h.registry.Desk(ctx, profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.desk, s.profile = d, profile
	s.mu.Unlock()
	s.logger.Debug("profile selected", zap.String("profile", profile))
	return nil
}
