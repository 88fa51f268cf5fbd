package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/pthm/shiftview/internal/config"
	"github.com/pthm/shiftview/internal/tui"
	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/session"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	args := os.Args[1:]
	cmd := "browse"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "browse":
		err = runBrowse(args)
	case "login":
		err = runLogin(args)
	case "logout":
		err = runLogout(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shiftview-tui - browse job notices in the terminal

Usage:
  shiftview-tui [browse] [-config config.json] [-log file]
  shiftview-tui login -email you@example.com
  shiftview-tui logout

The password for login is read from SHIFTVIEW_PASSWORD or standard input.
SHIFTVIEW_TOKEN (and SHIFTVIEW_USER_ID) override the stored sign-in.`)
}

type common struct {
	cfg   *config.Config
	store *session.Store
	api   *api.Client
}

func setup(fs *flag.FlagSet, args []string, logTo func() (io.Writer, error)) (*common, *slog.Logger, error) {
	configPath := fs.String("config", "config.json", "path to the JSON config file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	w, err := logTo()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.Logging.NewLogger(w)

	store, err := session.Open(cfg.Session.Path, session.WithTTL(cfg.Session.TTL.Std()))
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}
	client := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout.Std()), api.WithLogger(logger))
	return &common{cfg: cfg, store: store, api: client}, logger, nil
}

func stderr() (io.Writer, error) { return os.Stderr, nil }

func runBrowse(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	logPath := fs.String("log", "", "write logs to this file")
	logFile := func() (io.Writer, error) {
		if *logPath == "" {
			return io.Discard, nil
		}
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return f, nil
	}
	c, logger, err := setup(fs, args, logFile)
	if err != nil {
		return err
	}
	defer c.store.Close()

	cred, err := credential(context.Background(), c.store)
	if err != nil {
		return err
	}

	app := tui.New(c.api,
		tui.WithCredential(cred),
		tui.WithLogger(logger),
		tui.WithInterval(c.cfg.Carousel.Interval.Std()),
	)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.Attach(p.Send)
	_, err = p.Run()
	app.Close()
	return err
}

// credential prefers the environment over the stored default session.
func credential(ctx context.Context, store *session.Store) (api.Credential, error) {
	if tok := os.Getenv("SHIFTVIEW_TOKEN"); tok != "" {
		return api.Credential{Token: tok, UserID: os.Getenv("SHIFTVIEW_USER_ID")}, nil
	}
	sess, err := store.Load(ctx, session.DefaultID)
	if err != nil {
		return api.Credential{}, fmt.Errorf("load session: %w", err)
	}
	return sess.Credential(), nil
}

func runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	c, logger, err := setup(fs, args, stderr)
	if err != nil {
		return err
	}
	defer c.store.Close()
	if *email == "" {
		return errors.New("-email is required")
	}

	password := os.Getenv("SHIFTVIEW_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	ctx := context.Background()
	auth, err := c.api.Authenticate(ctx, *email, password)
	if err != nil {
		return errors.New(api.Message(err))
	}
	sess, err := c.store.Load(ctx, session.DefaultID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.SignIn(ctx, auth); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	logger.Info("session_event", "event", "signed_in", "user", auth.User.ID)
	fmt.Printf("Signed in as %s (%s).\n", auth.User.Email, auth.User.Type)
	return nil
}

func runLogout(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	c, _, err := setup(fs, args, stderr)
	if err != nil {
		return err
	}
	defer c.store.Close()
	if err := c.store.Delete(context.Background(), session.DefaultID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}
