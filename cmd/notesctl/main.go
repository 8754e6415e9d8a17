package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/oksasatya/go-notes-sync/internal/client/store"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
)

const usage = `usage: notesctl <command> [args]

commands:
  status                          show the signed-in user
  login <email>                   sign in (password is prompted)
  register <username> <email>     create an account and sign in
  logout                          end the session
  notes                           list notes
  add <title> <content>           create a note
  edit <id> <title> <content>     replace a note's title and content
  rm <id>                         delete a note
  profile [-username u] [-password]
  search <query>                  full-text search over your notes
  export                          upload a JSON export and print its URL

env: NOTES_API_URL (default http://localhost:8000/api), NOTES_STATE_DB (default notesctl.db)

The session cookie is Secure: use https unless the server is on localhost.`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := helpers.NewNopLogger()
	if os.Getenv("NOTES_DEBUG") != "" {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	app, err := open(ctx, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "notesctl:", err)
		os.Exit(1)
	}
	defer app.close()

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "notesctl:", err)
		os.Exit(1)
	}
}

type app struct {
	api    *store.HTTPAPI
	db     *store.SQLitePersister
	store  *store.Store
	logger *logrus.Logger
	in     *bufio.Reader
}

func open(ctx context.Context, logger *logrus.Logger) (*app, error) {
	baseURL := getenv("NOTES_API_URL", "http://localhost:8000/api")
	api, err := store.NewHTTPAPI(baseURL, store.WithTimeout(15*time.Second))
	if err != nil {
		return nil, err
	}
	db, err := store.OpenSQLite(ctx, getenv("NOTES_STATE_DB", "notesctl.db"))
	if err != nil {
		return nil, err
	}
	a := &app{
		api:    api,
		db:     db,
		store:  store.New(api, db, logger),
		logger: logger,
		in:     bufio.NewReader(os.Stdin),
	}
	if err := a.api.LoadSession(ctx, a.db); err != nil {
		logger.WithError(err).Warn("ignoring saved session")
	}
	if err := a.store.Restore(ctx); err != nil {
		logger.WithError(err).Warn("ignoring cached state")
	}
	return a, nil
}

func (a *app) close() {
	if err := a.api.SaveSession(context.Background(), a.db); err != nil {
		a.logger.WithError(err).Warn("save session failed")
	}
	_ = a.db.Close()
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login", "register":
	default:
		a.store.Initialize(ctx)
	}

	switch cmd {
	case "status":
		return a.status()
	case "login":
		if len(args) != 1 {
			return errors.New("usage: login <email>")
		}
		pw, err := a.password("Password: ")
		if err != nil {
			return err
		}
		a.store.Login(ctx, args[0], pw)
		if err := a.settled(); err != nil {
			return err
		}
		return a.status()
	case "register":
		if len(args) != 2 {
			return errors.New("usage: register <username> <email>")
		}
		pw, err := a.password("Password: ")
		if err != nil {
			return err
		}
		a.store.Register(ctx, args[0], args[1], pw)
		if err := a.settled(); err != nil {
			return err
		}
		return a.status()
	case "logout":
		a.store.Logout(ctx)
		if err := a.settled(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	case "notes", "ls":
		if err := a.signedIn(); err != nil {
			return err
		}
		a.store.FetchNotes(ctx)
		if err := a.settled(); err != nil {
			return err
		}
		printNotes(a.store.Snapshot().Notes)
		return nil
	case "add":
		if len(args) != 2 {
			return errors.New("usage: add <title> <content>")
		}
		if err := a.signedIn(); err != nil {
			return err
		}
		a.store.AddNote(ctx, args[0], args[1])
		if err := a.settled(); err != nil {
			return err
		}
		notes := a.store.Snapshot().Notes
		printNotes(notes[len(notes)-1:])
		return nil
	case "edit":
		if len(args) != 3 {
			return errors.New("usage: edit <id> <title> <content>")
		}
		if err := a.signedIn(); err != nil {
			return err
		}
		a.store.UpdateNote(ctx, args[0], args[1], args[2])
		return a.settled()
	case "rm":
		if len(args) != 1 {
			return errors.New("usage: rm <id>")
		}
		if err := a.signedIn(); err != nil {
			return err
		}
		a.store.DeleteNote(ctx, args[0])
		return a.settled()
	case "profile":
		return a.profile(ctx, args)
	case "search":
		if len(args) == 0 {
			return errors.New("usage: search <query>")
		}
		if err := a.signedIn(); err != nil {
			return err
		}
		notes, err := a.api.SearchNotes(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printNotes(notes)
		return nil
	case "export":
		if err := a.signedIn(); err != nil {
			return err
		}
		url, err := a.api.ExportNotes(ctx)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	username := fs.String("username", "", "new username")
	askPassword := fs.Bool("password", false, "prompt for a new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.signedIn(); err != nil {
		return err
	}

	var in store.ProfileUpdate
	if *username != "" {
		in.Username = username
	}
	if *askPassword {
		pw, err := a.password("New password: ")
		if err != nil {
			return err
		}
		in.Password = &pw
	}
	if in.Username == nil && in.Password == nil {
		return errors.New("nothing to update")
	}
	a.store.UpdateProfile(ctx, in)
	if err := a.settled(); err != nil {
		return err
	}
	return a.status()
}

func (a *app) status() error {
	st := a.store.Snapshot()
	if st.User == nil {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", st.User.Username, st.User.Email, st.User.ID)
	return nil
}

func (a *app) signedIn() error {
	if a.store.Snapshot().User == nil {
		return errors.New("not signed in, run: notesctl login <email>")
	}
	return nil
}

// settled turns the store's recorded error into a command failure.
func (a *app) settled() error {
	st := a.store.Snapshot()
	if st.Error != "" {
		a.store.ClearError()
		return errors.New(st.Error)
	}
	return nil
}

func (a *app) password(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printNotes(notes []store.Note) {
	if len(notes) == 0 {
		fmt.Println("No notes")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tUPDATED\tCONTENT")
	for _, n := range notes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, n.Title, n.UpdatedAt.Local().Format(time.DateTime), oneLine(n.Content, 60))
	}
	_ = w.Flush()
}

func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
