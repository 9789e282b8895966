// Command portfolioctl manages a running portfolio server from the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"video-portfolio/pkg/client"
)

type env struct {
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

type globals struct {
	server    string
	tokenFile string
}

type command struct {
	usage string
	run   func(ctx context.Context, e env, c *client.Client, fs *flag.FlagSet, args []string) error
	flags func(fs *flag.FlagSet)
}

var commands = map[string]command{
	"login":       {"login -u USER [-p PASS]", runLogin, loginFlags},
	"logout":      {"logout", runLogout, nil},
	"profile":     {"profile", runProfile, nil},
	"list":        {"list [--public]", runList, listFlags},
	"add":         {"add --url URL --title TITLE [--description TEXT]", runAdd, videoFlags},
	"edit":        {"edit ID [--url URL] [--title TITLE] [--description TEXT]", runEdit, videoFlags},
	"toggle":      {"toggle ID", runToggle, nil},
	"delete":      {"delete ID", runDelete, nil},
	"move":        {"move ID up|down", runMove, nil},
	"drop":        {"drop DRAGGED TARGET", runDrop, nil},
	"reorder":     {"reorder ID...", runReorder, nil},
	"users":       {"users", runUsers, nil},
	"user-add":    {"user-add USER [-p PASS]", runUserAdd, passwordFlags},
	"user-delete": {"user-delete ID", runUserDelete, nil},
	"passwd":      {"passwd --current PASS --new PASS", runPasswd, passwdFlags},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], env{stdin: bufio.NewReader(os.Stdin), stdout: os.Stdout, stderr: os.Stderr, getenv: os.Getenv}))
}

func run(ctx context.Context, args []string, e env) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(e.stdout)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(e.stderr, "unknown command %q\n\n", args[0])
		usage(e.stderr)
		return 2
	}

	g := globals{}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.StringVar(&g.server, "server", orDefault(e.getenv("PORTFOLIO_URL"), "http://localhost:3000"), "server base URL")
	fs.StringVar(&g.tokenFile, "token-file", orDefault(e.getenv("PORTFOLIO_TOKEN_FILE"), client.DefaultTokenPath()), "where the session token is kept")
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "usage: portfolioctl %s\n", cmd.usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	c := client.New(g.server, client.FileTokenStore{Path: g.tokenFile})
	if err := cmd.run(ctx, e, c, fs, fs.Args()); err != nil {
		fmt.Fprintln(e.stderr, "error:", err)
		switch {
		case errors.Is(err, errUsage):
			fs.Usage()
			return 2
		case errors.Is(err, client.ErrSessionExpired), errors.Is(err, client.ErrNotLoggedIn):
			fmt.Fprintln(e.stderr, "run: portfolioctl login -u USER")
		}
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: portfolioctl COMMAND [flags]")
	fmt.Fprintln(w, "\ncommands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(w, "\nglobal flags: --server URL ($PORTFOLIO_URL), --token-file PATH ($PORTFOLIO_TOKEN_FILE)")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
