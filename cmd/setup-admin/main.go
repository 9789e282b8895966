// Command setup-admin creates the "admin" account on a fresh database.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"video-portfolio/cmd/config"
	"video-portfolio/pkg/accounts"
	"video-portfolio/pkg/auth"
	"video-portfolio/pkg/database"
	"video-portfolio/pkg/logger"
	"video-portfolio/pkg/repository"
)

func main() {
	configDir := flag.StringP("config", "c", "", "directory holding config.yaml")
	password := flag.StringP("password", "p", "", "password for the admin account (default: $ADMIN_PASSWORD, then prompt)")
	flag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})

	pw := *password
	if pw == "" {
		pw = os.Getenv("ADMIN_PASSWORD")
	}
	if err := run(cfg, pw, os.Stdin, os.Stdout, log); err != nil {
		log.WithError(err).Fatal("setup failed")
	}
}

// run returns instead of exiting so the database is always closed.
func run(cfg *config.Config, password string, in io.Reader, out io.Writer, log logrus.FieldLogger) error {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer db.Close()

	svc := accounts.NewService(
		repository.NewAdmins(log, db),
		auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn),
		log,
	)

	exists, err := svc.HasRoot()
	if err != nil {
		return errors.Wrap(err, "check admin account")
	}
	if exists {
		fmt.Fprintln(out, `The "admin" account already exists. Use the admin panel to change its password.`)
		return nil
	}

	if password == "" {
		password, err = prompt(in, out, fmt.Sprintf(`Password for "admin" (min %d characters): `, accounts.MinPasswordLength))
		if err != nil {
			return errors.Wrap(err, "read password")
		}
	}

	created, err := svc.EnsureRoot(password)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintln(out, `Account "admin" created. Log in at /portal.`)
	}
	return nil
}

func prompt(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
