package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"video-portfolio/pkg/adminui"
	"video-portfolio/pkg/catalog"
	"video-portfolio/pkg/client"
	"video-portfolio/pkg/models"
	"video-portfolio/pkg/ordering"
)

var errUsage = errors.New("wrong arguments, see --help")

func loginFlags(fs *flag.FlagSet) {
	fs.StringP("username", "u", "", "account name")
	fs.StringP("password", "p", "", "password (prompted when empty)")
}

func passwordFlags(fs *flag.FlagSet) {
	fs.StringP("password", "p", "", "password (prompted when empty)")
}

func listFlags(fs *flag.FlagSet) {
	fs.Bool("public", false, "show the public listing instead of the admin one")
}

func videoFlags(fs *flag.FlagSet) {
	fs.String("url", "", "YouTube URL or 11-character id")
	fs.String("title", "", "title")
	fs.String("description", "", "description")
}

func passwdFlags(fs *flag.FlagSet) {
	fs.String("current", "", "current password (prompted when empty)")
	fs.String("new", "", "new password (prompted when empty)")
}

func readSecret(e env, fs *flag.FlagSet, name, label string) (string, error) {
	v, _ := fs.GetString(name)
	if v != "" {
		return v, nil
	}
	fmt.Fprint(e.stdout, label)
	line, err := e.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "read "+name)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(ctx context.Context, e env, c *client.Client, fs *flag.FlagSet, _ []string) error {
	username, _ := fs.GetString("username")
	if username == "" {
		return errUsage
	}
	password, err := readSecret(e, fs, "password", "Password: ")
	if err != nil {
		return err
	}
	user, err := c.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "logged in as %s\n", user.Username)
	return nil
}

func runLogout(_ context.Context, e env, c *client.Client, _ *flag.FlagSet, _ []string) error {
	if err := c.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "logged out")
	return nil
}

func runProfile(ctx context.Context, e env, c *client.Client, _ *flag.FlagSet, _ []string) error {
	me, err := c.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s\t%s\tsince %s\n", me.ID, me.Username, me.CreatedAt.Format("2006-01-02"))
	return nil
}

func runList(ctx context.Context, e env, c *client.Client, fs *flag.FlagSet, _ []string) error {
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if public, _ := fs.GetBool("public"); public {
		videos, err := c.PublicVideos(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "#\tID\tYOUTUBE\tTITLE")
		for i, v := range videos {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, v.ID, v.YoutubeID, v.Title)
		}
		return nil
	}

	videos, err := c.Videos(ctx)
	if err != nil {
		return err
	}
	printVideos(tw, videos)
	return nil
}

func printVideos(tw *tabwriter.Writer, videos []models.Video) {
	fmt.Fprintln(tw, "ORDER\tID\tYOUTUBE\tVISIBLE\tTITLE")
	for _, v := range videos {
		vis := "yes"
		if !v.Visible {
			vis = "no"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.Order, v.ID, v.YoutubeID, vis, v.Title)
	}
}

func runAdd(ctx context.Context, e env, c *client.Client, fs *flag.FlagSet, _ []string) error {
	in := catalog.NewVideo{}
	in.YoutubeID, _ = fs.GetString("url")
	in.Title, _ = fs.GetString("title")
	in.Description, _ = fs.GetString("description")
	if in.YoutubeID == "" || in.Title == "" {
		return errUsage
	}

	v, err := c.AddVideo(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "added %s at position %d\n", v.ID, v.Order)
	return nil
}

func runEdit(ctx context.Context, e env, c *client.Client, fs *flag.FlagSet, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	var patch models.VideoPatch
	if fs.Changed("url") {
		s, _ := fs.GetString("url")
		patch.YoutubeID = &s
	}
	if fs.Changed("title") {
		s, _ := fs.GetString("title")
		patch.Title = &s
	}
	if fs.Changed("description") {
		s, _ := fs.GetString("description")
		patch.Description = &s
	}
	if patch.Empty() {
		return errors.New("nothing to change: pass --url, --title or --description")
	}

	form := &adminui.Form{}
	if err := form.Edit(args[0]); err != nil {
		return err
	}
	var v *models.Video
	err := form.Run(func() error {
		var err error
		v, err = c.UpdateVideo(ctx, form.Target(), patch)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "updated %s: %s\n", v.ID, v.Title)
	return nil
}

func findVideo(ctx context.Context, c *client.Client, id string) (*models.Video, error) {
	videos, err := c.Videos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range videos {
		if videos[i].ID == id {
			return &videos[i], nil
		}
	}
	return nil, errors.Errorf("video %s not found", id)
}

func runToggle(ctx context.Context, e env, c *client.Client, _ *flag.FlagSet, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	v, err := findVideo(ctx, c, args[0])
	if err != nil {
		return err
	}
	visible := !v.Visible
	if _, err := c.UpdateVideo(ctx, v.ID, models.VideoPatch{Visible: &visible}); err != nil {
		return err
	}
	state := "hidden"
	if visible {
		state = "visible"
	}
	fmt.Fprintf(e.stdout, "%s is now %s\n", v.ID, state)
	return nil
}

func runDelete(ctx context.Context, e env, c *client.Client, _ *flag.FlagSet, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := c.DeleteVideo(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "deleted %s\n", args[0])
	return nil
}

func loadList(ctx context.Context, c *client.Client) (*adminui.List, error) {
	l := adminui.NewList(c)
	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func reportOrder(e env, l *adminui.List, out adminui.Outcome, err error) error {
	if !out.Changed && err == nil {
		fmt.Fprintln(e.stdout, "nothing to do")
		return nil
	}
	if out.Changed && out.Updated < out.Requested {
		fmt.Fprintf(e.stderr, "warning: only %d of %d videos were updated\n", out.Updated, out.Requested)
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	printVideos(tw, l.Videos())
	tw.Flush()
	return err
}

func runMove(ctx context.Context, e env, c *client.Client, _ *flag.FlagSet, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	dir, ok := ordering.ParseDirection(args[1])
	if !ok {
		return errors.Errorf("direction must be up or down, got %q", args[1])
	}
	l, err := loadList(ctx, c)
	if err != nil {
		return err
	}
	out, err := l.Move(ctx, args[0], dir)
	return reportOrder(e, l, out, err)
}

func runDrop(ctx context.Context, e env, c *client.Client, _ *flag.FlagSet, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	l, err := loadList(ctx, c)
	if err != nil {
		return err
	}
	l.BeginDrag(args[0])
	out, err := l.DropOn(ctx, args[1])
	return reportOrder(e, l, out, err)
}

func runReorder(ctx context.Context, e env, c *client.Client, _ *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if err := ordering.Validate(args); err != nil {
		return err
	}
	l, err := loadList(ctx, c)
	if err != nil {
		return err
	}
	out, err := l.Apply(ctx, args)
	return reportOrder(e, l, out, err)
}

func runUsers(ctx context.Context, e env, c *client.Client, _ *flag.FlagSet, _ []string) error {
	users, err := c.Users(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "ID\tUSERNAME\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runUserAdd(ctx context.Context, e env, c *client.Client, fs *flag.FlagSet, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	password, err := readSecret(e, fs, "password", "Password for "+args[0]+": ")
	if err != nil {
		return err
	}
	u, err := c.CreateUser(ctx, args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "created %s (%s)\n", u.Username, u.ID)
	return nil
}

func runUserDelete(ctx context.Context, e env, c *client.Client, _ *flag.FlagSet, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := c.DeleteUser(ctx, args[0]); err != nil {
		return err
	}
	// the account is gone, so is the session
	_ = c.Logout()
	fmt.Fprintln(e.stdout, "account deleted, logged out")
	return nil
}

func runPasswd(ctx context.Context, e env, c *client.Client, fs *flag.FlagSet, _ []string) error {
	current, err := readSecret(e, fs, "current", "Current password: ")
	if err != nil {
		return err
	}
	next, err := readSecret(e, fs, "new", "New password: ")
	if err != nil {
		return err
	}
	if err := c.ChangePassword(ctx, current, next); err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, "password changed")
	return nil
}
