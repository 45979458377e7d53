package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/announcement"
)

var errNotAdmin = errors.New("the admin CLI is for admins only")

// login opens a session and keeps it only for admins.
func (cli *commandLine) login(identifier, pwd string) error {
	ctx := context.Background()
	usr, err := cli.client.Login(ctx, identifier, pwd)
	if err != nil {
		return describe(err)
	}
	if !usr.IsAdmin() {
		_ = cli.client.Logout(ctx)
		return errNotAdmin
	}
	fmt.Fprintf(cli.out, "logged in as %s\n", usr.Name)
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.client.Logout(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	usr, err := cli.client.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	if usr == nil {
		fmt.Fprintln(cli.out, "not logged in")
		return nil
	}
	fmt.Fprintf(cli.out, "%s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	return nil
}

func (cli *commandLine) announce(title, content string, target []string, priority string) error {
	a, err := cli.client.CreateAnnouncement(context.Background(), announcement.NewAnnouncement{
		Title:    title,
		Content:  content,
		Target:   target,
		Priority: announcement.Priority(priority),
	})
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(cli.out, "published announcement %s to %s\n", a.ID, strings.Join(a.Target, ", "))
	return nil
}

func (cli *commandLine) overview() error {
	ovs, err := cli.client.Overview(context.Background())
	if err != nil {
		return describe(err)
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tCOUNT\tLIKES\tVIEWS\tDOWNLOADS\tBOOKMARKS")
	for _, ov := range ovs {
		downloads := "-"
		if ov.Stats.Downloads != nil {
			downloads = strconv.Itoa(*ov.Stats.Downloads)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%d\n",
			ov.Category, ov.Count, ov.Stats.Likes, ov.Stats.Views, downloads, ov.Stats.Bookmarks)
	}
	return w.Flush()
}
