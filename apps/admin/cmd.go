package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/studyhub/client"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	client *client.Client
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -id EMAIL|PHONE|ROLLNO - open an admin session, the password is prompted")
	fmt.Fprintln(cli.out, "  logout - close the session")
	fmt.Fprintln(cli.out, "  whoami - print the logged in user")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL [-role ROLE] [-phone PHONE] [-rollno ROLLNO] [-branch BRANCH] [-department DEPT] - create a user, the password is prompted")
	fmt.Fprintln(cli.out, "  users [-search TEXT] [-role ROLE] [-active true|false] - list users")
	fmt.Fprintln(cli.out, "  activate -id ID | deactivate -id ID - (de)activate a user")
	fmt.Fprintln(cli.out, "  deluser -id ID[,ID...] - delete users")
	fmt.Fprintln(cli.out, "  announce -title TITLE -content CONTENT [-target BRANCH,...] [-priority low|medium|high] - publish an announcement")
	fmt.Fprintln(cli.out, "  overview - print the resource counts and stats")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	fs := flag.NewFlagSet(args[1], flag.ContinueOnError)
	fs.SetOutput(cli.out)

	switch args[1] {
	case "login":
		id := fs.String("id", "", "The admin's email, phone number or roll number. The password will be prompted next.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			fs.Usage()
			return errHelp
		}
		return cli.login(*id, pwd)

	case "logout":
		return cli.logout()

	case "whoami":
		return cli.whoami()

	case "adduser":
		var nu newUserFlags
		nu.register(fs)
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if nu.name == "" || nu.email == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			fs.Usage()
			return errHelp
		}
		return cli.addUser(nu, pwd)

	case "users":
		search := fs.String("search", "", "Case-insensitive match on name, email, phone or roll number.")
		role := fs.String("role", "", "Only users of this role.")
		active := fs.String("active", "", "Only active (true) or inactive (false) users.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.listUsers(*search, *role, *active)

	case "activate", "deactivate":
		id := fs.String("id", "", "The user's ID.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		return cli.setActive(*id, args[1] == "activate")

	case "deluser":
		ids := fs.String("id", "", "Comma separated user IDs.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *ids == "" {
			fs.Usage()
			return errHelp
		}
		return cli.deleteUsers(splitList(*ids)...)

	case "announce":
		title := fs.String("title", "", "The announcement title.")
		content := fs.String("content", "", "The announcement content.")
		target := fs.String("target", "", "Comma separated branches. Defaults to all.")
		priority := fs.String("priority", "", "low, medium (default) or high.")
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *title == "" || *content == "" {
			fs.Usage()
			return errHelp
		}
		return cli.announce(*title, *content, splitList(*target), *priority)

	case "overview":
		return cli.overview()

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
