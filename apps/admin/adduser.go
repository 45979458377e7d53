package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

type newUserFlags struct {
	name, email, role, phone, rollNo, branch, department string
}

func (nu *newUserFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&nu.name, "name", "", "The user's full name.")
	fs.StringVar(&nu.email, "email", "", "The user's email.")
	fs.StringVar(&nu.role, "role", string(user.RoleStudent), "student, teacher or admin.")
	fs.StringVar(&nu.phone, "phone", "", "The user's phone number.")
	fs.StringVar(&nu.rollNo, "rollno", "", "The student's roll number.")
	fs.StringVar(&nu.branch, "branch", "", "The student's branch.")
	fs.StringVar(&nu.department, "department", "", "The teacher's department.")
}

// addUser creates a user of any role
func (cli *commandLine) addUser(nu newUserFlags, pwd string) error {
	usr, err := cli.client.CreateUser(context.Background(), user.NewUser{
		Name:       nu.name,
		Email:      nu.email,
		Password:   pwd,
		Phone:      nu.phone,
		Role:       user.Role(strings.ToLower(nu.role)),
		RollNo:     nu.rollNo,
		Branch:     nu.branch,
		Department: nu.department,
	})
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(cli.out, "created %s %s (ID %s)\n", usr.Role, usr.Email, usr.ID)
	return nil
}

func (cli *commandLine) listUsers(search, role, active string) error {
	filter := user.QueryFilter{Search: search}
	if role != "" {
		filter.Roles = []user.Role{user.Role(strings.ToLower(role))}
	}
	if active != "" {
		isActive, err := strconv.ParseBool(active)
		if err != nil {
			return errors.Errorf("invalid -active value %q", active)
		}
		filter.IsActive = &isActive
	}

	users, err := cli.client.Users(context.Background(), filter)
	if err != nil {
		return describe(err)
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tBRANCH\tACTIVE")
	for _, usr := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", usr.ID, usr.Name, usr.Email, usr.Role, usr.Branch, usr.IsActive)
	}
	return w.Flush()
}

func (cli *commandLine) setActive(id string, active bool) error {
	usr, err := cli.client.SetUserActive(context.Background(), id, active)
	if err != nil {
		return describe(err)
	}
	state := "deactivated"
	if usr.IsActive {
		state = "activated"
	}
	fmt.Fprintf(cli.out, "%s %s\n", state, usr.Email)
	return nil
}

func (cli *commandLine) deleteUsers(ids ...string) error {
	if err := cli.client.DeleteUsers(context.Background(), ids...); err != nil {
		return describe(err)
	}
	fmt.Fprintf(cli.out, "deleted %d user(s)\n", len(ids))
	return nil
}

// describe appends the invalid fields to a validation error.
func describe(err error) error {
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) || len(vErr.Fields) == 0 {
		return err
	}
	msgs := make([]string, 0, len(vErr.Fields))
	for _, fld := range vErr.Fields {
		msgs = append(msgs, fld.Field+": "+fld.Error)
	}
	return errors.Errorf("%s (%s)", vErr.Error(), strings.Join(msgs, "; "))
}
