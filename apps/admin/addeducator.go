package main

import (
	"time"

	"github.com/trezcool/kidlearn/core"
	"github.com/trezcool/kidlearn/core/user"
)

// addEducator creates a new educator account.
func (cli *commandLine) addEducator(email, name, pwd string) error {
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)

	if err := cli.usrRepo.CheckEmailUniqueness(email); err != nil {
		return err
	}

	usr := user.User{
		Email:     email,
		Name:      name,
		Role:      user.RoleEducator,
		Avatar:    user.DefaultAvatar(user.RoleEducator),
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err := cli.usrRepo.CreateUser(usr)
	return err
}
