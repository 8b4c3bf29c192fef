package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/kidlearn/core"
	"github.com/trezcool/kidlearn/core/material"
	"github.com/trezcool/kidlearn/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	db      *sqlx.DB
	usrRepo user.Repository
	matRepo material.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addeducator -email EMAIL -name NAME - create an educator account")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command")
	fmt.Println("  seed - load the demo accounts and catalog")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addEducatorCmd := flag.NewFlagSet("addeducator", flag.ExitOnError)
	addEducatorEmail := addEducatorCmd.String("email", "", "The educator's email. The password will be prompted next.")
	addEducatorName := addEducatorCmd.String("name", "", "The educator's display name.")

	switch args[1] {
	case "addeducator":
		if err := addEducatorCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addEducatorEmail == "" || *addEducatorName == "" {
			addEducatorCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addEducatorCmd.Usage()
			return errHelp
		}
		return cli.addEducator(*addEducatorEmail, *addEducatorName, string(pwd))
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}
