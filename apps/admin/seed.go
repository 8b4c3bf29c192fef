package main

import (
	"github.com/trezcool/kidlearn/storage/database"
)

func (cli *commandLine) seed() error {
	return database.Seed(cli.usrRepo, cli.matRepo)
}
