package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/trezcool/kidlearn/core"
	"github.com/trezcool/kidlearn/storage/database"
	sqlxrepos "github.com/trezcool/kidlearn/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	if conf.Database.Engine == "" {
		logger.Fatal("database engine not configured; the admin CLI requires a real database")
	}

	// set up DB
	errAndDie(database.CreateIfNotExist(conf.Database))
	db, err := database.Open(conf.Database)
	errAndDie(err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	errAndDie(database.StatusCheck(ctx, db))

	// start CLI
	cli := commandLine{
		conf:    conf,
		db:      db,
		usrRepo: sqlxrepos.NewUserRepository(db),
		matRepo: sqlxrepos.NewMaterialRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
