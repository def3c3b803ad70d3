package main

import (
	"log"
	"os"

	"github.com/mwalimu/ratiba/core"
	emailsvc "github.com/mwalimu/ratiba/services/email"
	logsvc "github.com/mwalimu/ratiba/services/logger"
	"github.com/mwalimu/ratiba/storage/database"
	sqlxrepos "github.com/mwalimu/ratiba/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		db:       db,
		postRepo: sqlxrepos.NewPostRepository(db),
		mailSvc:  emailsvc.NewConsoleService(conf),
		logger:   appLogger,
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
