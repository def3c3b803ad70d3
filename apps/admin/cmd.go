package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/post"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db       *sql.DB
	postRepo post.Repository
	mailSvc  core.EmailService
	logger   core.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (goose commands)")
	fmt.Println("  seed -days N           - create demo posts spread over the next N days")
	fmt.Println("  remind                 - send next-day deadline reminders now")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedDays := seedCmd.Int("days", 14, "Number of days to spread the demo posts over.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedDays <= 0 {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*seedDays)
	case "remind":
		return cli.remind()
	default:
		cli.printUsage()
		return errHelp
	}
}
