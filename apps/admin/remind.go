package main

import (
	remindersvc "github.com/mwalimu/ratiba/services/reminder"
)

// remind runs the next-day deadline reminder job once, outside its cron
// schedule.
func (cli *commandLine) remind() error {
	remindersvc.NewService(cli.postRepo, cli.mailSvc, cli.logger).RunOnce()
	return nil
}
