package main

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"strconv"
	"testing"
	"time"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/post"
	emailsvc "github.com/mwalimu/ratiba/services/email"
	logsvc "github.com/mwalimu/ratiba/services/logger"
	inmemdb "github.com/mwalimu/ratiba/storage/database/inmem"
)

var postRepo post.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	conf := core.NewConfig()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed, %v", err)
	}
	postRepo = inmemdb.NewPostRepository(db)

	// start CLI
	return &commandLine{
		postRepo: postRepo,
		mailSvc:  emailsvc.NewConsoleServiceMock(conf),
		logger:   logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "class", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "seed: zero days", args: []string{"seed", "-days", "0"}, wantErr: errHelp},
		{name: "seed", args: []string{"seed", "-days", "6"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				posts, err := postRepo.QueryAllPosts()
				if err != nil {
					t.Fatalf("QueryAllPosts() failed, %v", err)
				}
				if len(posts) != 6 {
					t.Errorf("seeded %d posts, want 6", len(posts))
				}
				for _, p := range posts {
					if p.PublishState != post.StatePublished {
						t.Errorf("post %q not published", p.Title)
					}
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_remind(t *testing.T) {
	cli := setup(t)

	due := time.Now().UTC().AddDate(0, 0, 1)
	svc := post.NewService(cli.postRepo)
	if _, err := svc.Create(post.NewPost{
		Type:    post.TypeAssignment,
		Title:   "Essay",
		DueAt:   &due,
		Publish: true,
	}, seedAuthor); err != nil {
		t.Fatalf("Create() failed, %v", err)
	}

	if err := cli.run([]string{"admin", "remind"}); err != nil {
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}
