package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/mwalimu/ratiba/apps/api/echo"
	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/actor"
	"github.com/mwalimu/ratiba/core/post"
	"github.com/mwalimu/ratiba/core/schedule"
	emailsvc "github.com/mwalimu/ratiba/services/email"
	logsvc "github.com/mwalimu/ratiba/services/logger"
	remindersvc "github.com/mwalimu/ratiba/services/reminder"
	wssvc "github.com/mwalimu/ratiba/services/ws"
	"github.com/mwalimu/ratiba/storage/database"
	diskvrepos "github.com/mwalimu/ratiba/storage/database/diskv"
	sqlxrepos "github.com/mwalimu/ratiba/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up repository
	var postRepo post.Repository
	switch conf.Database.Engine {
	case "diskv":
		postRepo = diskvrepos.NewPostRepository(filepath.Join(conf.WorkDir, "data", "posts"))
	default: // postgres
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		postRepo = sqlxrepos.NewPostRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	hub := wssvc.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	postSvc := post.NewService(postRepo)
	scheduleSvc := schedule.NewService(
		postRepo,
		schedule.NewNormalizer(conf, logger),
		mailSvc,
		logger,
		wssvc.NewEventBroadcaster(hub),
	)

	reminderSvc := remindersvc.NewService(postRepo, mailSvc, logger)
	if err := reminderSvc.Start(); err != nil {
		logger.Fatal(fmt.Sprintf("starting reminder cron: %v", err), err)
	}
	defer reminderSvc.Stop()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	actor.InitValidators(validate, translator)
	post.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			PostSvc:     postSvc,
			ScheduleSvc: scheduleSvc,
			Hub:         hub,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shut down and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
