package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/darasa/darasa/apps/api/echo"
	"github.com/darasa/darasa/core"
	"github.com/darasa/darasa/core/assignment"
	"github.com/darasa/darasa/core/attendance"
	"github.com/darasa/darasa/core/classroom"
	"github.com/darasa/darasa/core/submission"
	"github.com/darasa/darasa/core/user"
	emailsvc "github.com/darasa/darasa/services/email"
	gradersvc "github.com/darasa/darasa/services/grader"
	logsvc "github.com/darasa/darasa/services/logger"
	"github.com/darasa/darasa/storage/database"
	sqlxrepos "github.com/darasa/darasa/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	asgRepo := sqlxrepos.NewAssignmentRepository(db)

	usrSvc := user.NewService(usrRepo)
	roomSvc := classroom.NewService(sqlxrepos.NewClassroomRepository(db))
	asgSvc := assignment.NewService(asgRepo, roomSvc)
	subSvc := submission.NewService(
		sqlxrepos.NewSubmissionRepository(db),
		asgRepo,
		roomSvc,
		gradersvc.NewHTTPGrader(logger),
		usrRepo,
		mailSvc,
	)
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), roomSvc, usrRepo)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Logger:        logger,
			UserSvc:       usrSvc,
			ClassroomSvc:  roomSvc,
			AssignmentSvc: asgSvc,
			SubmissionSvc: subSvc,
			AttendanceSvc: attSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
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
