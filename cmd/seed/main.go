package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/rehabtrack/rehabtrack/internal/auth"
	"github.com/rehabtrack/rehabtrack/internal/config"
	"github.com/rehabtrack/rehabtrack/internal/db"
	"github.com/rehabtrack/rehabtrack/internal/logging"
	"github.com/rehabtrack/rehabtrack/internal/sessions"
)

type seedSecrets struct {
	PostgresPassword string `env:"REHAB_POSTGRES_PASS"`
}

func main() {
	fmt.Println("seeding ...")

	env := flag.String("env", "development", "environment [dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	patientsCount := flag.Int("patients", 10, "number of fake patients to create")
	sessionsPerPatient := flag.Int("sessions", 20, "number of fake sessions per patient")
	days := flag.Int("days", 90, "sessions are spread over this many past days")
	seed := flag.Int64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    "debug",
	})

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	if cfg.Environment == "prod" || cfg.Environment == "production" {
		log.Fatalln("refusing to seed a production database")
	}

	ctx := context.Background()

	var secrets seedSecrets
	if err := envconfig.Process(ctx, &secrets); err != nil {
		log.Fatalf("process env: %s", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	if err := db.ApplySchema(ctx, dbPool); err != nil {
		log.Fatalf("apply schema: %s", err)
	}

	faker := gofakeit.New(*seed)
	usersRepo := auth.NewUsersRepo(dbPool)
	sessionsRepo := sessions.NewRepo(dbPool)

	clinician, err := newFakeUser(faker, auth.RoleClinician)
	if err != nil {
		log.Fatalf("fake clinician: %s", err)
	}
	if _, err := usersRepo.Create(ctx, clinician.user); err != nil {
		log.Fatalf("create clinician: %s", err)
	}
	log.Infof("clinician: %s / %s", clinician.user.Email, clinician.password)

	now := time.Now()
	window := time.Duration(*days) * 24 * time.Hour
	created := 0
	for i := 0; i < *patientsCount; i++ {
		patient, err := newFakeUser(faker, auth.RolePatient)
		if err != nil {
			log.Fatalf("fake patient: %s", err)
		}
		user, err := usersRepo.Create(ctx, patient.user)
		if err != nil {
			log.Errorf("create patient user [%s]: %s", patient.user.Email, err)
			continue
		}

		patientID, err := sessionsRepo.PatientIDForUser(ctx, user.ID)
		if err != nil {
			log.Fatalf("resolve patient of user [%s]: %s", user.ID, err)
		}

		for j := 0; j < *sessionsPerPatient; j++ {
			if _, err := sessionsRepo.Add(ctx, newFakeSession(faker, patientID, now, window)); err != nil {
				log.Fatalf("add session: %s", err)
			}
			created++
		}
		log.Debugf("patient: %s / %s", patient.user.Email, patient.password)
	}

	log.Infof("seeded %d patients and %d sessions", *patientsCount, created)
	os.Exit(0)
}
