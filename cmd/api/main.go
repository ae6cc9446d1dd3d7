package main

import (
	"time"

	"github.com/sirupsen/logrus"

	"edura/internal/auth"
	"edura/internal/config"
	"edura/internal/database"
	"edura/internal/mailer"
	"edura/internal/server"
	"edura/internal/store"
)

func main() {
	log := logrus.StandardLogger()
	cfg := config.Load()

	db, err := database.Connect(cfg.DSN)
	if err != nil {
		log.Fatalf("DB connect error: %v", err)
	}

	// Run migrations if files exist (RunMigrations is tolerant if dir missing)
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("migrations error: %v", err)
	}

	st := store.NewMySQLStore(db)
	m := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHrs)*time.Hour)

	srv := server.NewServer(":"+cfg.Port, st, m, tokens, cfg.BcryptCost, log)
	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
