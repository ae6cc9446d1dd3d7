package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port       string
	DSN        string
	JWTSecret  string
	JWTTTLHrs  int
	BcryptCost int
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string
	Env        string
}

func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		Port:       getEnv("PORT", "8080"),
		DSN:        mustEnv("DB_DSN"),
		JWTSecret:  mustEnv("JWT_SECRET"),
		JWTTTLHrs:  getEnvInt("JWT_TTL_HOURS", 720), // 30 days
		BcryptCost: getEnvInt("BCRYPT_COST", 10),
		SMTPHost:   getEnv("SMTP_HOST", "localhost"),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPUser:   getEnv("SMTP_USER", ""),
		SMTPPass:   getEnv("SMTP_PASS", ""),
		MailFrom:   getEnv("MAIL_FROM", "noreply@edura.app"),
		Env:        getEnv("ENV", "dev"),
	}
	logrus.WithFields(logrus.Fields{"env": c.Env, "port": c.Port}).Info("config loaded")
	return c
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" { return v }
	return def
}

func getEnvInt(k string, def int) int {
	n, err := strconv.Atoi(getEnv(k, ""))
	if err != nil { return def }
	return n
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" { logrus.Fatalf("missing env: %s", k) }
	return v
}
