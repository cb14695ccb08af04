package config

import (
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// Development defaults. Deployments overwrite this file; nothing here is a
// real credential.
var Config = NewshubConfig{
	Env:      Dev,
	Addr:     "localhost:9001",
	BaseUrl:  "http://localhost:9001",
	LogLevel: zerolog.InfoLevel,

	Postgres: PostgresConfig{
		User:     "newshub",
		Password: "password",
		Hostname: "localhost",
		Port:     5432,
		DbName:   "newshub",
		LogLevel: tracelog.LogLevelWarn,
		MinConn:  2,
		MaxConn:  10,
	},

	Email: EmailConfig{
		ServerAddress:  "localhost",
		ServerPort:     1025,
		FromAddress:    "noreply@newshub.network",
		FromName:       "Newshub",
		MailerUsername: "newshub",
		MailerPassword: "password",
		ForceToAddress: "devmail@newshub.network",
	},

	Social: SocialConfig{
		PostUrl:     "",
		AccessToken: "",
		MaxAttempts: 3,
	},
}
