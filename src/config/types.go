package config

import (
	"fmt"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta             = "beta"
	Dev              = "dev"
)

type NewshubConfig struct {
	Env      Environment
	Addr     string
	BaseUrl  string
	LogLevel zerolog.Level

	Postgres PostgresConfig
	Email    EmailConfig
	Social   SocialConfig
}

type PostgresConfig struct {
	User     string
	Password string
	Hostname string
	Port     int
	DbName   string
	LogLevel tracelog.LogLevel
	MinConn  int32
	MaxConn  int32
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

type EmailConfig struct {
	ServerAddress  string
	ServerPort     int
	FromAddress    string
	FromName       string
	MailerUsername string
	MailerPassword string

	// When set, all outgoing mail goes to this address instead of the real
	// recipients. For development.
	ForceToAddress string
}

type SocialConfig struct {
	// Endpoint that receives the post for the configured account. Posting is
	// disabled when empty.
	PostUrl     string
	AccessToken string
	MaxAttempts int
}
