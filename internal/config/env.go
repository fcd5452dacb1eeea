package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevTicketSecret is the signing secret used when TICKET_TOKEN_SECRET is unset.
// Codes signed with it can be forged by anyone reading the source.
const DevTicketSecret = "planillabus-dev-secret"

type Env struct {
	AppAddr string `env:"APP_ADDR" envDefault:":8080"`
	GinMode string `env:"GIN_MODE"`

	DBUser     string `env:"DB_USER" envDefault:"root"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1:3306"`
	DBName     string `env:"DB_NAME" envDefault:"planillabus"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	TicketTokenSecret string `env:"TICKET_TOKEN_SECRET" envDefault:"planillabus-dev-secret"`

	// UpstreamAPIURL switches reference data (fare profiles, manifests) to a
	// remote PlanillaBus backend. Empty means the local database.
	UpstreamAPIURL  string        `env:"UPSTREAM_API_URL"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	Timezone string `env:"APP_TZ" envDefault:"America/Bogota"`

	// FormSessionTTL is how long an idle server-side ticket form is kept.
	FormSessionTTL time.Duration `env:"FORM_SESSION_TTL" envDefault:"30m"`
}

func LoadEnv() Env {
	cfg, err := parseEnv()
	if err != nil {
		log.Fatalf("[CONFIG] no se pudo leer el entorno: %v", err)
	}
	if cfg.TicketTokenSecret == DevTicketSecret {
		log.Printf("[CONFIG] TICKET_TOKEN_SECRET sin definir, usando el secreto de desarrollo")
	}
	return cfg
}

func parseEnv() (Env, error) {
	cfg, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, err
	}
	cfg.AppAddr = strings.TrimSpace(cfg.AppAddr)
	if cfg.AppAddr == "" {
		cfg.AppAddr = ":8080"
	}
	cfg.GinMode = strings.TrimSpace(cfg.GinMode)
	cfg.UpstreamAPIURL = strings.TrimRight(strings.TrimSpace(cfg.UpstreamAPIURL), "/")
	cfg.TicketTokenSecret = strings.TrimSpace(cfg.TicketTokenSecret)
	if cfg.TicketTokenSecret == "" {
		cfg.TicketTokenSecret = DevTicketSecret
	}
	if err := cfg.checkSecrets(); err != nil {
		return Env{}, err
	}
	return cfg, nil
}

// checkSecrets refuses release mode with the development ticket secret.
func (e Env) checkSecrets() error {
	if e.GinMode == "release" && e.TicketTokenSecret == DevTicketSecret {
		return errors.New("TICKET_TOKEN_SECRET es obligatorio con GIN_MODE=release")
	}
	return nil
}

// Location resolves APP_TZ, falling back to the server's local zone.
func (e Env) Location() *time.Location {
	if strings.TrimSpace(e.Timezone) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		log.Printf("[CONFIG] APP_TZ %q desconocida, usando zona local: %v", e.Timezone, err)
		return time.Local
	}
	return loc
}
