package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageDatabase = "database"
)

var Conf *Config

type (
	Config struct {
		Env              string // DEV (local; default), TEST, QA, PROD
		Build            string
		Debug            bool
		TestMode         bool
		WorkDir          string
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string
		Storage          string
		SeedStudents     int

		Server   ServerConfig
		Database DatabaseConfig
		Sync     SyncConfig
		Discord  DiscordConfig
		Sheets   SheetsConfig
	}

	ServerConfig struct {
		Address            string
		Host               string
		JWTExpirationDelta time.Duration
		AdminPasswordHash  string
		AllowedOrigins     []string
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		Engine     string // postgres | sqlite3
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
		Path       string // sqlite3 only
	}

	SyncConfig struct {
		SimulatedLatency time.Duration
		InactivityWindow time.Duration
	}

	DiscordConfig struct {
		Token     string
		ChannelID string
	}

	SheetsConfig struct {
		CredentialsFile string
		SpreadsheetID   string
		Range           string
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func init() {
	Conf = NewConfig()
}

// NewConfig reads the configuration from defaults, the optional config/.env.<env> file and the environment.
// Env vars are prefixed with the environment name, e.g. DEV_SERVER_ADDRESS.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "CP Tracker")
	v.SetDefault("secretKey", "k3n#9c)t2r&x8!m$aqf0(w=u7+zy5@e^d1hb6l*po4s-vgi")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "CP Tracker <noreply@localhost>")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("storage", StorageMemory)
	v.SetDefault("seedStudents", 10)
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.adminPasswordHash", "")
	v.SetDefault("server.allowedOrigins", []string{"*"})
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("database.engine", "sqlite3")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "cptracker")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", false)
	v.SetDefault("database.path", "cptracker.db")
	v.SetDefault("sync.simulatedLatency", 2*time.Second)
	v.SetDefault("sync.inactivityWindow", 7*24*time.Hour)
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.channelID", "")
	v.SetDefault("sheets.credentialsFile", "")
	v.SetDefault("sheets.spreadsheetID", "")
	v.SetDefault("sheets.range", "Students!A1")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		log.Fatalf("config.defaultFromEmail: %v", err)
	}

	return &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		WorkDir:          wd,
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: *from,
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Storage:          v.GetString("storage"),
		SeedStudents:     v.GetInt("seedStudents"),
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			Host:               v.GetString("server.host"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			AdminPasswordHash:  v.GetString("server.adminPasswordHash"),
			AllowedOrigins:     v.GetStringSlice("server.allowedOrigins"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			Name:       v.GetString("database.name"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			DisableTLS: v.GetBool("database.disableTLS"),
			Path:       v.GetString("database.path"),
		},
		Sync: SyncConfig{
			SimulatedLatency: v.GetDuration("sync.simulatedLatency"),
			InactivityWindow: v.GetDuration("sync.inactivityWindow"),
		},
		Discord: DiscordConfig{
			Token:     v.GetString("discord.token"),
			ChannelID: v.GetString("discord.channelID"),
		},
		Sheets: SheetsConfig{
			CredentialsFile: v.GetString("sheets.credentialsFile"),
			SpreadsheetID:   v.GetString("sheets.spreadsheetID"),
			Range:           v.GetString("sheets.range"),
		},
	}
}
