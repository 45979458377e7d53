package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Session backends
const (
	SessionMemory = "memory"
	SessionFile   = "file"
	SessionRedis  = "redis"
)

type Config struct {
	Debug            bool
	TestMode         bool
	Seed             bool
	AppName          string
	Build            string
	Env              string
	SecretKey        string
	FrontendBaseURL  string
	DefaultFromEmail mail.Address
	SendgridApiKey   string
	RollbarToken     string

	Server struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// Latency simulates the round-trip of a remote backend on every store operation.
	Latency struct {
		Enabled bool
		Scale   float64
	}

	Session struct {
		Backend   string
		Dir       string
		RedisAddr string
		TTL       time.Duration
	}

	// Admin configures the admin CLI, a client of the API.
	Admin struct {
		APIURL     string
		SessionDir string
	}
}

// NewConfig loads the configuration of the current environment (ENV: DEV (default), TEST, QA, PROD).
// Values come from `config/.env.<env>` when it exists, then from <ENV>_ prefixed environment variables.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("seed", true)
	v.SetDefault("appName", "StudyHub")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "k3y-8ke0&k!u5)v_w#o+w2ta@x9p9(t8=t(g6jq$^u1d#@4o_o")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("email.defaultFromName", "StudyHub")
	v.SetDefault("email.defaultFrom", "noreply@localhost")
	v.SetDefault("email.sendgridApiKey", "")
	v.SetDefault("rollbar.token", "")
	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("jwt.expiration", 7*24*time.Hour)
	v.SetDefault("jwt.refreshExpiration", 30*24*time.Hour)
	v.SetDefault("latency.enabled", env != "TEST")
	v.SetDefault("latency.scale", 1.0)
	v.SetDefault("session.backend", SessionMemory)
	v.SetDefault("session.dir", filepath.Join(os.TempDir(), "studyhub-sessions"))
	v.SetDefault("session.redisAddr", "localhost:6379")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("admin.apiURL", "http://localhost:8000")
	v.SetDefault("admin.sessionDir", filepath.Join(os.TempDir(), "studyhub-admin"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		Seed:            v.GetBool("seed"),
		AppName:         v.GetString("appName"),
		Build:           v.GetString("build"),
		Env:             env,
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("email.defaultFromName"),
			Address: v.GetString("email.defaultFrom"),
		},
		SendgridApiKey: v.GetString("email.sendgridApiKey"),
		RollbarToken:   v.GetString("rollbar.token"),
	}

	conf.Server.Host = v.GetString("server.host")
	conf.Server.DebugHost = v.GetString("server.debugHost")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwt.expiration")
	conf.Server.JWTRefreshExpirationDelta = v.GetDuration("jwt.refreshExpiration")

	conf.Latency.Enabled = v.GetBool("latency.enabled")
	conf.Latency.Scale = v.GetFloat64("latency.scale")

	conf.Session.Backend = strings.ToLower(v.GetString("session.backend"))
	conf.Session.Dir = v.GetString("session.dir")
	conf.Session.RedisAddr = v.GetString("session.redisAddr")
	conf.Session.TTL = v.GetDuration("session.ttl")

	conf.Admin.APIURL = v.GetString("admin.apiURL")
	conf.Admin.SessionDir = v.GetString("admin.sessionDir")

	return conf
}

// NewTestConfig returns the configuration used by tests: no simulated latency, in-memory sessions.
func NewTestConfig() *Config {
	conf := &Config{
		Debug:            true,
		TestMode:         true,
		Seed:             true,
		AppName:          "StudyHub",
		Build:            "test",
		Env:              "TEST",
		SecretKey:        "test-secret",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "StudyHub", Address: "noreply@test.local"},
	}
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = 24 * time.Hour
	conf.Server.ShutdownTimeout = time.Second
	conf.Session.Backend = SessionMemory
	return conf
}

// configDir walks up from the working directory until it finds a `config` directory.
// go test runs from the package directory, so the lookup cannot rely on the working directory alone.
func configDir() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		dir := filepath.Join(currDir, "config")
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return filepath.Join(wd, "config")
		}
		currDir = newDir
	}
}
