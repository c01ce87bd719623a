package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string
		WorkDir          string

		Server   ServerConfig
		Database DatabaseConfig
		Grader   GraderConfig
	}

	ServerConfig struct {
		Host               string
		Port               int
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          int
		DisableTLS    bool
	}

	GraderConfig struct {
		URL     string
		Timeout time.Duration
		Workers int
	}
)

func (c ServerConfig) Address() string   { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
func (c DatabaseConfig) Address() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("secretKey", "w3++all-g0nna-mak3-it(but=n0t*in!pr0d)")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", 8000)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("serverShutdownTimeout", 20*time.Second)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "darasa")
	v.SetDefault("dbUser", "darasa")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("graderURL", "http://localhost:9009/grade")
	v.SetDefault("graderTimeout", 30*time.Second)
	v.SetDefault("graderWorkers", 4)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Address: v.GetString("defaultFromEmail")},
		SendgridAPIKey:   v.GetString("sendgridAPIKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		WorkDir:          wd,
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Port:               v.GetInt("serverPort"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetInt("dbPort"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Grader: GraderConfig{
			URL:     v.GetString("graderURL"),
			Timeout: v.GetDuration("graderTimeout"),
			Workers: v.GetInt("graderWorkers"),
		},
	}
}

// getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run during tests...
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd // fall back to the actual working directory
		}
		currDir = newDir
	}
}
