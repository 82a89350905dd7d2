package env

import (
	"os"

	"github.com/joho/godotenv"
)

// values holds the key/value pairs read from the .env file at startup. The
// process environment is the fallback for keys the file does not carry, which
// is how container deployments override individual settings.
var values map[string]string

// GetEnv returns the configured value for key, preferring the loaded .env
// file over the process environment, falling back to def.
func GetEnv(key, def string) string {
	if v, ok := values[key]; ok {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SetupEnvFile loads the first .env file found walking up from the working
// directory. Binaries start either in the repo root or in their cmd/
// directory, so two levels of ascent cover both.
func SetupEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if parsed, err := godotenv.Read(path); err == nil {
			values = parsed
			return
		}
	}
	panic("env: no .env file found next to the binary or in the repo root")
}

// IsDev reports whether the app runs in development mode.
func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
