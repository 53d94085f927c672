package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// Exam policy knobs; defaults match the production rules.
	AttemptCooldownJAMB time.Duration
	AttemptCooldownWAEC time.Duration
	SubjectLockMonths   int
	ResultEmbargo       time.Duration
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:     mode,
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		AuthSecret:    envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://naijaprep.ng"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),

		AttemptCooldownJAMB: envDuration("ATTEMPT_COOLDOWN_JAMB", 7*24*time.Hour),
		AttemptCooldownWAEC: envDuration("ATTEMPT_COOLDOWN_WAEC", 7*24*time.Hour),
		SubjectLockMonths:   envInt("SUBJECT_LOCK_MONTHS", 8),
		ResultEmbargo:       envDuration("RESULT_EMBARGO", time.Hour),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
