package conf

import (
	"context"
	"github.com/jom-io/gorig-prof/src/analyzer"
	_ "github.com/jom-io/gorig-prof/src/defaults" // gorig config fallback
	"github.com/jom-io/gorig-prof/src/source"
	configure "github.com/jom-io/gorig/utils/cofigure"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"net"
	"strconv"
	"strings"
)

type Config struct {
	Source       string          `json:"source"`
	Table        string          `json:"table,omitempty"` // forced table, skips detection
	Host         string          `json:"host"`
	Port         int             `json:"port"`
	Debug        bool            `json:"debug"`
	Policy       analyzer.Policy `json:"policy"`
	PasswordHash string          `json:"-"`
	Refresh      string          `json:"refresh,omitempty"` // cron spec for metric refresh when embedded
	Minio        source.Options  `json:"-"`
}

const (
	DefaultSource = "flask_profiler.sqlite"
	DefaultHost   = "127.0.0.1"
	DefaultPort   = 5001
)

// env var bound to each setting
var envKeys = map[string]string{
	"db":               "FLASK_PROFILER_DB",
	"table":            "PROFILER_REPORT_TABLE",
	"host":             "PROFILER_REPORT_HOST",
	"port":             "PROFILER_REPORT_PORT",
	"debug":            "PROFILER_REPORT_DEBUG",
	"min_calls":        "PROFILER_MIN_CALLS",
	"top_n":            "PROFILER_TOP_N",
	"password_hash":    "PROFILER_REPORT_PASSWORD_HASH",
	"refresh":          "PROFILER_REFRESH",
	"minio.endpoint":   "PROFILER_MINIO_ENDPOINT",
	"minio.access_key": "PROFILER_MINIO_ACCESS_KEY",
	"minio.secret_key": "PROFILER_MINIO_SECRET_KEY",
	"minio.secure":     "PROFILER_MINIO_SECURE",
}

// Load reads om.profiler.* from the gorig configuration and lets the
// environment override it.
func Load() Config {
	return FromViper(Viper())
}

// Viper returns the settings with gorig values as defaults and the
// environment bound on top. Callers may bind command line flags to it.
func Viper() *viper.Viper {
	v := viper.New()
	v.SetDefault("db", configure.GetString("om.profiler.db", DefaultSource))
	v.SetDefault("table", configure.GetString("om.profiler.table", ""))
	v.SetDefault("host", configure.GetString("om.profiler.host", DefaultHost))
	v.SetDefault("port", configure.GetString("om.profiler.port", strconv.Itoa(DefaultPort)))
	v.SetDefault("debug", configure.GetString("om.profiler.debug", "1"))
	v.SetDefault("min_calls", configure.GetString("om.profiler.min_calls", strconv.Itoa(analyzer.DefaultMinCalls)))
	v.SetDefault("top_n", configure.GetString("om.profiler.top_n", strconv.Itoa(analyzer.DefaultTopN)))
	v.SetDefault("password_hash", configure.GetString("om.profiler.password_hash", ""))
	v.SetDefault("refresh", configure.GetString("om.profiler.refresh", ""))
	v.SetDefault("minio.endpoint", configure.GetString("om.profiler.minio.endpoint", ""))
	v.SetDefault("minio.access_key", configure.GetString("om.profiler.minio.access_key", ""))
	v.SetDefault("minio.secret_key", configure.GetString("om.profiler.minio.secret_key", ""))
	v.SetDefault("minio.secure", configure.GetString("om.profiler.minio.secure", "false"))
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
	return v
}

// FromViper builds a Config from already bound values.
func FromViper(v *viper.Viper) Config {
	return Config{
		Source: v.GetString("db"),
		Table:  strings.TrimSpace(v.GetString("table")),
		Host:   v.GetString("host"),
		Port:   intValue(v, "port", DefaultPort),
		Debug:  ParseBool(v.GetString("debug")),
		Policy: analyzer.Policy{
			MinCalls: int64(intValue(v, "min_calls", analyzer.DefaultMinCalls)),
			TopN:     intValue(v, "top_n", analyzer.DefaultTopN),
		},
		PasswordHash: v.GetString("password_hash"),
		Refresh:      v.GetString("refresh"),
		Minio: source.Options{
			MinioEndpoint:  v.GetString("minio.endpoint"),
			MinioAccessKey: v.GetString("minio.access_key"),
			MinioSecretKey: v.GetString("minio.secret_key"),
			MinioSecure:    ParseBool(v.GetString("minio.secure")),
		},
	}
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseBool accepts 1, true and yes in any case.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func intValue(v *viper.Viper, key string, def int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	i, err := cast.ToIntE(raw)
	if err != nil || i < 0 {
		logger.Warn(context.Background(), "Invalid profiler config value, using default", zap.String("key", key), zap.String("value", raw), zap.Int("default", def))
		return def
	}
	return i
}
