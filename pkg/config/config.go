package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
)

// Drivers soportados por la fuente de datos.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverFirebird = "firebird"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se carga una vez al inicio y no se modifica después.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Report  ReportConfig
	Export  ExportConfig
	Metrics MetricsConfig
	Sheets  SheetsConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de la fuente de datos.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver       string // postgres | mysql | firebird
	DatabaseURL  string
	Host         string
	Port         int
	User         string
	Password     string
	PasswordFile string // referencia a un secreto montado; tiene prioridad sobre Password
	DBName       string // nombre de base, o ruta del archivo .fdb en Firebird
	SSLMode      string
	Charset      string // WIN1252, ISO8859_1, DOS850 o UTF8
	MaxConns     int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string según el driver.
func (c DBConfig) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
		mc.DBName = c.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN()
	case DriverFirebird:
		// user:password@host:port/path/base.fdb?charset=...
		u := &url.URL{
			User: url.UserPassword(c.User, c.Password),
			Host: fmt.Sprintf("%s:%d", c.Host, c.Port),
			Path: "/" + strings.TrimPrefix(c.DBName, "/"),
		}
		if c.Charset != "" {
			u.RawQuery = "charset=" + url.QueryEscape(c.Charset)
		}
		return strings.TrimPrefix(u.String(), "//")
	default:
		// url.UserPassword maneja caracteres especiales en la contraseña
		u := &url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
			Path:     "/" + c.DBName,
			RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
		}
		return u.String()
	}
}

// ReportConfig parámetros de los reportes.
type ReportConfig struct {
	Granularity     string // daily | weekly | monthly
	Timezone        string
	StrictIntegrity bool // advertencias de integridad => salida con error
}

// Location resuelve la zona horaria del calendario de períodos.
func (c ReportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ExportConfig destino de los artefactos.
type ExportConfig struct {
	Dir    string
	Format string // csv | json | xlsx | pdf, o lista separada por comas
}

// Formats devuelve los formatos pedidos, sin vacíos ni duplicados.
func (c ExportConfig) Formats() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range strings.Split(c.Format, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// MetricsConfig push de métricas del lote. Sin URL no se publica nada.
type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

// SheetsConfig publicación opcional en Google Sheets.
type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
}

// Enabled indica si hay datos suficientes para publicar.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsFile != "" && c.SpreadsheetID != ""
}

// JWTConfig configuración de JWT del endpoint de lectura.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. No valida: ver Validate.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	driver := strings.ToLower(getString(v, "DB_DRIVER", DriverPostgres))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-reportes"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:       driver,
			DatabaseURL:  getString(v, "DATABASE_URL", ""),
			Host:         getString(v, "DB_HOST", "localhost"),
			Port:         getInt(v, "DB_PORT", defaultPort(driver)),
			User:         getString(v, "DB_USER", ""),
			Password:     getString(v, "DB_PASSWORD", ""),
			PasswordFile: getString(v, "DB_PASSWORD_FILE", ""),
			DBName:       getString(v, "DB_NAME", ""),
			SSLMode:      getString(v, "DB_SSLMODE", "disable"),
			Charset:      getString(v, "DB_CHARSET", ""),
			MaxConns:     getInt(v, "DB_MAX_CONNS", 8),
		},
		Report: ReportConfig{
			Granularity:     getString(v, "REPORT_GRANULARITY", "monthly"),
			Timezone:        getString(v, "REPORT_TIMEZONE", "UTC"),
			StrictIntegrity: getBool(v, "REPORT_STRICT_INTEGRITY", false),
		},
		Export: ExportConfig{
			Dir:    getString(v, "EXPORT_DIR", "./out"),
			Format: getString(v, "EXPORT_FORMAT", "csv"),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: getString(v, "METRICS_PUSHGATEWAY_URL", ""),
			Job:            getString(v, "METRICS_JOB", "inventario_reportes"),
		},
		Sheets: SheetsConfig{
			CredentialsFile: firstString(v, "SHEETS_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"),
			SpreadsheetID:   firstString(v, "SHEETS_SPREADSHEET_ID", "SHEET_ID"),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "inventario-reportes"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
	}

	if cfg.DB.PasswordFile != "" {
		b, err := os.ReadFile(cfg.DB.PasswordFile)
		if err != nil {
			return nil, &domain.ConfigurationError{Fields: []string{"DB_PASSWORD_FILE: " + err.Error()}}
		}
		cfg.DB.Password = strings.TrimSpace(string(b))
	}

	return cfg, nil
}

// Validate revisa todos los campos y devuelve un *domain.ConfigurationError con cada problema.
// Se llama antes de abrir cualquier conexión.
func (c *Config) Validate() error {
	var fields []string

	switch c.DB.Driver {
	case DriverPostgres, DriverMySQL, DriverFirebird:
	default:
		fields = append(fields, fmt.Sprintf("DB_DRIVER: %q no soportado (postgres|mysql|firebird)", c.DB.Driver))
	}
	if c.DB.DatabaseURL == "" {
		if c.DB.Host == "" {
			fields = append(fields, "DB_HOST: requerido")
		}
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			fields = append(fields, fmt.Sprintf("DB_PORT: %d fuera de rango", c.DB.Port))
		}
		if c.DB.User == "" {
			fields = append(fields, "DB_USER: requerido")
		}
		if c.DB.DBName == "" {
			fields = append(fields, "DB_NAME: requerido")
		}
	}
	if c.DB.MaxConns <= 0 {
		fields = append(fields, "DB_MAX_CONNS: debe ser mayor que 0")
	}

	switch strings.ToLower(c.Report.Granularity) {
	case "daily", "weekly", "monthly":
	default:
		fields = append(fields, fmt.Sprintf("REPORT_GRANULARITY: %q (daily|weekly|monthly)", c.Report.Granularity))
	}
	if _, err := c.Report.Location(); err != nil {
		fields = append(fields, fmt.Sprintf("REPORT_TIMEZONE: %v", err))
	}

	if c.Export.Dir == "" {
		fields = append(fields, "EXPORT_DIR: requerido")
	}
	formats := c.Export.Formats()
	if len(formats) == 0 {
		fields = append(fields, "EXPORT_FORMAT: requerido")
	}
	for _, f := range formats {
		switch f {
		case "csv", "json", "xlsx", "pdf":
		default:
			fields = append(fields, fmt.Sprintf("EXPORT_FORMAT: %q (csv|json|xlsx|pdf)", f))
		}
	}

	if c.Metrics.PushgatewayURL != "" {
		if _, err := url.ParseRequestURI(c.Metrics.PushgatewayURL); err != nil {
			fields = append(fields, "METRICS_PUSHGATEWAY_URL: URL inválida")
		}
	}
	if (c.Sheets.CredentialsFile == "") != (c.Sheets.SpreadsheetID == "") {
		fields = append(fields, "SHEETS_CREDENTIALS_FILE y SHEETS_SPREADSHEET_ID: se requieren ambos")
	}

	if len(fields) > 0 {
		return &domain.ConfigurationError{Fields: fields}
	}
	return nil
}

// ValidateHTTP requisitos adicionales del modo servidor.
func (c *Config) ValidateHTTP() error {
	var fields []string
	if c.JWT.Secret == "" {
		fields = append(fields, "JWT_SECRET: requerido para serve")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		fields = append(fields, fmt.Sprintf("HTTP_PORT: %d fuera de rango", c.HTTP.Port))
	}
	if len(fields) > 0 {
		return &domain.ConfigurationError{Fields: fields}
	}
	return nil
}

func defaultPort(driver string) int {
	switch driver {
	case DriverMySQL:
		return 3306
	case DriverFirebird:
		return 3050
	default:
		return 5432
	}
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

// firstString devuelve la primera clave definida y no vacía.
func firstString(v *viper.Viper, keys ...string) string {
	for _, k := range keys {
		if s := getString(v, k, ""); s != "" {
			return s
		}
	}
	return ""
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return -1
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
