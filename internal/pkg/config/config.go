package config

import (
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the whole process configuration. Nothing in the service reads
// ambient globals; every component gets what it needs from here at
// construction time.
type Config struct {
	Listen          string `conf:"default:0.0.0.0:9090" yaml:"listen"`
	Storage         string `conf:"default:sheet,help:sheet or postgres" yaml:"storage"`
	WorkbookPath    string `conf:"default:attendance.xlsx" yaml:"workbook_path"`
	AttendanceSheet string `conf:"default:T_Attendance" yaml:"attendance_sheet"`
	CampusSheet     string `conf:"default:M_Campus" yaml:"campus_sheet"`
	APIKey          string `conf:"noprint" yaml:"api_key"`
	TimeZone        string `conf:"default:Asia/Tokyo" yaml:"time_zone"`
	CheckInBaseURL  string `conf:"default:http://localhost:9090/checkin" yaml:"check_in_base_url"`
	AllowedOrigins  string `conf:"default:http://localhost:3000" yaml:"allowed_origins"`
	Debug           bool   `conf:"default:false" yaml:"debug"`

	RedisAddr string `yaml:"redis_addr"`

	DBUsername string `yaml:"db_username"`
	DBPassword string `conf:"noprint" yaml:"db_password"`
	DBHost     string `conf:"default:localhost" yaml:"db_host"`
	DBPort     string `conf:"default:5432" yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	DisableTLS bool   `conf:"default:true" yaml:"disable_tls"`
}

// ErrHelpWanted reports that usage text was requested instead of a run.
var ErrHelpWanted = conf.ErrHelpWanted

// NewConfig builds the configuration from defaults, the ATTEND_* environment
// and command-line flags, then overlays config.yaml when the file exists.
func NewConfig(args []string) (*Config, error) {
	var c Config

	if err := conf.Parse(args, "ATTEND", &c); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, uerr := conf.Usage("ATTEND", &c)
			if uerr != nil {
				return nil, errors.Wrap(uerr, "generating usage")
			}
			os.Stdout.WriteString(usage + "\n")
			return nil, ErrHelpWanted
		}
		return nil, errors.Wrap(err, "parsing config")
	}

	if yamlFile, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(yamlFile, &c); err != nil {
			return nil, errors.Wrap(err, "parsing config.yaml")
		}
	}

	if c.Storage != "sheet" && c.Storage != "postgres" {
		return nil, errors.Errorf("unknown storage backend %q", c.Storage)
	}

	if c.Storage == "postgres" && (c.DBUsername == "" || c.DBName == "") {
		return nil, errors.New("missing required database configuration")
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return nil, errors.Wrapf(err, "loading time zone %q", c.TimeZone)
	}

	return &c, nil
}

// Location returns the configured time zone. The zone name is validated in
// NewConfig, so a load failure here can only mean the zone database changed
// underneath the process; fall back to local time in that case.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
