// Package config loads the gopal configuration file. The configuration
// is read once at startup and handed to the rest of the program by
// reference.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"gopkg.in/gcfg.v1"

	"github.com/rackn/gopal/caltime"
)

var log = logging.MustGetLogger("config")

// Config mirrors gopal.conf:
//
//	[Output]
//	Format = yaml
//
//	[Log]
//	Level = DEBUG
//
//	[Time]
//	Zone = Europe/Berlin
//	Locale = de_DE.UTF-8
//	DecimalCount = 3
//
//	[Plugins]
//	Enable = dmi
//	Enable = net
//
// Unset pointers mean "use the host default".
type Config struct {
	Output struct {
		Format string
	}
	Log struct {
		Level string
	}
	Time struct {
		Zone         *string
		Locale       *string
		DecimalCount *int
	}
	Plugins struct {
		Enable []string
	}
}

// SearchPaths are tried in order when no file is named explicitly.
var SearchPaths = []string{"./gopal.conf", "/etc/gopal/gopal.conf"}

// Formats lists the report encodings.
var Formats = []string{"json", "yaml"}

const (
	defaultDecimalCount = 6
	maxDecimalCount     = 6
)

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.Output.Format = "json"
	c.Log.Level = "WARNING"
	return c
}

func readInto(c *Config, path string) error {
	err := gcfg.ReadFileInto(c, path)
	if fatal := gcfg.FatalOnly(err); fatal != nil {
		return fatal
	}
	if err != nil {
		log.Warningf("%s: %v", path, err)
	}
	return nil
}

// Load reads path, or the first of SearchPaths that exists when path is
// empty, over the defaults. A missing explicit path is an error; missing
// search paths are not.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		if err := readInto(c, path); err != nil {
			return nil, errors.Wrapf(err, "load configuration %s", path)
		}
		log.Debugf("loaded configuration from %s", path)
		return c, c.Validate()
	}
	for _, p := range SearchPaths {
		err := readInto(c, p)
		if os.IsNotExist(errors.Cause(err)) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "load configuration %s", p)
		}
		log.Debugf("loaded configuration from %s", p)
		return c, c.Validate()
	}
	log.Debugf("no configuration file found, using defaults")
	return c, c.Validate()
}

// Validate checks the values a file can get wrong.
func (c *Config) Validate() error {
	c.Output.Format = strings.ToLower(c.Output.Format)
	found := false
	for _, f := range Formats {
		if c.Output.Format == f {
			found = true
			break
		}
	}
	if !found {
		return errors.Errorf("unknown output format %q, want one of %s", c.Output.Format, strings.Join(Formats, ", "))
	}
	if _, err := logging.LogLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "log level %q", c.Log.Level)
	}
	if n := c.Time.DecimalCount; n != nil && (*n < 0 || *n > maxDecimalCount) {
		return errors.Errorf("decimal count %d not in [0, %d]", *n, maxDecimalCount)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// LogLevel is the configured level; an unparseable one reads as
// WARNING.
func (c *Config) LogLevel() logging.Level {
	lvl, err := logging.LogLevel(c.Log.Level)
	if err != nil {
		return logging.WARNING
	}
	return lvl
}

// Location resolves Time.Zone. Unset means the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Time.Zone == nil || *c.Time.Zone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(*c.Time.Zone)
	if err != nil {
		return nil, errors.Wrapf(err, "time zone %q", *c.Time.Zone)
	}
	return loc, nil
}

// System returns the host clock in the configured zone.
func (c *Config) System() (caltime.System, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return caltime.HostIn(loc), nil
}

// DecimalCount is the number of fraction digits stamped times keep.
func (c *Config) DecimalCount() int {
	if c.Time.DecimalCount == nil {
		return defaultDecimalCount
	}
	return *c.Time.DecimalCount
}

// Locale is the configured time locale, or "" to follow the
// environment.
func (c *Config) Locale() string {
	if c.Time.Locale == nil {
		return ""
	}
	return *c.Time.Locale
}
