// Package report runs the collectors and assembles their results into
// one stamped inventory document.
package report

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rackn/gopal/caltime"
	"github.com/rackn/gopal/config"
	"github.com/rackn/gopal/plugins"
	"github.com/rackn/gopal/plugins/dmi"
	"github.com/rackn/gopal/plugins/net"
	"github.com/rackn/gopal/plugins/process"
	"github.com/rackn/gopal/plugins/storage"
	"github.com/rackn/gopal/plugins/system"
)

var log = logging.MustGetLogger("report")

// Plugin is a named collector.
type Plugin struct {
	Name   string
	Gather plugins.Gatherer
}

// wrap turns a typed Gather into a Gatherer without boxing a nil
// pointer into a non-nil interface.
func wrap[T plugins.Info](fn func(context.Context, *plugins.Env) (T, error)) plugins.Gatherer {
	return func(ctx context.Context, env *plugins.Env) (plugins.Info, error) {
		res, err := fn(ctx, env)
		if err != nil {
			return nil, err
		}
		return res, nil
	}
}

// Plugins lists every collector in report order.
var Plugins = []Plugin{
	{"system", wrap(system.Gather)},
	{"dmi", wrap(dmi.Gather)},
	{"net", wrap(net.Gather)},
	{"storage", wrap(storage.Gather)},
	{"process", wrap(process.Gather)},
}

// Select returns the named plugins in report order. No names selects
// them all.
func Select(names []string) ([]Plugin, error) {
	if len(names) == 0 {
		return Plugins, nil
	}
	want := map[string]bool{}
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}
	res := []Plugin{}
	for _, p := range Plugins {
		if want[p.Name] {
			res = append(res, p)
			delete(want, p.Name)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for n := range want {
			unknown = append(unknown, n)
		}
		sort.Strings(unknown)
		return nil, errors.Errorf("unknown plugins: %s", strings.Join(unknown, ", "))
	}
	return res, nil
}

type Report struct {
	ID          uuid.UUID
	CollectedAt caltime.CalendarTime
	Host        string
	Sections    map[string]plugins.Info
	Errors      map[string]string `json:",omitempty" yaml:",omitempty"`
}

// Builder runs a fixed set of plugins against one environment.
type Builder struct {
	Plugins []Plugin
	Env     *plugins.Env
	Host    string
}

// Build runs every plugin in turn. A failing plugin is logged and
// recorded under its name; the report is still produced.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	now, err := b.Env.Now()
	if err != nil {
		return nil, errors.Wrap(err, "read collection time")
	}
	res := &Report{
		ID:          uuid.New(),
		CollectedAt: now,
		Host:        b.Host,
		Sections:    map[string]plugins.Info{},
		Errors:      map[string]string{},
	}
	for _, p := range b.Plugins {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Debugf("gathering %s", p.Name)
		info, err := p.Gather(ctx, b.Env)
		if err != nil {
			log.Errorf("Failed to gather %s information: %v", p.Name, err)
			res.Errors[p.Name] = err.Error()
			continue
		}
		res.Sections[info.Class()] = info
	}
	return res, nil
}

// Build assembles a report for this host from the configuration.
func Build(ctx context.Context, cfg *config.Config, sys caltime.System) (*Report, error) {
	selected, err := Select(cfg.Plugins.Enable)
	if err != nil {
		return nil, err
	}
	env := plugins.DefaultEnv(sys)
	env.DecimalCount = cfg.DecimalCount()
	host, err := os.Hostname()
	if err != nil {
		log.Warningf("hostname: %v", err)
	}
	b := &Builder{Plugins: selected, Env: env, Host: host}
	return b.Build(ctx)
}

// Encode writes v as json or yaml.
func Encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(v))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(enc.Close())
	}
	return errors.Errorf("unknown output format %q", format)
}

// Encode writes r as json or yaml.
func (r *Report) Encode(w io.Writer, format string) error {
	return Encode(w, format, r)
}
