package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rackn/gopal/caltime"
	"github.com/rackn/gopal/config"
	"github.com/rackn/gopal/plugins"
)

type stubInfo struct {
	Value   string
	Started caltime.CalendarTime
}

func (s *stubInfo) Class() string { return "Stub" }

func stubGather(ctx context.Context, env *plugins.Env) (*stubInfo, error) {
	now, err := env.Now()
	if err != nil {
		return nil, err
	}
	return &stubInfo{Value: "ok", Started: now}, nil
}

func failingGather(ctx context.Context, env *plugins.Env) (*stubInfo, error) {
	return nil, errors.New("no such device")
}

func testBuilder() *Builder {
	sys := caltime.Fixed(time.Date(2024, 5, 1, 12, 0, 0, 500000000, time.UTC), time.FixedZone("EST", -5*3600))
	env := plugins.DefaultEnv(sys)
	env.DecimalCount = 3
	return &Builder{
		Plugins: []Plugin{
			{"stub", wrap(stubGather)},
			{"broken", wrap(failingGather)},
		},
		Env:  env,
		Host: "node1",
	}
}

func TestBuild(t *testing.T) {
	r, err := testBuilder().Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.Host != "node1" || r.ID.String() == "" {
		t.Errorf("host %q id %s", r.Host, r.ID)
	}
	if s := r.CollectedAt.ToExtendedISO8601(); s != "2024-05-01T07:00:00.500-05" {
		t.Errorf("collected at %s", s)
	}
	if len(r.Sections) != 1 || r.Sections["Stub"] == nil {
		t.Errorf("sections %v", r.Sections)
	}
	if r.Errors["broken"] != "no such device" {
		t.Errorf("errors %v", r.Errors)
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testBuilder().Build(ctx); err == nil {
		t.Error("canceled build succeeded")
	}
}

func TestSelect(t *testing.T) {
	all, err := Select(nil)
	if err != nil || len(all) != len(Plugins) {
		t.Fatalf("Select(nil) = %d plugins, %v", len(all), err)
	}
	got, err := Select([]string{"net", " DMI "})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "dmi" || got[1].Name != "net" {
		t.Errorf("Select kept %v", got)
	}
	if _, err := Select([]string{"dmi", "gpu", "fans"}); err == nil || !strings.Contains(err.Error(), "fans, gpu") {
		t.Errorf("unknown plugins: %v", err)
	}
}

func TestBuildFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Plugins.Enable = []string{"nonsense"}
	if _, err := Build(context.Background(), cfg, caltime.Host()); err == nil {
		t.Error("unknown plugin accepted")
	}
}

func TestEncodeJSON(t *testing.T) {
	r, err := testBuilder().Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	if err := r.Encode(buf, "json"); err != nil {
		t.Fatal(err)
	}
	var back struct {
		ID          string
		CollectedAt string
		Sections    map[string]stubInfo
		Errors      map[string]string
	}
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("%v\n%s", err, buf)
	}
	if back.ID != r.ID.String() || back.CollectedAt != "2024-05-01T07:00:00.500-05" {
		t.Errorf("header %+v", back)
	}
	stub := back.Sections["Stub"]
	if stub.Value != "ok" || !stub.Started.Equal(r.CollectedAt) {
		t.Errorf("stub section %+v", stub)
	}
	if back.Errors["broken"] == "" {
		t.Errorf("errors %v", back.Errors)
	}
}

func TestEncodeYAML(t *testing.T) {
	r, err := testBuilder().Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	if err := r.Encode(buf, "yaml"); err != nil {
		t.Fatal(err)
	}
	var back map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("%v\n%s", err, buf)
	}
	if back["host"] != "node1" || back["id"] != r.ID.String() {
		t.Errorf("decoded %v", back)
	}
	if err := r.Encode(buf, "xml"); err == nil {
		t.Error("xml accepted")
	}
}
