package main

import (
	"bytes"
	"encoding/json"
	"testing"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("gopal %v: %v", args, err)
	}
	return out.Bytes()
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2004-12-03T16:20:10+02:30", "2004-12-03T16:20:10+02:30"},
		{"20041203T162010Z", "2004-12-03T16:20:10Z"},
		{"20041203162010.000000+150", "2004-12-03T16:20:10.000000+02:30"},
		{" 2024-02-29 ", "2024-02-29T00:00:00Z"},
	}
	for _, tt := range tests {
		got, err := parseTime(tt.in)
		if err != nil {
			t.Fatalf("parseTime(%q): %v", tt.in, err)
		}
		if s := got.ToExtendedISO8601(); s != tt.want {
			t.Errorf("parseTime(%q) = %s, want %s", tt.in, s, tt.want)
		}
	}
	for _, in := range []string{"", "yesterday", "2024-02-30", "2024-02-29T25:00:00Z"} {
		if _, err := parseTime(in); err == nil {
			t.Errorf("parseTime(%q) succeeded", in)
		}
	}
}

func TestTimeParseCommand(t *testing.T) {
	var v timeView
	if err := json.Unmarshal(run(t, "time", "parse", "--format", "json", "2004-12-03T14:20:10Z"), &v); err != nil {
		t.Fatal(err)
	}
	if v.Posix != 1102083610 || v.CIM != "20041203142010.000000+000" || v.Basic != "20041203T142010Z" {
		t.Errorf("view %+v", v)
	}
}

func TestTimeAddCommand(t *testing.T) {
	var v timeView
	if err := json.Unmarshal(run(t, "time", "add", "--format", "json", "2024-01-31T10:00:00Z", "P1M"), &v); err != nil {
		t.Fatal(err)
	}
	if v.ISO8601 != "2024-03-02T10:00:00Z" {
		t.Errorf("2024-01-31 plus a month = %s", v.ISO8601)
	}
}

func TestTimeAddPastLastYear(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"time", "add", "--format", "json", "2024-01-01T00:00:00Z", "P99999999999Y"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("added a duration past 9999")
	}
}

func TestTimeDiffCommand(t *testing.T) {
	var v struct {
		Difference string
		Seconds    float64
	}
	if err := json.Unmarshal(run(t, "time", "diff", "--format", "json", "2024-05-01T12:00:00Z", "2024-05-01T15:30:00+02:00"), &v); err != nil {
		t.Fatal(err)
	}
	if v.Seconds != 5400 || v.Difference != "PT5400S" {
		t.Errorf("diff %+v", v)
	}
}

func TestBadFormatFlag(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"time", "parse", "--format", "xml", "2024-05-01"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("xml output accepted")
	}
	format = ""
}
