package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iabetor/ziwei-verify/internal/chart"
	"github.com/iabetor/ziwei-verify/internal/config"
)

type stubEngine struct {
	hours []int
	err   error
}

func (s *stubEngine) ComputeChart(_ context.Context, q chart.Query) (*chart.Result, error) {
	s.hours = append(s.hours, q.Hour)
	if s.err != nil {
		return nil, s.err
	}
	return &chart.Result{
		FiveElementsClass: "火六局",
		LunarDate:         "一九八九年九月十八",
		ChineseDate:       "己巳 甲戌 庚戌 壬午",
		Palaces:           []chart.Palace{{Name: "父母", EarthlyBranch: "丑", HeavenlyStem: "乙"}},
	}, nil
}

func withStubEngine(t *testing.T, e *stubEngine) {
	t.Helper()
	orig := engineFactory
	engineFactory = func(config.EngineConfig) chart.Engine { return e }
	t.Cleanup(func() { engineFactory = orig })
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "ziwei-verify" {
		t.Errorf("expected use 'ziwei-verify', got %q", cmd.Use)
	}
	if cmd.Version == "" {
		t.Error("expected non-empty version")
	}
	for _, name := range []string{"config", "crosscheck"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "version" {
			found = true
		}
	}
	if !found {
		t.Error("expected version subcommand")
	}
}

func TestRootCmd_DefaultRun(t *testing.T) {
	engine := &stubEngine{}
	withStubEngine(t, engine)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(engine.hours) != 3 || engine.hours[0] != 11 || engine.hours[2] != 13 {
		t.Errorf("engine hours = %v, want [11 12 13]", engine.hours)
	}
	if !strings.Contains(out.String(), "  主星: 无主星\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "历法校验") {
		t.Error("cross-check should be off without --crosscheck")
	}
}

func TestRootCmd_ConfigAndCrossCheck(t *testing.T) {
	engine := &stubEngine{}
	withStubEngine(t, engine)

	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("report:\n  hours: [12]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "--crosscheck"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(engine.hours) != 1 || engine.hours[0] != 12 {
		t.Errorf("engine hours = %v, want [12]", engine.hours)
	}
	if !strings.Contains(out.String(), "历法校验") {
		t.Error("expected cross-check section")
	}
}

func TestRootCmd_EngineFailure(t *testing.T) {
	engine := &stubEngine{err: errors.New("node: not found")}
	withStubEngine(t, engine)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(nil)

	err := cmd.Execute()
	var ee *chart.EngineError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *chart.EngineError, got %v", err)
	}
	if len(engine.hours) != 1 {
		t.Errorf("run should stop after first failure, engine called %d times", len(engine.hours))
	}
}

func TestRootCmd_MissingConfig(t *testing.T) {
	withStubEngine(t, &stubEngine{})

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "/nonexistent/ziwei.yaml"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "ziwei-verify version ") {
		t.Errorf("unexpected version output: %q", out.String())
	}
}
