// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/accel/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInitCmd(t *testing.T, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "init", RunE: InitCmdRunE}
	InitCmdFlags(cmd)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	return cmd, &out
}

func TestInitPrint(t *testing.T) {
	cmd, out := newInitCmd(t, "--print")
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	var got config.Opt
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, config.NewOpt()); diff != "" {
		t.Errorf("printed template difference (-got +want):\n%s", diff)
	}
}

func TestInitOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cmd, _ := newInitCmd(t, "-o", path)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatal(err)
	}
	cmd, _ = newInitCmd(t, "-o", path)
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when the file exists without --yes")
	}
	cmd, _ = newInitCmd(t, "-o", path, "-y")
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommands(t *testing.T) {
	root := getRootCmd()
	for _, name := range []string{"init", "probe", "stream", "plot", "standby"} {
		c, _, err := root.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
	for _, name := range []string{"spi", "cs", "rate", "interval", "format"} {
		if StreamCmd.Flags().Lookup(name) == nil {
			t.Errorf("stream flag %q missing", name)
		}
	}
}

func TestRootCommandsRepeated(t *testing.T) {
	first := getRootCmd()
	if second := getRootCmd(); second != first {
		t.Error("getRootCmd returned a different command")
	}
	if n := len(first.Commands()); n != 5 {
		t.Errorf("%d subcommands registered, want 5", n)
	}
}
