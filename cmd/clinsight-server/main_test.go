package main

import "testing"

func TestServeCmd(t *testing.T) {
	cmd := serveCmd()
	if cmd.Use != "serve" {
		t.Errorf("expected serve command, got %q", cmd.Use)
	}
	if cmd.RunE == nil {
		t.Error("serve command has no run function")
	}
}

func TestMigrateCmdSubcommands(t *testing.T) {
	cmd := migrateCmd()
	if cmd.Use != "migrate" {
		t.Errorf("expected migrate command, got %q", cmd.Use)
	}

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Use] = true
	}
	for _, want := range []string{"up", "status"} {
		if !names[want] {
			t.Errorf("missing %q subcommand", want)
		}
	}
}
