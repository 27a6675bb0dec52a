package main

import (
	"bytes"
	"os"
	"testing"
)

func TestCommandStructure(t *testing.T) {
	t.Run("root command is configured", func(t *testing.T) {
		if rootCmd.Use == "" {
			t.Error("rootCmd.Use should not be empty")
		}
		if rootCmd.Short == "" {
			t.Error("rootCmd.Short should not be empty")
		}
		if len(rootCmd.Commands()) == 0 {
			t.Error("rootCmd should have subcommands")
		}
	})

	t.Run("essential commands are present", func(t *testing.T) {
		expected := []string{"generate", "check", "init", "status", "version"}

		cmdMap := make(map[string]bool)
		for _, cmd := range rootCmd.Commands() {
			cmdMap[cmd.Name()] = true
		}

		for _, name := range expected {
			if !cmdMap[name] {
				t.Errorf("missing expected command %q", name)
			}
		}
	})

	t.Run("global flags are configured", func(t *testing.T) {
		flag := rootCmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("verbose flag should be configured")
		}
		if flag.DefValue != "false" {
			t.Error("verbose flag should default to false")
		}
	})

	t.Run("generate command flags", func(t *testing.T) {
		for _, name := range []string{"config", "validate", "watch"} {
			if generateCmd.Flags().Lookup(name) == nil {
				t.Errorf("generate command should have a --%s flag", name)
			}
		}
	})
}

func TestRootCommandHelp(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs([]string{"--help"})
	err := rootCmd.Execute()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	if err != nil {
		t.Errorf("root command help failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("root command help should produce output")
	}

	rootCmd.SetArgs([]string{})
}
