package main

import "testing"

func TestCommandTree(t *testing.T) {
	for _, name := range []string{"create", "deposit", "pay", "transfer", "balance", "list", "bench"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered: %v", name, err)
		}
	}
}

func TestArgsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"deposit", []string{"only-id"}},
		{"transfer", []string{"a", "b"}},
		{"balance", nil},
	}
	for _, tt := range tests {
		cmd, _, _ := rootCmd.Find([]string{tt.name})
		if err := cmd.Args(cmd, tt.args); err == nil {
			t.Fatalf("%s accepted %v", tt.name, tt.args)
		}
	}
}
