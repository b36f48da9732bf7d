package main

// Notes:
// - printUsage/printCommandUsage: we test that required content strings are
//   present in the output. We don't test exact formatting.
// - runHelp: we test routing to the correct help topic.

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintUsage - Main usage output
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	output := buf.String()

	required := []string{"Usage: docassist", "Commands:", "info", "doctor", "version", "help"}
	for _, c := range commands {
		required = append(required, c.name)
	}

	for _, s := range required {
		if !strings.Contains(output, s) {
			t.Errorf("printUsage output should contain %q", s)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPrintCommandUsage - Per-command flag sections
// ---------------------------------------------------------------------------

func TestPrintCommandUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    []string
		notWant []string
	}{
		{
			name:    "merge",
			want:    []string{"docassist merge", "--output", "--email", "--workers"},
			notWant: []string{"--ranges", "--scale", "--templates-dir"},
		},
		{
			name:    "split",
			want:    []string{"docassist split", "--ranges", "1-3,5-7,10-"},
			notWant: []string{"--scale"},
		},
		{
			name:    "to-jpg",
			want:    []string{"--scale", "--quality"},
			notWant: []string{"--templates-dir", "--ranges"},
		},
		{
			name: "to-docx",
			want: []string{"--scale", "--templates-dir"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, ok := lookupCommand(tt.name)
			if !ok {
				t.Fatalf("lookupCommand(%q) not found", tt.name)
			}
			var buf bytes.Buffer
			printCommandUsage(&buf, cmd)
			output := buf.String()

			for _, s := range tt.want {
				if !strings.Contains(output, s) {
					t.Errorf("usage should contain %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(output, s) {
					t.Errorf("usage should not contain %q", s)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Help topic routing
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{"no topic", nil, "Commands:", ""},
		{"operation command", []string{"bookmarks"}, "docassist bookmarks", ""},
		{"info", []string{"info"}, "docassist info", ""},
		{"doctor", []string{"doctor"}, "docassist doctor", ""},
		{"version", []string{"version"}, "docassist version", ""},
		{"help", []string{"help"}, "docassist help", ""},
		{"unknown", []string{"frobnicate"}, "", "Unknown command: frobnicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			runHelp(tt.args, env)

			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
