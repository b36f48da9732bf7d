package main

import (
	"io"
	"os"
	"time"

	docassist "github.com/alnah/go-docassist"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	NewMailer func(docassist.GraphConfig) (docassist.Mailer, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		NewMailer: docassist.NewGraphMailer,
	}
}
