package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	docassist "github.com/alnah/go-docassist"
	"github.com/alnah/go-docassist/internal/config"
	"github.com/alnah/go-docassist/internal/logging"
)

// runOperation executes an operation command: it resolves configuration,
// runs one job per input (or one job for all inputs), then delivers the
// artifacts to a directory or by email.
func runOperation(ctx context.Context, cmd command, args []string, env *Environment) error {
	f, paths, err := parseCommandFlags(cmd, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: usage: docassist %s %s", ErrNoInput, cmd.name, cmd.args)
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := resolveConfig(f, envCfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, f.common.verbose, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	files, err := readInputs(paths)
	if err != nil {
		return err
	}
	jobs := planJobs(cmd, paths, files, f.ranges, cfg.Output.Name)

	email := strings.ToLower(cfg.Delivery.Target) == config.TargetEmail
	var mail *docassist.MailDeliverer
	if email {
		mail, err = newMailDeliverer(cfg, envCfg, logger, env)
		if err != nil {
			return err
		}
	}

	procPool, err := docassist.NewProcessorPool(
		min(docassist.ResolvePoolSize(cfg.Workers), len(jobs)),
		processorOptions(cfg, logger)...,
	)
	if err != nil {
		return err
	}
	defer func() { _ = procPool.Close() }()

	var sink docassist.ProgressSink
	if len(jobs) == 1 && !f.common.quiet {
		bar := newBarSink(env.Stderr)
		defer bar.Close()
		sink = bar
	}

	pool := &poolAdapter{pool: procPool}

	if !email {
		results := runBatch(ctx, pool, jobs, sink, &docassist.DirDeliverer{Dir: cfg.Output.Dir})
		printResults(env.Stdout, env.Stderr, results, cfg.Output.Dir, f.common.quiet, f.common.verbose)
		return batchError(results)
	}

	results := runBatch(ctx, pool, jobs, sink, nil)
	if err := batchError(results); err != nil {
		printResults(env.Stdout, env.Stderr, results, "", f.common.quiet, f.common.verbose)
		return err
	}

	var artifacts []docassist.Artifact
	for _, r := range results {
		artifacts = append(artifacts, r.Artifacts...)
	}
	sent, err := mail.Deliver(ctx, artifacts, sink)
	if err != nil {
		return err
	}
	if !f.common.quiet {
		for _, a := range sent {
			fmt.Fprintf(env.Stdout, "Sent %s to %s\n", a.Name, mail.To)
		}
	}
	return nil
}

// resolveConfig loads the config file, then applies environment variables
// and flags on top: flags > env > file > defaults.
func resolveConfig(f *commandFlags, envCfg *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := f.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags overrides config values with explicitly set flags.
func mergeFlags(f *commandFlags, cfg *config.Config) {
	if f.output.dir != "" {
		cfg.Output.Dir = f.output.dir
	}
	if f.output.name != "" {
		cfg.Output.Name = f.output.name
	}
	if f.render.scale != 0 {
		cfg.Raster.Scale = f.render.scale
	}
	if f.render.quality != 0 {
		cfg.Raster.Quality = f.render.quality
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	if f.timeout != "" {
		cfg.Timeout = f.timeout
	}
	if f.templatesDir != "" {
		cfg.DOCX.TemplatesDir = f.templatesDir
	}
	if f.delivery.email != "" {
		cfg.Delivery.Target = config.TargetEmail
		cfg.Delivery.Email.To = f.delivery.email
	}
	if f.delivery.subject != "" {
		cfg.Delivery.Email.Subject = f.delivery.subject
	}
	if f.delivery.body != "" {
		cfg.Delivery.Email.Body = f.delivery.body
	}
	if f.delivery.bundleName != "" {
		cfg.Delivery.BundleName = f.delivery.bundleName
	}
	if f.common.logLevel != "" {
		cfg.Log.Level = f.common.logLevel
	}
	if f.common.logFormat != "" {
		cfg.Log.Format = f.common.logFormat
	}
}

// newLogger builds the diagnostic logger. --verbose lowers the level to debug.
func newLogger(cfg *config.Config, verbose bool, w io.Writer) (zerolog.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = zerolog.LevelDebugValue
	}
	return logging.New(logging.Config{Level: level, Format: cfg.Log.Format, Output: w})
}

// processorOptions translates the resolved config into processor options.
// Zero values keep the library defaults.
func processorOptions(cfg *config.Config, logger zerolog.Logger) []docassist.Option {
	opts := []docassist.Option{
		docassist.WithLogger(logger),
		docassist.WithLimits(docassist.Limits{
			MaxFiles:    cfg.Limits.MaxFiles,
			MaxFileSize: cfg.MaxFileSizeBytes(),
		}),
	}
	if cfg.Raster.Scale > 0 {
		opts = append(opts, docassist.WithRasterScale(cfg.Raster.Scale))
	}
	if cfg.Raster.Quality > 0 {
		opts = append(opts, docassist.WithJPEGQuality(cfg.Raster.Quality))
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, docassist.WithTimeout(d))
	}
	if cfg.DOCX.TemplatesDir != "" {
		opts = append(opts, docassist.WithDOCXTemplateDir(cfg.DOCX.TemplatesDir))
	}
	return opts
}

// newMailDeliverer builds the email deliverer backed by Microsoft Graph.
func newMailDeliverer(cfg *config.Config, envCfg *envConfig, logger zerolog.Logger, env *Environment) (*docassist.MailDeliverer, error) {
	mailer, err := env.NewMailer(docassist.GraphConfig{
		Endpoint:   cfg.Graph.Endpoint,
		Token:      envCfg.GraphToken,
		Timeout:    cfg.GraphTimeoutDuration(),
		MaxRetries: cfg.Graph.MaxRetries,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return &docassist.MailDeliverer{
		Mailer:     mailer,
		To:         cfg.Delivery.Email.To,
		Subject:    cfg.Delivery.Email.Subject,
		Body:       cfg.Delivery.Email.Body,
		BundleName: cfg.Delivery.BundleName,
		Now:        env.Now,
	}, nil
}

// readInputs loads every input file into memory.
func readInputs(paths []string) ([]docassist.File, error) {
	files := make([]docassist.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		files = append(files, docassist.File{
			Name:        filepath.Base(path),
			ContentType: contentTypeFor(path),
			Data:        data,
		})
	}
	return files, nil
}

// contentTypeFor maps known extensions to MIME types. Unknown extensions
// are left for the processor to reject.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return docassist.ContentTypePDF
	case ".jpg", ".jpeg":
		return docassist.ContentTypeJPEG
	case ".png":
		return docassist.ContentTypePNG
	}
	return ""
}

// planJobs groups files into processor runs. Per-file commands run once per
// input; with several inputs each job's artifacts are prefixed with the
// input's stem so names never collide.
func planJobs(cmd command, paths []string, files []docassist.File, ranges, name string) []job {
	if !cmd.perFile {
		return []job{{
			Label: strings.Join(paths, ", "),
			Input: docassist.Input{
				Operation:  cmd.operation,
				Files:      files,
				OutputName: name,
			},
		}}
	}

	jobs := make([]job, len(files))
	for i, file := range files {
		outName := name
		if len(files) > 1 {
			outName = batchName(name, file.Name)
		}
		jobs[i] = job{
			Label: paths[i],
			Input: docassist.Input{
				Operation:  cmd.operation,
				Files:      []docassist.File{file},
				Ranges:     ranges,
				OutputName: outName,
			},
		}
	}
	return jobs
}

// batchName derives a per-input artifact base name.
func batchName(name, fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if name == "" {
		return stem
	}
	return name + "_" + stem
}
