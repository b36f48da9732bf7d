package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docassist/internal/graph"
	"github.com/alnah/go-docassist/internal/hints"
	"github.com/alnah/go-docassist/internal/pdfdoc"
	"github.com/alnah/go-docassist/internal/raster"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Engines  engineInfo `json:"engines"`
	Email    emailInfo  `json:"email"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// engineInfo holds PDF engine probe results.
type engineInfo struct {
	PDFWrite bool `json:"pdf_write"` // pdfcpu built and re-read a PDF
	Render   bool `json:"render"`    // MuPDF rendered a page
}

// emailInfo holds email delivery configuration.
type emailInfo struct {
	TokenSet bool   `json:"token_set"`
	Endpoint string `json:"endpoint"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "print machine-readable JSON")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor()

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkEngines(result)
	checkEmail(result)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEngines builds a one-page PDF with pdfcpu and renders it with MuPDF.
func checkEngines(result *doctorResult) {
	data, err := probePDF()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("PDF engine failed: %v", err))
		return
	}
	result.Engines.PDFWrite = true

	if err := probeRender(data); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Page renderer failed: %v. to-jpg, to-docx, bookmarks and info need MuPDF", err))
		return
	}
	result.Engines.Render = true
}

// probePDF embeds a small generated image as a PDF page and parses it back.
func probePDF() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		img.Set(x, x, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	var e pdfdoc.Embedder
	if err := e.Add(&buf); err != nil {
		return nil, err
	}
	data, err := e.Bytes()
	if err != nil {
		return nil, err
	}

	doc, err := pdfdoc.Load(data)
	if err != nil {
		return nil, err
	}
	if n := doc.PageCount(); n != 1 {
		return nil, fmt.Errorf("expected 1 page, read back %d", n)
	}
	return data, nil
}

// probeRender renders every page of data.
func probeRender(data []byte) error {
	doc, err := raster.Open(data, raster.Options{Scale: 1})
	if err != nil {
		return err
	}
	defer func() { _ = doc.Close() }()

	for _, err := range doc.Pages(context.Background()) {
		if err != nil {
			return err
		}
	}
	return nil
}

// checkEmail reports whether Graph delivery can authenticate.
func checkEmail(result *doctorResult) {
	result.Email.Endpoint = os.Getenv("DOCASSIST_GRAPH_ENDPOINT")
	if result.Email.Endpoint == "" {
		result.Email.Endpoint = graph.DefaultEndpoint
	}
	result.Email.TokenSet = os.Getenv(hints.GraphTokenEnv) != ""
	if !result.Email.TokenSet {
		result.Warnings = append(result.Warnings,
			hints.GraphTokenEnv+" not set. Email delivery (--email) is unavailable")
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("DOCASSIST_CONTAINER") == "1" {
		return true, "DOCASSIST_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "docassist-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "docassist doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PDF engines")
	if r.Engines.PDFWrite {
		fmt.Fprintln(w, "  [OK] pdfcpu: builds and reads PDFs")
	} else {
		fmt.Fprintln(w, "  [ERROR] pdfcpu: probe failed")
	}
	if r.Engines.Render {
		fmt.Fprintln(w, "  [OK] MuPDF: renders pages")
	} else {
		fmt.Fprintln(w, "  [ERROR] MuPDF: not available")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Email")
	fmt.Fprintf(w, "  [OK] Endpoint: %s\n", r.Email.Endpoint)
	if r.Email.TokenSet {
		fmt.Fprintf(w, "  [OK] %s: set\n", hints.GraphTokenEnv)
	} else {
		fmt.Fprintf(w, "  [WARN] %s: not set\n", hints.GraphTokenEnv)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
