package docassist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-docassist/internal/bundle"
	"github.com/alnah/go-docassist/internal/fileutil"
	"github.com/alnah/go-docassist/internal/graph"
)

// Delivery defaults.
const (
	DefaultBundleName = "output"
	DefaultSubject    = graph.DefaultSubject
	DefaultBody       = graph.DefaultBody
	msgSendingEmail   = "Sending email..."
	sendingPercent    = 30
)

// Deliverer hands finished artifacts to their destination and returns what
// was actually delivered (a bundle may replace several artifacts).
type Deliverer interface {
	Deliver(ctx context.Context, artifacts []Artifact, sink ProgressSink) ([]Artifact, error)
}

// Compile-time interface checks.
var (
	_ Deliverer = (*DirDeliverer)(nil)
	_ Deliverer = (*MailDeliverer)(nil)
	_ Mailer    = (*graphMailer)(nil)
)

// Bundle packs artifacts into one ZIP artifact named name+".zip", entries in
// artifact order. A blank name uses DefaultBundleName.
func Bundle(artifacts []Artifact, name string, modTime time.Time) (Artifact, error) {
	entries := make([]bundle.Entry, len(artifacts))
	for i, a := range artifacts {
		entries[i] = bundle.Entry{Name: a.Name, Data: a.Data}
	}
	data, err := bundle.Zip(entries, modTime)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Name:        baseName(name, DefaultBundleName) + ".zip",
		ContentType: ContentTypeZIP,
		Data:        data,
	}, nil
}

// DirDeliverer saves artifacts as files in Dir, creating it if needed.
// Existing files are replaced.
type DirDeliverer struct {
	Dir string
}

// Deliver writes every artifact and returns them unchanged.
func (d *DirDeliverer) Deliver(ctx context.Context, artifacts []Artifact, _ ProgressSink) ([]Artifact, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := fileutil.ValidateFileName(a.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOutputName, err)
		}
		if err := fileutil.WriteFileAtomic(filepath.Join(dir, a.Name), a.Data); err != nil {
			return nil, err
		}
	}
	return artifacts, nil
}

// Mail is one outgoing message with a single attachment.
type Mail struct {
	To         string
	Subject    string
	Body       string
	Attachment Artifact
}

// Mailer sends mail.
type Mailer interface {
	SendMail(ctx context.Context, m Mail) error
}

// MailDeliverer sends artifacts as one mail attachment. Several artifacts
// are bundled into BundleName.zip first.
type MailDeliverer struct {
	Mailer     Mailer
	To         string
	Subject    string // default DefaultSubject
	Body       string // default DefaultBody
	BundleName string // default DefaultBundleName
	Now        func() time.Time
}

// Deliver sends the artifacts and returns the attachment that was sent.
func (d *MailDeliverer) Deliver(ctx context.Context, artifacts []Artifact, sink ProgressSink) ([]Artifact, error) {
	if d.Mailer == nil {
		return nil, ErrDeliveryNotConfigured
	}
	if strings.TrimSpace(d.To) == "" {
		return nil, ErrMissingRecipient
	}
	if len(artifacts) == 0 {
		return nil, ErrBundleEmpty
	}
	if sink == nil {
		sink = nopSink{}
	}

	stage := newStage(sink, msgSendingEmail)
	stage.set(sendingPercent)

	payload := artifacts[0]
	if len(artifacts) > 1 {
		now := time.Now
		if d.Now != nil {
			now = d.Now
		}
		var err error
		payload, err = Bundle(artifacts, d.BundleName, now())
		if err != nil {
			return nil, err
		}
	}

	err := d.Mailer.SendMail(ctx, Mail{
		To:         d.To,
		Subject:    baseName(d.Subject, DefaultSubject),
		Body:       baseName(d.Body, DefaultBody),
		Attachment: payload,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	stage.set(100)
	return []Artifact{payload}, nil
}

// GraphConfig configures the Microsoft Graph mailer. Zero fields take the
// client defaults.
type GraphConfig struct {
	Endpoint   string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	Logger     zerolog.Logger
}

// NewGraphMailer returns a Mailer that posts to Graph /me/sendMail with a
// bearer token. Returns ErrDeliveryNotConfigured without a token.
func NewGraphMailer(cfg GraphConfig) (Mailer, error) {
	client, err := graph.New(graph.Config{
		Endpoint:   cfg.Endpoint,
		Token:      cfg.Token,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeliveryNotConfigured, err)
	}
	return &graphMailer{client: client}, nil
}

type graphMailer struct {
	client *graph.Client
}

func (g *graphMailer) SendMail(ctx context.Context, m Mail) error {
	return g.client.SendMail(ctx, graph.Message{
		To:      m.To,
		Subject: m.Subject,
		Body:    m.Body,
		Attachment: graph.Attachment{
			Name:        m.Attachment.Name,
			ContentType: m.Attachment.ContentType,
			Data:        m.Attachment.Data,
		},
	})
}
