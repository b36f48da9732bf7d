// Package graph sends mail with one file attachment through the Microsoft
// Graph sendMail endpoint. Authentication is a caller-supplied bearer token.
package graph

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Defaults.
const (
	DefaultEndpoint   = "https://graph.microsoft.com/v1.0"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
	DefaultSubject    = "Your processed document"
	DefaultBody       = "Please find the file attached."
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Sentinel errors.
var (
	ErrNoToken   = errors.New("graph access token is required")
	ErrNoTo      = errors.New("recipient address is required")
	ErrRejected  = errors.New("graph rejected the request")
	ErrTransport = errors.New("graph request failed")
)

// Config configures a Client. Zero fields take the defaults.
type Config struct {
	Endpoint   string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Attachment is the single file sent with a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is one outgoing mail.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment Attachment
}

// Client calls Microsoft Graph.
type Client struct {
	endpoint   string
	token      string
	maxRetries int
	http       *http.Client
	log        zerolog.Logger
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrNoToken
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.Token,
		maxRetries: cfg.MaxRetries,
		http:       hc,
		log:        cfg.Logger,
	}, nil
}

// Wire format of POST /me/sendMail.
type sendMailRequest struct {
	Message         mailMessage `json:"message"`
	SaveToSentItems bool        `json:"saveToSentItems"`
}

type mailMessage struct {
	Subject      string           `json:"subject"`
	Body         itemBody         `json:"body"`
	ToRecipients []recipient      `json:"toRecipients"`
	Attachments  []fileAttachment `json:"attachments"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type fileAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SendMail posts msg to /me/sendMail. Empty subject and body take the
// defaults. Rate-limited requests are retried.
func (c *Client) SendMail(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoTo
	}
	if msg.Subject == "" {
		msg.Subject = DefaultSubject
	}
	if msg.Body == "" {
		msg.Body = DefaultBody
	}

	payload, err := json.Marshal(sendMailRequest{
		Message: mailMessage{
			Subject:      msg.Subject,
			Body:         itemBody{ContentType: "Text", Content: msg.Body},
			ToRecipients: []recipient{{EmailAddress: emailAddress{Address: msg.To}}},
			Attachments: []fileAttachment{{
				ODataType:    "#microsoft.graph.fileAttachment",
				Name:         msg.Attachment.Name,
				ContentType:  msg.Attachment.ContentType,
				ContentBytes: base64.StdEncoding.EncodeToString(msg.Attachment.Data),
			}},
		},
		SaveToSentItems: true,
	})
	if err != nil {
		return fmt.Errorf("encoding sendMail request: %w", err)
	}

	url := c.endpoint + "/me/sendMail"
	newReq := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := doWithRetry(ctx, c.http, newReq, c.maxRetries, c.log)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Debug().
			Str("attachment", msg.Attachment.Name).
			Int("bytes", len(msg.Attachment.Data)).
			Msg("mail sent")
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRejected, describeError(resp))
}

// describeError renders a Graph error response as "status: code: message".
func describeError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error.Message != "" {
		return fmt.Sprintf("%s: %s: %s", resp.Status, er.Error.Code, er.Error.Message)
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return fmt.Sprintf("%s: %s", resp.Status, text)
	}
	return resp.Status
}
