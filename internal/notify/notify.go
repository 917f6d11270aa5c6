// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/log"
	"github.com/sheetwatch/sheetwatch/internal/version"
)

const (
	DefaultHost    = "smtp.gmail.com"
	DefaultPort    = 587
	DefaultTimeout = 60 * time.Second

	// DefaultRecipients is used when no recipient list is configured.
	DefaultRecipients = "compliance@example.com,operations@example.com"

	// RunHeader carries the run id on every message.
	RunHeader = "X-Sheetwatch-Run"
)

// Config is everything needed to submit one message.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
	Timeout    time.Duration
	RunID      string
}

// Validate checks that a message could be attempted. Every problem is an
// ErrConfig and is found before any connection is made.
func (c Config) Validate() error {
	var errs []error
	if c.Username == "" || c.Password == "" {
		errs = append(errs, errors.New("sender credentials are not set (GMAIL_USER/GMAIL_PASS)"))
	}
	if len(c.Recipients) == 0 {
		errs = append(errs, errors.New("no recipients"))
	}
	if c.Host == "" {
		errs = append(errs, errors.New("smtp host is empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("smtp port %d is out of range", c.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", failure.ErrConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// SendFunc delivers a built message.
type SendFunc func(ctx context.Context, cfg Config, msg *mail.Msg) error

// Mailer sends plain-text reports over SMTP.
type Mailer struct {
	cfg  Config
	send SendFunc
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithSendFunc replaces SMTP submission, mostly for tests.
func WithSendFunc(fn SendFunc) Option {
	return func(m *Mailer) {
		if fn != nil {
			m.send = fn
		}
	}
}

// NewMailer returns a Mailer for cfg. Zero Timeout means DefaultTimeout.
func NewMailer(cfg Config, opts ...Option) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	m := &Mailer{cfg: cfg, send: dialAndSend}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the mailer's settings.
func (m *Mailer) Config() Config {
	return m.cfg
}

// Message builds the message without sending it.
func (m *Mailer) Message(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.sender()); err != nil {
		return nil, fmt.Errorf("%w: invalid sender %q: %w", failure.ErrConfig, m.cfg.sender(), err)
	}
	if err := msg.To(m.cfg.Recipients...); err != nil {
		return nil, fmt.Errorf("%w: invalid recipients: %w", failure.ErrConfig, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.SetUserAgent(version.UserAgent())
	if m.cfg.RunID != "" {
		msg.SetGenHeader(mail.Header(RunHeader), m.cfg.RunID)
	}
	return msg, nil
}

// Send validates the config, builds the message and submits it. Submission
// failures wrap ErrDelivery.
func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}

	msg, err := m.Message(subject, body)
	if err != nil {
		return err
	}

	log.Debugf("sending mail: host=%s:%d recipients=%d subject=%q",
		m.cfg.Host, m.cfg.Port, len(m.cfg.Recipients), subject)
	if err := m.send(ctx, m.cfg, msg); err != nil {
		if errors.Is(err, failure.ErrConfig) {
			return err
		}
		return fmt.Errorf("%w: %w", failure.ErrDelivery, err)
	}
	log.Infof("mail sent to %s", strings.Join(m.cfg.Recipients, ","))
	return nil
}

// dialAndSend submits msg with mandatory STARTTLS and PLAIN auth.
func dialAndSend(ctx context.Context, cfg Config, msg *mail.Msg) error {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to create mail client: %w", failure.ErrConfig, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp submission to %s:%d failed: %w", cfg.Host, cfg.Port, err)
	}
	return nil
}

// ParseRecipients splits a comma list, trimming entries and dropping empties.
func ParseRecipients(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
