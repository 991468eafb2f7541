// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package smtpconf

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// Mailer delivers plain-text notifications through the stored SMTP relay.
//
// # Config Resolution
//
// The relay settings are read from the repository on every send, so a PATCH
// to /smtp takes effect immediately without a restart. Sending fails when no
// configuration exists.
type Mailer struct {
	repository Repository
	logger     *slog.Logger
}

// NewMailer constructs a [Mailer] reading its relay settings from repository.
func NewMailer(repository Repository, logger *slog.Logger) *Mailer {
	return &Mailer{repository: repository, logger: logger}
}

/*
Send delivers a plain-text message to the recipient address.

Description: Dials the configured relay (honoring context cancellation),
optionally negotiates STARTTLS and authenticates, then submits a minimal
RFC 5322 message. Failures are returned to the caller; there is no retry.

Parameters:
  - context: context.Context
  - to: string (recipient email)
  - subject: string
  - body: string

Returns:
  - error: Missing configuration or delivery failures
*/
func (mailer *Mailer) Send(context context.Context, to, subject, body string) error {

	config, err := mailer.repository.Get(context)
	if err != nil {
		return fmt.Errorf("mailer: email configuration not found: %w", err)
	}

	address := net.JoinHostPort(config.Server, strconv.Itoa(config.Port))

	// net/smtp has no context support, so the dial carries the deadline and
	// the rest of the exchange runs on the established connection.
	var dialer net.Dialer
	conn, err := dialer.DialContext(context, "tcp", address)
	if err != nil {
		return fmt.Errorf("mailer: failed to connect to %s: %w", address, err)
	}

	client, err := smtp.NewClient(conn, config.Server)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mailer: smtp handshake failed: %w", err)
	}
	defer client.Close()

	if config.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: config.Server}); err != nil {
			return fmt.Errorf("mailer: starttls failed: %w", err)
		}
	}

	if config.Username != "" && config.Password != "" {
		auth := smtp.PlainAuth("", config.Username, config.Password, config.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mailer: smtp authentication failed: %w", err)
		}
	}

	if err := client.Mail(config.SenderEmail); err != nil {
		return fmt.Errorf("mailer: sender refused: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("mailer: recipient refused: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("mailer: data command failed: %w", err)
	}

	message := buildMessage(config.SenderName, config.SenderEmail, to, subject, body)
	if _, err := writer.Write([]byte(message)); err != nil {
		writer.Close()
		return fmt.Errorf("mailer: message write failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("mailer: message submit failed: %w", err)
	}

	mailer.logger.InfoContext(context, "email_dispatched",
		slog.String("to", to),
		slog.String("subject", subject),
	)

	return client.Quit()
}

// buildMessage assembles a minimal plain-text RFC 5322 message.
func buildMessage(senderName, senderEmail, to, subject, body string) string {
	var b strings.Builder

	from := senderEmail
	if senderName != "" {
		from = senderName + " <" + senderEmail + ">"
	}

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")

	return b.String()
}
