// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package smtpconf manages the platform's outbound email configuration.

A single EmailConfig row holds the SMTP relay settings. The package also
provides the [Mailer], which reads that row at send time and delivers
plain-text notifications (OTP codes) through the configured relay.
*/
package smtpconf

import "time"

// EmailConfig is the single-row SMTP relay configuration.
//
// The password is write-only at the API surface: it is accepted on create
// and update but never serialized back to clients.
type EmailConfig struct {
	Server      string    `json:"smtp_server"`
	Port        int       `json:"smtp_port"`
	SenderEmail string    `json:"sender_email"`
	SenderName  string    `json:"sender_name"`
	Username    string    `json:"smtp_username,omitempty"`
	Password    string    `json:"-"`
	UseTLS      bool      `json:"use_tls"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
