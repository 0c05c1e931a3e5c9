package mailer

import (
	"context"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"hubportal/internal/config"
	"hubportal/internal/services"
)

// Share is one program-sharing request.
type Share struct {
	Recipient   string
	ProgramName string
	Code        string
	SenderName  string
}

// Service defines the mail surface exposed to the server and CLI.
type Service interface {
	Enabled() bool
	ShareProgram(ctx context.Context, share Share) error
}

// NewService builds a mail service backed by SMTP when configured. When no
// SMTP host is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	host := strings.TrimSpace(cfg.Email.SMTPHost)
	if host == "" {
		return noopService{}
	}

	port := cfg.Email.SMTPPort
	if port <= 0 {
		port = 587
	}
	from := strings.TrimSpace(cfg.Email.From)
	if from == "" {
		from = "hubportal@localhost"
	}
	return &smtpService{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		from:     from,
		username: strings.TrimSpace(cfg.Email.Username),
		password: cfg.Email.Password,
		send:     smtp.SendMail,
	}
}

type smtpService struct {
	addr     string
	host     string
	from     string
	username string
	password string

	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func (s *smtpService) Enabled() bool { return true }

func (s *smtpService) ShareProgram(ctx context.Context, share Share) error {
	if err := validateShare(&share); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	message := buildMessage(s.from, share)
	if err := s.send(s.addr, auth, s.from, []string{share.Recipient}, message); err != nil {
		return services.Wrap(services.ErrUpstream, "mailer", "share",
			fmt.Sprintf("failed to send mail to %s", share.Recipient), err)
	}
	return nil
}

func buildMessage(from string, share Share) []byte {
	sender := strings.TrimSpace(share.SenderName)
	if sender == "" {
		sender = "A hub programmer"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", share.Recipient)
	fmt.Fprintf(&b, "Subject: %s shared a hub program: %s\r\n", sender, share.ProgramName)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "%s shared the program %q with you.\r\n\r\n", sender, share.ProgramName)
	b.WriteString(share.Code)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func validateShare(share *Share) error {
	share.Recipient = strings.TrimSpace(share.Recipient)
	if share.Recipient == "" {
		return services.Wrap(services.ErrValidation, "mailer", "validate", "recipient address is required", nil)
	}
	if _, err := mail.ParseAddress(share.Recipient); err != nil {
		return services.Wrap(services.ErrValidation, "mailer", "validate",
			fmt.Sprintf("invalid recipient address %q", share.Recipient), err)
	}
	share.ProgramName = strings.TrimSpace(share.ProgramName)
	if share.ProgramName == "" {
		share.ProgramName = "Untitled program"
	}
	if strings.TrimSpace(share.Code) == "" {
		return services.Wrap(services.ErrValidation, "mailer", "validate", "program code is empty", nil)
	}
	return nil
}

type noopService struct{}

func (noopService) Enabled() bool { return false }

func (noopService) ShareProgram(context.Context, Share) error {
	return services.Wrap(services.ErrConfiguration, "mailer", "share",
		"email sharing is not configured; set smtp_host in the [email] config section", nil)
}
