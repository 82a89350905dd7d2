package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/LukasDorner/StreamGate/internal/pkg/env"
)

// SendMail delivers one HTML email through the configured SMTP relay.
// Purchase receipts are low volume, so a fresh connection per message keeps
// the relay handling simple.
func SendMail(to, subject, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "587")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "no-reply@streamgate.local")
	replyTo := env.GetEnv("SMTP_REPLY_TO", "")

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)
	msg := buildMessage(sender, to, subject, replyTo, body, time.Now())

	if err := smtp.SendMail(addr, auth, sender, []string{to}, msg); err != nil {
		log.Printf("mail to %s via %s failed: %v", to, addr, err)
		return err
	}
	log.Printf("mail sent to %s via %s", to, addr)
	return nil
}

func buildMessage(from, to, subject, replyTo, body string, sentAt time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: StreamGate <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	if replyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", sentAt.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
