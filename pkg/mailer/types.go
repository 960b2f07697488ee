package mailer

import "net/mail"

// Email is a rendered message ready for delivery.
type Email struct {
	Tags    map[string]string // Provider tags, used for analytics
	From    string            // Overrides the sender's default address
	ReplyTo string
	Subject string
	HTML    string
	Text    string // Plain-text alternative
	To      []string
}

// Recipient formats an RFC 5322 address. The name is dropped when empty.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}
