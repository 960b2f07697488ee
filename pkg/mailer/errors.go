package mailer

import "errors"

var (
	ErrNoRecipient        = errors.New("mailer: no recipient")
	ErrNoSubject          = errors.New("mailer: no subject")
	ErrNoContent          = errors.New("mailer: no content")
	ErrTemplateNotFound   = errors.New("mailer: template not found")
	ErrLayoutNotFound     = errors.New("mailer: layout not found")
	ErrInvalidFrontmatter = errors.New("mailer: invalid frontmatter")
	ErrRenderFailed       = errors.New("mailer: failed to render")
	ErrSendFailed         = errors.New("mailer: failed to send")
)
