package mailer

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// frontmatter holds the per-template metadata block.
type frontmatter struct {
	Subject string            `yaml:"subject"`
	Tags    map[string]string `yaml:"tags"`
}

// splitFrontmatter separates a leading "---" delimited YAML block from the
// markdown body. Content without a leading fence is all body.
func splitFrontmatter(content []byte) (frontmatter, []byte, error) {
	var meta frontmatter

	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	if !bytes.HasPrefix(content, fence) {
		return meta, content, nil
	}

	rest := bytes.TrimLeft(content[len(fence):], "\r\n")

	var head, body []byte
	if bytes.HasPrefix(rest, fence) {
		body = rest[len(fence):]
	} else {
		var ok bool
		head, body, ok = bytes.Cut(rest, append([]byte("\n"), fence...))
		if !ok {
			return meta, nil, errors.Join(ErrInvalidFrontmatter, errors.New("closing delimiter not found"))
		}
	}

	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &meta); err != nil {
			return meta, nil, errors.Join(ErrInvalidFrontmatter, err)
		}
	}

	return meta, bytes.TrimLeft(body, "\r\n"), nil
}
