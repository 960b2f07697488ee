package mailer

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// DefaultLayout is the HTML layout file wrapping every rendered body.
const DefaultLayout = "layout.html"

// Content is a rendered template.
type Content struct {
	Tags    map[string]string
	Locale  string // Locale the template was found in
	Subject string
	HTML    string
	Text    string
}

type parsedTemplate struct {
	subject *texttemplate.Template
	body    *texttemplate.Template
	tags    map[string]string
	locale  string
}

// Renderer turns localized markdown templates into HTML and plain-text
// bodies. Templates live at "<locale>/<name>.md" and fall back to the
// default locale's copy. Parsed templates are cached.
type Renderer struct {
	fsys          fs.FS
	md            goldmark.Markdown
	layout        *htmltemplate.Template
	cache         sync.Map
	defaultLocale string
}

// NewRenderer parses the layout from fsys and returns a renderer whose
// fallback locale is defaultLocale.
func NewRenderer(fsys fs.FS, defaultLocale string) (*Renderer, error) {
	raw, err := fs.ReadFile(fsys, DefaultLayout)
	if err != nil {
		return nil, errors.Join(ErrLayoutNotFound, err)
	}
	layout, err := htmltemplate.New(DefaultLayout).Parse(string(raw))
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	return &Renderer{
		fsys:          fsys,
		md:            newMarkdown(),
		layout:        layout,
		defaultLocale: defaultLocale,
	}, nil
}

// Render executes template name for loc with data.
func (r *Renderer) Render(loc, name string, data any) (Content, error) {
	t, err := r.lookup(loc, name)
	if err != nil {
		return Content{}, err
	}

	var subject, text bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return Content{}, errors.Join(ErrRenderFailed, err)
	}
	if err := t.body.Execute(&text, data); err != nil {
		return Content{}, errors.Join(ErrRenderFailed, err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(text.Bytes(), &body); err != nil {
		return Content{}, errors.Join(ErrRenderFailed, err)
	}

	var html bytes.Buffer
	if err := r.layout.Execute(&html, map[string]any{
		"Subject": subject.String(),
		"Locale":  t.locale,
		"Content": htmltemplate.HTML(body.String()), //nolint:gosec // goldmark output with raw HTML disabled
	}); err != nil {
		return Content{}, errors.Join(ErrRenderFailed, err)
	}

	return Content{
		Locale:  t.locale,
		Subject: strings.TrimSpace(subject.String()),
		HTML:    html.String(),
		Text:    strings.TrimSpace(text.String()),
		Tags:    t.tags,
	}, nil
}

func (r *Renderer) lookup(loc, name string) (*parsedTemplate, error) {
	candidates := []string{loc}
	if loc != r.defaultLocale {
		candidates = append(candidates, r.defaultLocale)
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		file := path.Join(candidate, name+".md")
		if cached, ok := r.cache.Load(file); ok {
			return cached.(*parsedTemplate), nil
		}

		raw, err := fs.ReadFile(r.fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Join(ErrTemplateNotFound, err)
		}

		t, err := parseTemplate(file, candidate, raw)
		if err != nil {
			return nil, err
		}
		actual, _ := r.cache.LoadOrStore(file, t)
		return actual.(*parsedTemplate), nil
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrTemplateNotFound, name, loc)
}

func parseTemplate(file, loc string, raw []byte) (*parsedTemplate, error) {
	meta, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if meta.Subject == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoSubject, file)
	}

	subject, err := texttemplate.New(file + ":subject").Option("missingkey=error").Parse(meta.Subject)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	bodyTmpl, err := texttemplate.New(file).Option("missingkey=error").Parse(string(body))
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	return &parsedTemplate{
		subject: subject,
		body:    bodyTmpl,
		tags:    meta.Tags,
		locale:  loc,
	}, nil
}
