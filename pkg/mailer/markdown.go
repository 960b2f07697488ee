package mailer

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// buttonTitle marks a markdown link to be rendered as a call-to-action
// button: [Open dashboard](https://app.example.com "button").
const buttonTitle = "button"

// buttonLinks turns links titled "button" into anchors with class="button".
type buttonLinks struct{}

func (buttonLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok && string(link.Title) == buttonTitle {
			link.Title = nil
			link.SetAttributeString("class", []byte("button"))
		}
		return ast.WalkContinue, nil
	})
}

// newMarkdown returns the converter used for email bodies. Raw HTML in
// templates is omitted, so interpolated user input cannot inject markup.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Table),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(buttonLinks{}, 100)),
		),
	)
}
