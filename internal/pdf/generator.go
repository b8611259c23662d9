package pdf

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"go-jobpilot-automation/internal/browser"
)

//go:embed templates/document.html
var defaultTemplate embed.FS

// PageSource opens a scratch page for rendering. browser.Session satisfies it.
type PageSource interface {
	NewPage() (browser.Page, error)
}

// Document is the text to render plus an optional heading.
type Document struct {
	Heading string
	Text    string
}

// Generator turns plain text into PDF files through an HTML template
// printed by the browser.
type Generator struct {
	tmpl      *template.Template
	outputDir string
	pages     PageSource
}

// NewGenerator parses templatePath, or the built-in layout when it is empty.
func NewGenerator(templatePath, outputDir string, pages PageSource) (*Generator, error) {
	funcMap := template.FuncMap{
		"join":       strings.Join,
		"paragraphs": paragraphs,
	}

	var (
		tmpl *template.Template
		err  error
	)
	if templatePath != "" {
		tmpl, err = template.New(filepath.Base(templatePath)).Funcs(funcMap).ParseFiles(templatePath)
	} else {
		tmpl, err = template.New("document.html").Funcs(funcMap).ParseFS(defaultTemplate, "templates/document.html")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}
	return &Generator{tmpl: tmpl, outputDir: outputDir, pages: pages}, nil
}

// HTML executes the template for doc.
func (g *Generator) HTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// Render writes doc to fileName inside the output directory and returns the path.
// The page used for printing is always closed.
func (g *Generator) Render(doc Document, fileName string) (string, error) {
	html, err := g.HTML(doc)
	if err != nil {
		return "", err
	}

	page, err := g.pages.NewPage()
	if err != nil {
		return "", fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(html); err != nil {
		return "", fmt.Errorf("could not set page content: %w", err)
	}

	outputPath := filepath.Join(g.outputDir, filepath.Base(fileName))
	if err := page.PDF(outputPath); err != nil {
		return "", fmt.Errorf("could not generate PDF: %w", err)
	}
	return outputPath, nil
}

// paragraphs splits text on blank lines, dropping empty blocks.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, block)
		}
	}
	return out
}
