package process

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"strings"
	ttemplate "text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"hilite/annotate"
	"hilite/config"
	"hilite/css"
)

//go:embed default.css
var defaultStylesheet []byte

//go:embed page.html.tmpl
var defaultPageTemplate string

// PageValues are available to page and title templates.
type PageValues struct {
	Title      string
	SourceFile string
	Run        string
	// Classes lists distinct classes used by the document.
	Classes    []string
	Stylesheet template.CSS
	Markup     template.HTML
}

// pageBuilder wraps annotated markup into complete HTML page.
type pageBuilder struct {
	log   *zap.Logger
	title *ttemplate.Template
	page  *template.Template
	sheet *css.Stylesheet
	style template.CSS
}

func newPageBuilder(cfg *config.OutputConfig, log *zap.Logger) (*pageBuilder, error) {
	style, styleName := defaultStylesheet, "default.css"
	if len(cfg.Stylesheet) > 0 {
		data, err := os.ReadFile(cfg.Stylesheet)
		if err != nil {
			return nil, fmt.Errorf("unable to read stylesheet: %w", err)
		}
		style, styleName = data, cfg.Stylesheet
	}

	text := defaultPageTemplate
	if len(cfg.Template) > 0 {
		data, err := os.ReadFile(cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("unable to read page template: %w", err)
		}
		text = string(data)
	}
	page, err := template.New("page").Funcs(sprig.HtmlFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse page template: %w", err)
	}

	title, err := ttemplate.New(config.TitleTemplateFieldName).Funcs(sprig.FuncMap()).Parse(cfg.TitleTemplate)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template field %s: %w", config.TitleTemplateFieldName, err)
	}

	sheet := css.NewParser(log).Parse(style, styleName)
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet problem", zap.String("stylesheet", styleName), zap.String("warning", w))
	}
	log.Debug("Page output prepared", zap.String("stylesheet", styleName),
		zap.Int("rules", sheet.Rules), zap.Int("classes", len(sheet.Classes)))

	return &pageBuilder{
		log:   log,
		title: title,
		page:  page,
		sheet: sheet,
		style: template.CSS(style),
	}, nil
}

// build renders the page for a single document. Classes the stylesheet knows
// nothing about are reported but do not fail the document.
func (p *pageBuilder) build(doc annotate.Document, tr *annotate.Trace, markup, src, run string) (string, error) {
	values := PageValues{
		Title:      doc.Name,
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Run:        run,
		Classes:    usedClasses(tr),
		Stylesheet: p.style,
		Markup:     template.HTML(markup),
	}
	if missing := p.sheet.Missing(values.Classes); len(missing) > 0 {
		p.log.Warn("Stylesheet has no rules for classes", zap.String("file", src), zap.Strings("classes", missing))
	}

	buf := new(bytes.Buffer)
	if err := p.title.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand page title: %w", err)
	}
	values.Title = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := p.page.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand page template: %w", err)
	}
	return buf.String(), nil
}

func usedClasses(tr *annotate.Trace) []string {
	classes := make([]string, 0, len(tr.Spans))
	for _, s := range tr.Spans {
		for class := range strings.FieldsSeq(s.Class) {
			if !slices.Contains(classes, class) {
				classes = append(classes, class)
			}
		}
	}
	slices.Sort(classes)
	return classes
}
