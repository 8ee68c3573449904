package process

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"hilite/annotate"
	"hilite/config"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

func documentFormat(name string) (format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return formatJSON, true
	case ".yaml", ".yml":
		return formatYAML, true
	}
	return 0, false
}

// DecodeDocument reads single document, format is selected by name
// extension. When document does not carry its own name, name is used.
func DecodeDocument(name string, r io.Reader) (annotate.Document, error) {
	var doc annotate.Document

	f, ok := documentFormat(name)
	if !ok {
		return doc, fmt.Errorf("unsupported document format %q", filepath.Ext(name))
	}

	var err error
	switch f {
	case formatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case formatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	}
	if errors.Is(err, io.EOF) {
		return doc, errors.New("empty document")
	}
	if err != nil {
		return doc, fmt.Errorf("unable to decode document: %w", err)
	}
	if len(doc.Name) == 0 {
		doc.Name = name
	}
	return doc, nil
}

// NewAnnotator builds annotator according to configuration.
func NewAnnotator(cfg *config.AnnotationConfig, log *zap.Logger) *annotate.Annotator {
	return annotate.New(
		annotate.WithPolicy(cfg.Policy),
		annotate.WithStrategy(cfg.Strategy),
		annotate.WithOffsetUnit(cfg.Offsets),
		annotate.WithClasses(annotate.ClassMap{Classes: cfg.Classes, Slug: cfg.SlugFallback}),
		annotate.WithRelationClass(cfg.RelationClass),
		annotate.WithKeepEmpty(cfg.KeepEmpty),
		annotate.WithEscape(cfg.EscapeText),
		annotate.WithLogger(log),
	)
}

// Fingerprint identifies result of annotation: the same source annotated with
// the same settings produces the same markup.
func Fingerprint(settings, source []byte) string {
	h := blake3.New()
	_, _ = h.Write(settings)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}
