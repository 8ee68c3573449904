// Package process implements batch annotation of documents coming from files,
// directories and zip archives.
package process

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	yaml "gopkg.in/yaml.v3"

	"hilite/annotate"
	"hilite/archive"
	"hilite/config"
	"hilite/state"
	"hilite/store"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("annotate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite, env.Force = cmd.Bool("nodirs"), cmd.Bool("overwrite"), cmd.Bool("force")
	env.DBPath = cmd.String("db")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	b, err := newBatch(env, src, dst, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, b.close())
	}()

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("run", b.runID))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)),
			zap.Int("annotated", b.ok), zap.Int("skipped", b.skipped), zap.Int("failed", b.failed))
	}(time.Now())

	if err := b.process(ctx, src); err != nil {
		return err
	}
	return b.result()
}

// batch keeps state of a single run over the source.
type batch struct {
	env      *state.LocalEnv
	log      *zap.Logger
	ann      *annotate.Annotator
	page     *pageBuilder
	db       *store.Store
	dst      string
	runID    string
	settings []byte

	ok, skipped, failed int
	errs                error
}

func newBatch(env *state.LocalEnv, src, dst string, log *zap.Logger) (*batch, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate run id: %w", err)
	}

	acfg := env.Cfg.Annotation
	var page *pageBuilder
	if env.Cfg.Output.Page {
		// markup is embedded into HTML page, so text must be escaped
		acfg.EscapeText = true
		if page, err = newPageBuilder(&env.Cfg.Output, log); err != nil {
			return nil, err
		}
	}

	// anything affecting produced output goes into document fingerprint
	settings, err := yaml.Marshal(struct {
		Annotation config.AnnotationConfig `yaml:"annotation"`
		Output     config.OutputConfig     `yaml:"output"`
	}{acfg, env.Cfg.Output})
	if err != nil {
		return nil, fmt.Errorf("unable to serialize annotation settings: %w", err)
	}

	b := &batch{
		env:      env,
		log:      log,
		ann:      NewAnnotator(&acfg, log),
		page:     page,
		dst:      dst,
		runID:    id.String(),
		settings: settings,
	}

	if path := env.StorePath(); len(path) > 0 {
		if b.db, err = store.Open(path); err != nil {
			return nil, err
		}
		if err = b.db.BeginRun(b.runID, src); err != nil {
			return nil, multierr.Append(err, b.db.Close())
		}
		log.Debug("Using results database", zap.String("path", path))
	}
	return b, nil
}

func (b *batch) close() (err error) {
	if b.db == nil {
		return nil
	}
	err = b.db.FinishRun(b.runID, b.ok+b.skipped, b.failed)
	return multierr.Append(err, b.db.Close())
}

func (b *batch) result() error {
	if b.failed == 0 {
		return nil
	}
	return fmt.Errorf("unable to annotate %d of %d document(s): %w", b.failed, b.ok+b.skipped+b.failed, b.errs)
}

// process determines the input type (directory, archive, or single file) and
// processes accordingly. Source could point inside archive.
func (b *batch) process(ctx context.Context, src string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := b.processDir(ctx, head); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := b.processArchive(ctx, head, filepath.ToSlash(tail), ""); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if isDocumentName(head) && len(tail) == 0 {
			// we have document, it cannot have tail
			file, err := os.Open(head)
			if err != nil {
				return fmt.Errorf("unable to open document: %w", err)
			}
			defer file.Close()
			b.handle(ctx, file, filepath.Base(head))
			break
		}
		return fmt.Errorf("input was not recognized as document (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding documents and archives and
// processes them in natural order of their relative paths.
func (b *batch) processDir(ctx context.Context, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			b.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slices.SortFunc(paths, archive.Compare)

	count := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			// checking format - but cannot open target file
			b.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			if err := b.processArchive(ctx, path, "", filepath.Dir(rel)); err != nil {
				b.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		if !isDocumentName(path) {
			b.log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			continue
		}

		count++
		if err := b.processFile(ctx, path, rel); err != nil {
			b.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}
	if count == 0 {
		b.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return nil
}

func (b *batch) processFile(ctx context.Context, path, src string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	b.handle(ctx, file, src)
	return nil
}

// processArchive walks all documents inside archive under "pathIn" and
// processes them. "pathOut" is directory of the archive relative to the
// source, it keeps output structure when archive was found during directory
// walk.
func (b *batch) processArchive(ctx context.Context, path, pathIn, pathOut string) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			b.log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	return archive.Walk(path, pathIn, isDocumentName, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++

		r, err := f.Open()
		if err != nil {
			b.log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		pathInArchive := f.FileHeader.Name
		if cp := b.env.CodePage; cp != nil && f.FileHeader.NonUTF8 {
			// forcing zip file name encoding
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				b.log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}
		b.handle(ctx, r, filepath.Join(pathOut, filepath.FromSlash(pathInArchive)))
		return nil
	})
}

// handle processes single document and accounts for result. Failing documents
// are saved into debug report.
func (b *batch) handle(ctx context.Context, r io.Reader, src string) {
	data, err := io.ReadAll(selectReader(r))
	skipped := false
	if err == nil {
		skipped, err = b.processDocument(ctx, data, src)
	}

	switch {
	case err != nil:
		b.failed++
		b.errs = multierr.Append(b.errs, fmt.Errorf("%s: %w", src, err))
		b.log.Error("Unable to annotate document", zap.String("file", src), zap.Error(err))
		b.env.Rpt.StoreData("failed/"+filepath.ToSlash(src), data)
	case skipped:
		b.skipped++
	default:
		b.ok++
	}
}

// processDocument annotates single document. "src" is part of the source path
// (always including file name) relative to the original path. When actual file
// was specified it will be just base file name without a path. When looking
// inside archive or directory it will be relative path inside archive or
// directory (including base file name).
func (b *batch) processDocument(ctx context.Context, data []byte, src string) (skipped bool, rerr error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	log := b.log.With(zap.String("from", src))
	outputName := buildOutputPath(src, b.dst, b.env.NoDirs)

	log.Debug("Annotation starting")
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Annotation ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("annotation panic: %v", r)
		} else if rerr == nil && !skipped {
			log.Info("Annotation completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	fingerprint := Fingerprint(b.settings, data)
	if b.db != nil && !b.env.Force {
		rec, found, err := b.db.Lookup(fingerprint)
		if err != nil {
			return false, err
		}
		if found {
			log.Info("Document was annotated before, skipping", zap.String("run", rec.RunID), zap.Time("created", rec.Created))
			return true, nil
		}
	}

	doc, err := DecodeDocument(src, bytes.NewReader(data))
	if err != nil {
		return false, err
	}
	tr, err := b.ann.Trace(doc)
	if err != nil {
		return false, err
	}
	markup := b.ann.Markup(tr)
	if b.env.Rpt != nil {
		b.env.Rpt.StoreData("trace/"+filepath.ToSlash(src)+".txt", []byte(tr.String()))
	}

	out := markup
	if b.page != nil {
		if out, err = b.page.build(doc, tr, markup, src, b.runID); err != nil {
			return false, err
		}
	}

	if err := b.prepareOutput(outputName, log); err != nil {
		return false, err
	}
	if err := os.WriteFile(outputName, []byte(out), 0644); err != nil {
		return false, fmt.Errorf("unable to write output: %w", err)
	}

	if b.db != nil {
		rec := store.Record{Fingerprint: fingerprint, Name: doc.Name, RunID: b.runID, Annotated: markup}
		if err := b.db.Put(rec); err != nil {
			return false, err
		}
	}

	// Store annotation result for debugging
	b.env.Rpt.Store("result/"+filepath.ToSlash(src)+outputExt, outputName)
	return false, nil
}

// prepareOutput checks if output file already exists and makes sure its
// directory is there.
func (b *batch) prepareOutput(outputName string, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !b.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
