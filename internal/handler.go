package internal

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	ico "github.com/sergeymakinen/go-ico"
	_ "golang.org/x/image/webp"

	"github.com/nocturnecity/iconresizer/pkg"
)

const tempFilePerm = 0o644

type ResizerOption func(ir *IconResizer)

func WithPublisher(p Publisher) ResizerOption { return func(ir *IconResizer) { ir.publisher = p } }

func WithMetrics(m *Metrics) ResizerOption { return func(ir *IconResizer) { ir.metrics = m } }

// NewIconResizer returns a resizer that reports each saved file on out.
func NewIconResizer(request pkg.Request, out io.Writer, stdLog *StdLog, opts ...ResizerOption) *IconResizer {
	ir := &IconResizer{
		Request:      request,
		out:          out,
		log:          stdLog,
		cleanUpFiles: []string{},
	}
	for _, opt := range opts {
		opt(ir)
	}
	if ir.metrics == nil {
		ir.metrics = NewMetrics()
	}
	return ir
}

type IconResizer struct {
	Request      pkg.Request
	out          io.Writer
	log          *StdLog
	metrics      *Metrics
	publisher    Publisher
	cleanUpFiles []string
}

// ProcessRequest decodes the source and writes every target in order. The first failure stops
// the run; icons already written stay on disk.
func (ir *IconResizer) ProcessRequest() (*pkg.Response, error) {
	defer ir.cleanup()
	ir.log.Debug("Processing request %+v", ir.Request)

	result, err := ir.process()
	if err != nil {
		ir.metrics.observeFailure(err)
		return nil, err
	}
	ir.metrics.observeSuccess(time.Now())
	return result, nil
}

func (ir *IconResizer) process() (*pkg.Response, error) {
	if _, err := os.Stat(ir.Request.SourcePath); errors.Is(err, fs.ErrNotExist) {
		return nil, &SourceNotFoundError{Path: ir.Request.SourcePath}
	}

	src, err := ir.decodeSource()
	if err != nil {
		return nil, &ProcessingError{Err: err}
	}

	result := &pkg.Response{Sizes: map[string]pkg.ResultSize{}}
	for _, target := range pkg.Targets() {
		size, err := ir.processTarget(src, target)
		if err != nil {
			return nil, &ProcessingError{Err: err}
		}
		result.Sizes[target.Name] = *size
		if _, err := fmt.Fprintf(ir.out, "Saved %s\n", target.Name); err != nil {
			return nil, &ProcessingError{Err: fmt.Errorf("report %s: %w", target.Name, err)}
		}
	}

	if ir.publisher != nil {
		for _, target := range pkg.Targets() {
			key, err := ir.publisher.Publish(result.Sizes[target.Name].Path, target)
			if err != nil {
				return nil, &ProcessingError{Err: fmt.Errorf("publish error: %w", err)}
			}
			ir.log.Info("Published %s as %s", target.Name, key)
		}
	}

	return result, nil
}

func (ir *IconResizer) decodeSource() (image.Image, error) {
	file, err := os.Open(ir.Request.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			ir.log.Error("error closing source file: %v", err)
		}
	}(file)

	src, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ir.Request.SourcePath, err)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: image has no pixels", ir.Request.SourcePath)
	}
	ir.log.Debug("Decoded source %s (%dx%d)", ir.Request.SourcePath, src.Bounds().Dx(), src.Bounds().Dy())
	return src, nil
}

// processTarget stretches src to the target size; aspect ratio is not preserved.
func (ir *IconResizer) processTarget(src image.Image, target pkg.Target) (*pkg.ResultSize, error) {
	start := time.Now()
	resized := imaging.Resize(src, target.Width, target.Height, imaging.Lanczos)

	path := filepath.Join(ir.Request.OutputDir, target.Name)
	if err := ir.save(resized, target.Format, path); err != nil {
		return nil, fmt.Errorf("save %s: %w", target.Name, err)
	}
	ir.metrics.observeWritten(target.Name, time.Since(start))
	ir.log.WithField("file", path).Debugf("Wrote %dx%d %s", target.Width, target.Height, target.Format)

	return &pkg.ResultSize{
		Path:   path,
		Width:  resized.Bounds().Dx(),
		Height: resized.Bounds().Dy(),
	}, nil
}

// save encodes into a temporary file next to path and renames it over path.
func (ir *IconResizer) save(img image.Image, format pkg.Format, path string) error {
	tmp := ir.generateTempFileName(filepath.Dir(path))
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, tempFilePerm)
	if err != nil {
		return err
	}

	err = encode(file, img, format)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func encode(w io.Writer, img image.Image, format pkg.Format) error {
	switch format {
	case pkg.FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case pkg.FormatICO:
		return ico.Encode(w, img)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

func (ir *IconResizer) generateTempFileName(dir string) string {
	filename := filepath.Join(dir, fmt.Sprintf(".%s.tmp", uuid.New()))
	ir.cleanUpFiles = append(ir.cleanUpFiles, filename)

	return filename
}

func (ir *IconResizer) cleanup() {
	for _, toDelete := range ir.cleanUpFiles {
		err := os.Remove(toDelete)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			ir.log.Error("error clean up file delete: %v", err)
		}
	}
	ir.cleanUpFiles = ir.cleanUpFiles[:0]
}
