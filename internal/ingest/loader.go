// Package ingest locates and parses the raw channel files of an acquisition.
//
// An acquisition is a directory holding one CSV whose name contains "I_raw"
// and one whose name contains "Q_raw". Each file has header rows followed by
// one row per pulse; the leading metadata columns are kept so the baseband
// stage can drop them.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/microdoppler/internal/fsutil"
	"github.com/banshee-data/microdoppler/internal/microdoppler"
	"gonum.org/v1/gonum/mat"
)

// File name markers and the default extension.
const (
	IMarker          = "I_raw"
	QMarker          = "Q_raw"
	DefaultExtension = ".csv"
)

// Loader reads channel pairs through a FileSystem.
type Loader struct {
	FS              fsutil.FileSystem
	HeaderRows      int
	MetadataColumns int
	Extension       string
}

// NewLoader returns a loader for CSV acquisitions.
func NewLoader(fsys fsutil.FileSystem, headerRows, metadataColumns int) *Loader {
	return &Loader{
		FS:              fsys,
		HeaderRows:      headerRows,
		MetadataColumns: metadataColumns,
		Extension:       DefaultExtension,
	}
}

func (l *Loader) ext() string {
	if l.Extension == "" {
		return DefaultExtension
	}
	return l.Extension
}

// Locate returns the paths of the first I and Q files in dir, by name.
func (l *Loader) Locate(dir string) (iPath, qPath string, err error) {
	entries, err := l.FS.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("read acquisition dir %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), l.ext()) {
			continue
		}
		if iPath == "" && strings.Contains(name, IMarker) {
			iPath = filepath.Join(dir, name)
		}
		if qPath == "" && strings.Contains(name, QMarker) {
			qPath = filepath.Join(dir, name)
		}
	}
	switch {
	case iPath == "" && qPath == "":
		return "", "", fmt.Errorf("%w: no %s or %s file in %s", microdoppler.ErrMissingChannel, IMarker, QMarker, dir)
	case iPath == "":
		return "", "", fmt.Errorf("%w: no %s file in %s", microdoppler.ErrMissingChannel, IMarker, dir)
	case qPath == "":
		return "", "", fmt.Errorf("%w: no %s file in %s", microdoppler.ErrMissingChannel, QMarker, dir)
	}
	return iPath, qPath, nil
}

// Load reads the channel pair stored in dir and labels it.
func (l *Loader) Load(dir, label string) (microdoppler.ChannelPair, error) {
	iPath, qPath, err := l.Locate(dir)
	if err != nil {
		return microdoppler.ChannelPair{}, err
	}
	i, err := l.readMatrix(iPath)
	if err != nil {
		return microdoppler.ChannelPair{}, err
	}
	q, err := l.readMatrix(qPath)
	if err != nil {
		return microdoppler.ChannelPair{}, err
	}
	ir, ic := i.Dims()
	qr, qc := q.Dims()
	if ir != qr || ic != qc {
		return microdoppler.ChannelPair{}, fmt.Errorf("%w: %s is %dx%d, %s is %dx%d",
			microdoppler.ErrShapeMismatch, filepath.Base(iPath), ir, ic, filepath.Base(qPath), qr, qc)
	}
	return microdoppler.ChannelPair{Label: label, I: i, Q: q}, nil
}

func (l *Loader) readMatrix(path string) (*mat.Dense, error) {
	f, err := l.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseMatrix(f, l.HeaderRows, l.MetadataColumns)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// ParseMatrix reads a pulse-major CSV matrix. headerRows leading records are
// skipped. Metadata columns that are not numbers are stored as NaN; every
// other field must parse as a float and every row must have the same width.
func ParseMatrix(r io.Reader, headerRows, metadataColumns int) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var (
		data  []float64
		width int
		rows  int
		line  int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV data: %w", err)
		}
		line++
		if line <= headerRows {
			continue
		}
		if rows == 0 {
			width = len(record)
		} else if len(record) != width {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", microdoppler.ErrShapeMismatch, line, len(record), width)
		}
		for c, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				if c < metadataColumns {
					v = math.NaN()
				} else {
					return nil, fmt.Errorf("invalid sample at line %d column %d: %w", line, c+1, err)
				}
			}
			data = append(data, v)
		}
		rows++
	}
	if rows == 0 || width == 0 {
		return nil, fmt.Errorf("%w: no data rows after %d header rows", microdoppler.ErrInsufficientSamples, headerRows)
	}
	return mat.NewDense(rows, width, data), nil
}

// Acquisition is one directory of channel files found under a root.
type Acquisition struct {
	// Label is the slash-separated path of Dir relative to the root, or the
	// root's base name when the root itself is an acquisition.
	Label string
	Dir   string
}

// Discover walks root depth first, visiting entries by name, and returns
// every directory holding an I channel file.
func (l *Loader) Discover(root string) ([]Acquisition, error) {
	root = filepath.Clean(root)
	info, err := l.FS.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat input root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input root %s is not a directory", root)
	}

	var found []Acquisition
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := l.FS.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read %s: %w", dir, err)
		}
		if hasChannel(entries, l.ext()) {
			found = append(found, Acquisition{Label: label(root, dir), Dir: dir})
		}
		for _, e := range entries {
			if e.IsDir() {
				if err := walk(filepath.Join(dir, e.Name())); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return found, nil
}

func hasChannel(entries []fs.DirEntry, ext string) bool {
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) && strings.Contains(e.Name(), IMarker) {
			return true
		}
	}
	return false
}

func label(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return filepath.Base(dir)
	}
	return filepath.ToSlash(rel)
}
