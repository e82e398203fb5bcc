// Package matchdays loads the per-month matchday documents the standings are
// computed from.
package matchdays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/prode/internal/domain/model"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

const defaultMaxBytes = 8 << 20

// Document is a decoded data file. Checksum changes whenever the file
// content does, so callers can key derived results on it.
type Document struct {
	Matchdays []model.Matchday
	Checksum  string
}

// Source provides the matchdays of a month.
type Source interface {
	// Load reads and decodes the named data file.
	Load(ctx context.Context, name string) (Document, error)
}

// FileSource reads data files from a directory. Supported extensions are
// .json and .txt (plain JSON), .jsonc (JSON with comments and trailing
// commas) and .yaml/.yml.
type FileSource struct {
	dir      string
	maxBytes int64
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a source rooted at dir. Absolute names bypass dir.
func NewFileSource(dir string, opts ...Option) *FileSource {
	s := &FileSource{dir: dir, maxBytes: defaultMaxBytes}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context, name string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, name)
	}

	decode, err := decoderFor(path)
	if err != nil {
		return Document{}, err
	}

	raw, err := s.read(path)
	if err != nil {
		return Document{}, err
	}

	// Standardize rewrites JSONC in place, so hash first.
	sum := checksum(raw)

	var days []model.Matchday
	if err := decode(raw, &days); err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	if days == nil {
		days = []model.Matchday{}
	}
	return Document{Matchdays: days, Checksum: sum}, nil
}

func (s *FileSource) read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, path, s.maxBytes)
	}
	return raw, nil
}

type decodeFunc func([]byte, *[]model.Matchday) error

func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".txt":
		return decodeJSON, nil
	case ".jsonc":
		return decodeJSONC, nil
	case ".yaml", ".yml":
		return decodeYAML, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

func decodeJSON(raw []byte, out *[]model.Matchday) error {
	return json.Unmarshal(raw, out)
}

func decodeJSONC(raw []byte, out *[]model.Matchday) error {
	std, err := hujson.Standardize(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(std, out)
}

func decodeYAML(raw []byte, out *[]model.Matchday) error {
	return yaml.Unmarshal(raw, out)
}

func checksum(raw []byte) string {
	return strconv.FormatUint(xxhash.Sum64(raw), 16)
}
