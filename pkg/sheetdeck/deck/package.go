package deck

import (
	"archive/zip"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	goziputils "github.com/JJJJJJack/go-zip-utils"
)

//go:embed all:base
var baseFS embed.FS

const (
	contentTypesPart = "[Content_Types].xml"
	// contentTypesFile is the embedded name of contentTypesPart.
	contentTypesFile = "content_types.xml"
)

var (
	// ErrInvalidTemplate indicates the template is not a readable presentation package.
	ErrInvalidTemplate = errors.New("invalid presentation template")
	// ErrPartNotFound indicates a required package part is missing.
	ErrPartNotFound = errors.New("package part not found")
)

// opcPackage is an in-memory OOXML package keyed by part name.
type opcPackage struct {
	parts map[string][]byte
}

// loadBase returns the built-in single-layout presentation package.
func loadBase() (*opcPackage, error) {
	p := &opcPackage{parts: make(map[string][]byte)}
	err := fs.WalkDir(baseFS, "base", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := baseFS.ReadFile(name)
		if err != nil {
			return err
		}
		partName := strings.TrimPrefix(name, "base/")
		if partName == contentTypesFile {
			partName = contentTypesPart
		}
		p.parts[partName] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load base package: %w", err)
	}
	return p, nil
}

// loadTemplate reads a .pptx template.
func loadTemplate(data []byte) (*opcPackage, error) {
	zipMap, err := goziputils.NewZipMapFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	p := &opcPackage{parts: make(map[string][]byte, len(zipMap))}
	for name, f := range zipMap {
		if strings.HasSuffix(name, "/") {
			continue
		}
		content, err := goziputils.ReadZipFileContent(f)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidTemplate, name, err)
		}
		p.parts[name] = content
	}

	for _, required := range []string{contentTypesPart, presentationPart, presentationRelsPart} {
		if _, ok := p.parts[required]; !ok {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidTemplate, ErrPartNotFound, required)
		}
	}
	return p, nil
}

func (p *opcPackage) read(name string) ([]byte, error) {
	data, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return data, nil
}

func (p *opcPackage) write(name string, data []byte) {
	p.parts[name] = data
}

func (p *opcPackage) has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// names returns part names with the content types part first and the rest
// sorted, so identical packages produce identical archives.
func (p *opcPackage) names() []string {
	names := make([]string, 0, len(p.parts))
	for name := range p.parts {
		if name != contentTypesPart {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if p.has(contentTypesPart) {
		names = append([]string{contentTypesPart}, names...)
	}
	return names
}

// save writes the package as a zip archive.
func (p *opcPackage) save(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range p.names() {
		if err := goziputils.WriteFile(zw, name, p.parts[name]); err != nil {
			return fmt.Errorf("write part %s: %w", name, err)
		}
	}
	return zw.Close()
}

// nextPartIndex returns the smallest n >= 1 such that no part
// prefix+n+suffix exists.
func (p *opcPackage) nextPartIndex(prefix, suffix string) int {
	for n := 1; ; n++ {
		if !p.has(fmt.Sprintf("%s%d%s", prefix, n, suffix)) {
			return n
		}
	}
}
