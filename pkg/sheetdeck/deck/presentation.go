package deck

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	presentationPart     = "ppt/presentation.xml"
	presentationRelsPart = "ppt/_rels/presentation.xml.rels"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeChart       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	relTypePackage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/package"

	contentTypeSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	contentTypeChart = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	contentTypeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// firstSlideID is the lowest slide id PowerPoint accepts.
	firstSlideID = 256
)

var (
	slideIDPattern     = regexp.MustCompile(`<p:sldId\b[^>]*/>`)
	slideIDListPattern = regexp.MustCompile(`(?s)<p:sldIdLst>.*?</p:sldIdLst>|<p:sldIdLst\s*/>`)
	idAttrPattern      = regexp.MustCompile(`\bid="(\d+)"`)
	rIDAttrPattern     = regexp.MustCompile(`\br:id="([^"]+)"`)
	relIDPattern       = regexp.MustCompile(`\bId="rId(\d+)"`)
	layoutPartPattern  = regexp.MustCompile(`^ppt/slideLayouts/slideLayout(\d+)\.xml$`)
	slideSizePattern   = regexp.MustCompile(`<p:sldSz\b[^>]*>`)
	cxAttrPattern      = regexp.MustCompile(`\bcx="(\d+)"`)
	cyAttrPattern      = regexp.MustCompile(`\bcy="(\d+)"`)
)

// slideRef is one entry of the presentation slide list.
type slideRef struct {
	id  int
	rID string
}

// existingSlides returns the slide list of presentation.xml in deck order.
func existingSlides(presXML []byte) []slideRef {
	var refs []slideRef
	for _, m := range slideIDPattern.FindAll(presXML, -1) {
		idMatch := idAttrPattern.FindSubmatch(m)
		rIDMatch := rIDAttrPattern.FindSubmatch(m)
		if idMatch == nil || rIDMatch == nil {
			continue
		}
		id, err := strconv.Atoi(string(idMatch[1]))
		if err != nil {
			continue
		}
		refs = append(refs, slideRef{id: id, rID: string(rIDMatch[1])})
	}
	return refs
}

// maxSlideID returns the highest slide id in use, or firstSlideID-1.
func maxSlideID(refs []slideRef) int {
	maxID := firstSlideID - 1
	for _, r := range refs {
		if r.id > maxID {
			maxID = r.id
		}
	}
	return maxID
}

// writeSlideList replaces the slide list of presentation.xml.
func writeSlideList(presXML []byte, refs []slideRef) ([]byte, error) {
	var list strings.Builder
	list.WriteString("<p:sldIdLst>")
	for _, r := range refs {
		fmt.Fprintf(&list, `<p:sldId id="%d" r:id="%s"/>`, r.id, r.rID)
	}
	list.WriteString("</p:sldIdLst>")

	if slideIDListPattern.Match(presXML) {
		return slideIDListPattern.ReplaceAllLiteral(presXML, []byte(list.String())), nil
	}

	// The slide list precedes the slide size element.
	idx := bytes.Index(presXML, []byte("<p:sldSz"))
	if idx < 0 {
		return nil, fmt.Errorf("%s: no slide list or slide size element", presentationPart)
	}
	out := make([]byte, 0, len(presXML)+list.Len())
	out = append(out, presXML[:idx]...)
	out = append(out, list.String()...)
	out = append(out, presXML[idx:]...)
	return out, nil
}

// slideSize returns the slide width and height of presentation.xml in EMU,
// falling back to the built-in 16:9 size.
func slideSize(presXML []byte) (width, height int64) {
	width, height = defaultSlideWidth, defaultSlideHeight
	m := slideSizePattern.Find(presXML)
	if m == nil {
		return width, height
	}
	if cx := cxAttrPattern.FindSubmatch(m); cx != nil {
		if v, err := strconv.ParseInt(string(cx[1]), 10, 64); err == nil && v > 0 {
			width = v
		}
	}
	if cy := cyAttrPattern.FindSubmatch(m); cy != nil {
		if v, err := strconv.ParseInt(string(cy[1]), 10, 64); err == nil && v > 0 {
			height = v
		}
	}
	return width, height
}

// nextRelID returns the next free rIdN number in a relationships part.
func nextRelID(relsXML []byte) int {
	maxID := 0
	for _, m := range relIDPattern.FindAllSubmatch(relsXML, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > maxID {
			maxID = n
		}
	}
	return maxID + 1
}

// addRelationship appends a relationship to a relationships part.
func addRelationship(relsXML []byte, id, relType, target string) []byte {
	rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, relType, escapeXML(target))
	return insertBefore(relsXML, "</Relationships>", rel)
}

// relationshipsXML builds a relationships part.
func relationshipsXML(rels ...[3]string) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r[0], r[1], escapeXML(r[2]))
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

// addOverride registers a part content type unless already present.
func addOverride(ctXML []byte, partName, contentType string) []byte {
	if bytes.Contains(ctXML, []byte(`PartName="/`+partName+`"`)) {
		return ctXML
	}
	return insertBefore(ctXML, "</Types>", fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, partName, contentType))
}

// ensureDefault registers an extension content type unless already present.
func ensureDefault(ctXML []byte, ext, contentType string) []byte {
	if bytes.Contains(bytes.ToLower(ctXML), []byte(`extension="`+ext+`"`)) {
		return ctXML
	}
	return insertBefore(ctXML, "</Types>", fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, ext, contentType))
}

func insertBefore(data []byte, marker, insert string) []byte {
	idx := bytes.LastIndex(data, []byte(marker))
	if idx < 0 {
		return data
	}
	out := make([]byte, 0, len(data)+len(insert))
	out = append(out, data[:idx]...)
	out = append(out, insert...)
	out = append(out, data[idx:]...)
	return out
}

// findLayout picks the slide layout for chart slides: the "Title Only"
// layout when the package has one, otherwise the lowest numbered layout.
func findLayout(p *opcPackage) (string, error) {
	type layout struct {
		n    int
		part string
	}
	var layouts []layout
	for name := range p.parts {
		m := layoutPartPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		layouts = append(layouts, layout{n: n, part: name})
	}
	if len(layouts) == 0 {
		return "", fmt.Errorf("%w: no slide layouts", ErrPartNotFound)
	}
	sort.Slice(layouts, func(i, j int) bool { return layouts[i].n < layouts[j].n })

	for _, l := range layouts {
		data := p.parts[l.part]
		if bytes.Contains(data, []byte(`type="titleOnly"`)) || bytes.Contains(data, []byte(`name="Title Only"`)) {
			return l.part, nil
		}
	}
	return layouts[0].part, nil
}
