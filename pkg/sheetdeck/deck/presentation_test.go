package deck

import (
	"strings"
	"testing"
)

const testPresentation = `<p:presentation xmlns:r="r" xmlns:p="p"><p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
	`<p:sldIdLst><p:sldId id="256" r:id="rId7"/><p:sldId id="300" r:id="rId6"/></p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`

func TestExistingSlides(t *testing.T) {
	refs := existingSlides([]byte(testPresentation))
	expected := []slideRef{{id: 256, rID: "rId7"}, {id: 300, rID: "rId6"}}
	if len(refs) != len(expected) {
		t.Fatalf("Expected %d slides, got %+v", len(expected), refs)
	}
	for i := range expected {
		if refs[i] != expected[i] {
			t.Errorf("Slide %d = %+v, expected %+v", i, refs[i], expected[i])
		}
	}

	if got := maxSlideID(refs); got != 300 {
		t.Errorf("maxSlideID = %d, expected 300", got)
	}
	if got := maxSlideID(nil); got != firstSlideID-1 {
		t.Errorf("maxSlideID(nil) = %d, expected %d", got, firstSlideID-1)
	}
}

func TestWriteSlideList(t *testing.T) {
	refs := []slideRef{{id: 257, rID: "rId9"}}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"replace list", testPresentation, false},
		{"insert before size", `<p:presentation><p:sldMasterIdLst/><p:sldSz cx="1" cy="1"/></p:presentation>`, false},
		{"empty list", `<p:presentation><p:sldIdLst/><p:sldSz cx="1" cy="1"/></p:presentation>`, false},
		{"no anchor", `<p:presentation></p:presentation>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := writeSlideList([]byte(tt.input), refs)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("writeSlideList failed: %v", err)
			}
			s := string(out)
			if strings.Count(s, "<p:sldIdLst>") != 1 {
				t.Errorf("Expected exactly one slide list: %s", s)
			}
			if !strings.Contains(s, `<p:sldIdLst><p:sldId id="257" r:id="rId9"/></p:sldIdLst><p:sldSz`) {
				t.Errorf("Slide list not placed before the slide size: %s", s)
			}
			got := existingSlides(out)
			if len(got) != 1 || got[0] != refs[0] {
				t.Errorf("existingSlides after write = %+v", got)
			}
		})
	}
}

func TestRelationships(t *testing.T) {
	rels := relationshipsXML(
		[3]string{"rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"},
		[3]string{"rId4", relTypeChart, "../charts/chart1.xml"},
	)
	if got := nextRelID(rels); got != 5 {
		t.Errorf("nextRelID = %d, expected 5", got)
	}

	rels = addRelationship(rels, "rId5", relTypeSlide, "slides/slide1.xml")
	if got := nextRelID(rels); got != 6 {
		t.Errorf("nextRelID after add = %d, expected 6", got)
	}
	if !strings.HasSuffix(string(rels), `Target="slides/slide1.xml"/></Relationships>`) {
		t.Errorf("Relationship not appended: %s", rels)
	}

	charts := parseRels(rels, "chart")
	if len(charts) != 1 || charts["rId4"] != "../charts/chart1.xml" {
		t.Errorf("parseRels(chart) = %v", charts)
	}
	if got := nextRelID([]byte(`<Relationships/>`)); got != 1 {
		t.Errorf("nextRelID(empty) = %d, expected 1", got)
	}
}

func TestContentTypes(t *testing.T) {
	ct := []byte(`<Types><Default Extension="xml" ContentType="application/xml"/></Types>`)

	ct = addOverride(ct, "ppt/slides/slide1.xml", contentTypeSlide)
	ct = addOverride(ct, "ppt/slides/slide1.xml", contentTypeSlide)
	if n := strings.Count(string(ct), `PartName="/ppt/slides/slide1.xml"`); n != 1 {
		t.Errorf("Expected one override, got %d", n)
	}

	ct = ensureDefault(ct, "xlsx", contentTypeXLSX)
	ct = ensureDefault(ct, "xlsx", contentTypeXLSX)
	if n := strings.Count(string(ct), `Extension="xlsx"`); n != 1 {
		t.Errorf("Expected one xlsx default, got %d", n)
	}

	upper := ensureDefault([]byte(`<Types><Default Extension="XLSX" ContentType="x"/></Types>`), "xlsx", contentTypeXLSX)
	if strings.Count(string(upper), "Extension=") != 1 {
		t.Errorf("Default added despite existing upper-case extension: %s", upper)
	}
}

func TestFindLayout(t *testing.T) {
	tests := []struct {
		name     string
		parts    map[string]string
		expected string
		wantErr  bool
	}{
		{
			name: "title only preferred",
			parts: map[string]string{
				"ppt/slideLayouts/slideLayout1.xml": `<p:sldLayout type="title"/>`,
				"ppt/slideLayouts/slideLayout6.xml": `<p:sldLayout type="titleOnly"/>`,
			},
			expected: "ppt/slideLayouts/slideLayout6.xml",
		},
		{
			name: "lowest number otherwise",
			parts: map[string]string{
				"ppt/slideLayouts/slideLayout10.xml": `<p:sldLayout type="blank"/>`,
				"ppt/slideLayouts/slideLayout2.xml":  `<p:sldLayout type="obj"/>`,
			},
			expected: "ppt/slideLayouts/slideLayout2.xml",
		},
		{
			name:    "no layouts",
			parts:   map[string]string{"ppt/presentation.xml": ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &opcPackage{parts: make(map[string][]byte)}
			for name, data := range tt.parts {
				p.write(name, []byte(data))
			}
			got, err := findLayout(p)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("findLayout failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("findLayout = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestPackage(t *testing.T) {
	p, err := loadBase()
	if err != nil {
		t.Fatalf("loadBase failed: %v", err)
	}
	for _, required := range []string{contentTypesPart, presentationPart, presentationRelsPart, "_rels/.rels"} {
		if !p.has(required) {
			t.Errorf("Base package missing %s", required)
		}
	}
	if names := p.names(); names[0] != contentTypesPart {
		t.Errorf("Content types part must come first, got %s", names[0])
	}

	if got := p.nextPartIndex("ppt/slides/slide", ".xml"); got != 1 {
		t.Errorf("nextPartIndex = %d, expected 1", got)
	}
	p.write("ppt/slides/slide1.xml", nil)
	p.write("ppt/slides/slide3.xml", nil)
	if got := p.nextPartIndex("ppt/slides/slide", ".xml"); got != 2 {
		t.Errorf("nextPartIndex = %d, expected 2", got)
	}

	if _, err := p.read("ppt/missing.xml"); err == nil {
		t.Error("Expected error for missing part")
	}
}

func TestRelsPartFor(t *testing.T) {
	tests := []struct {
		part     string
		expected string
	}{
		{"ppt/slides/slide1.xml", "ppt/slides/_rels/slide1.xml.rels"},
		{"ppt/charts/chart12.xml", "ppt/charts/_rels/chart12.xml.rels"},
		{"ppt/presentation.xml", presentationRelsPart},
	}
	for _, tt := range tests {
		if got := relsPartFor(tt.part); got != tt.expected {
			t.Errorf("relsPartFor(%q) = %q, expected %q", tt.part, got, tt.expected)
		}
	}
}
