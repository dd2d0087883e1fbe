package domain

import (
	"encoding/json"
	"testing"
)

func TestProjectJSONRoundTrip(t *testing.T) {
	p := NewProject("RoundTrip")
	p.Pages[0].Name = "Hero"
	p.Pages[0].Screenshot = []byte{0x89, 0x50, 0x4e, 0x47}
	p.Pages[0].Texts = append(p.Pages[0].Texts, NewTextElement("Hi"))

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Project
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != p.Name || got.ActivePageID != p.ActivePageID {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Pages) != 1 || len(got.Pages[0].Texts) != 1 {
		t.Fatalf("unexpected page structure: %+v", got)
	}
	if got.Pages[0].Texts[0].Text != "Hi" {
		t.Fatalf("caption text lost: %+v", got.Pages[0].Texts[0])
	}
	if string(got.Pages[0].Screenshot) != string(p.Pages[0].Screenshot) {
		t.Fatalf("screenshot bytes lost")
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("decoded project invalid: %v", err)
	}
}

func TestNewProjectHasOneActiveDefaultPage(t *testing.T) {
	p := NewProject("Fresh")
	if len(p.Pages) != 1 {
		t.Fatalf("want exactly one page, got %d", len(p.Pages))
	}
	if p.ActivePageID != p.Pages[0].ID {
		t.Fatalf("first page not active: %q vs %q", p.ActivePageID, p.Pages[0].ID)
	}
	pg := p.Pages[0]
	if !pg.Canvas.Positive() {
		t.Fatalf("default canvas not positive: %+v", pg.Canvas)
	}
	if pg.DeviceHeight <= 0 || pg.DeviceHeight >= pg.Canvas.H {
		t.Fatalf("default device height out of range: %v", pg.DeviceHeight)
	}
	if pg.ImageZoom != 1 {
		t.Fatalf("default zoom: %v", pg.ImageZoom)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("fresh project invalid: %v", err)
	}
}

func TestCloneIsDeepAndEqual(t *testing.T) {
	p := NewProject("Deep")
	p.Pages[0].Screenshot = []byte{1, 2, 3}
	el := NewTextElement("caption")
	w := 0.8
	el.WidthRatio = &w
	p.Pages[0].Texts = append(p.Pages[0].Texts, el)

	c := p.Clone()
	if !p.Equal(c) {
		t.Fatalf("clone not structurally equal")
	}

	c.Pages[0].Screenshot[0] = 99
	c.Pages[0].Texts[0].Text = "changed"
	*c.Pages[0].Texts[0].WidthRatio = 0.1
	if p.Pages[0].Screenshot[0] != 1 {
		t.Fatalf("screenshot bytes shared with clone")
	}
	if p.Pages[0].Texts[0].Text != "caption" {
		t.Fatalf("caption shared with clone")
	}
	if *p.Pages[0].Texts[0].WidthRatio != 0.8 {
		t.Fatalf("width ratio shared with clone")
	}
}

func TestClonePreservesSliceNilness(t *testing.T) {
	// JSON decoding produces empty non-nil slices; clones must not turn
	// them into nil or no-op detection reports phantom changes.
	var p Project
	if err := json.Unmarshal([]byte(`{"id":"x","pages":[]}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Pages == nil {
		t.Fatalf("decode gave nil pages, test setup wrong")
	}
	if !p.Equal(p.Clone()) {
		t.Fatalf("clone of empty-but-non-nil slices not equal")
	}
}

func TestActivePageFallsBackToFirst(t *testing.T) {
	p := NewProject("Fallback")
	second := NewPage()
	p.Pages = append(p.Pages, second)

	p.ActivePageID = "no-such-page"
	if got := p.ActivePage(); got == nil || got.ID != p.Pages[0].ID {
		t.Fatalf("stale active id did not fall back to first page")
	}

	p.ActivePageID = second.ID
	if got := p.ActivePage(); got == nil || got.ID != second.ID {
		t.Fatalf("active page lookup failed")
	}

	p.Pages = nil
	if p.ActivePage() != nil {
		t.Fatalf("empty project must have no active page")
	}
}

func TestValidateRejectsBrokenProjects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Project)
	}{
		{"duplicate page ids", func(p *Project) {
			p.Pages = append(p.Pages, p.Pages[0])
		}},
		{"zero canvas", func(p *Project) {
			p.Pages[0].Canvas = Size{}
		}},
		{"negative device height", func(p *Project) {
			p.Pages[0].DeviceHeight = -10
		}},
		{"unknown frame", func(p *Project) {
			p.Pages[0].DeviceFrame = "visorPhone"
		}},
		{"stale active id", func(p *Project) {
			p.ActivePageID = "gone"
		}},
		{"unknown text alignment", func(p *Project) {
			el := NewTextElement("x")
			el.TextAlign = "justified"
			p.Pages[0].Texts = append(p.Pages[0].Texts, el)
		}},
	}
	for _, tc := range cases {
		p := NewProject("Broken")
		tc.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
