/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package stylepack loads named background and caption presets from YAML
// packs. A built-in pack ships embedded in the binary; user packs in the
// config directory are merged over it, shadowing entries by name.
package stylepack

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"goshotdesigner/internal/config"
	"goshotdesigner/internal/domain"
	"goshotdesigner/internal/errs"
	applog "goshotdesigner/internal/log"
)

//go:embed styles.yaml
var embeddedPack []byte

// DefaultBackground is the preset stamped onto new projects.
const DefaultBackground = "midnight"

// CaptionStyle is a reusable caption look. It carries style only; text,
// anchor and id stay with the element it is applied to.
type CaptionStyle struct {
	FontFamily  string
	FontSize    float64
	Color       domain.Color
	TextAlign   domain.TextAlignment
	Padding     domain.Insets
	Fill        domain.Color
	FillOpacity float64
	BorderColor domain.Color
	BorderWidth float64
	Shadow      domain.Shadow
}

// ApplyCaptionStyle stamps the preset onto an element in place.
func ApplyCaptionStyle(el *domain.TextElement, cs CaptionStyle) {
	if el == nil {
		return
	}
	el.FontFamily = cs.FontFamily
	el.FontSize = cs.FontSize
	el.Color = cs.Color
	if cs.TextAlign != "" {
		el.TextAlign = cs.TextAlign
	}
	el.Padding = cs.Padding
	el.Fill = cs.Fill
	el.FillOpacity = cs.FillOpacity
	el.BorderColor = cs.BorderColor
	el.BorderWidth = cs.BorderWidth
	el.Shadow = cs.Shadow
}

// Library is the merged view over the embedded pack and any user packs.
type Library struct {
	backgrounds map[string]domain.BackgroundStyle
	captions    map[string]CaptionStyle
}

// Background returns the named background preset.
func (l *Library) Background(name string) (domain.BackgroundStyle, error) {
	bg, ok := l.backgrounds[name]
	if !ok {
		return domain.BackgroundStyle{}, errs.New(errs.CodeConfig, "unknown background style %q (known: %s)", name, strings.Join(l.BackgroundNames(), ", "))
	}
	return bg.Clone(), nil
}

// Caption returns the named caption preset.
func (l *Library) Caption(name string) (CaptionStyle, error) {
	cs, ok := l.captions[name]
	if !ok {
		return CaptionStyle{}, errs.New(errs.CodeConfig, "unknown caption style %q (known: %s)", name, strings.Join(l.CaptionNames(), ", "))
	}
	return cs, nil
}

// BackgroundNames lists the available background presets, sorted.
func (l *Library) BackgroundNames() []string {
	names := make([]string, 0, len(l.backgrounds))
	for n := range l.backgrounds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CaptionNames lists the available caption presets, sorted.
func (l *Library) CaptionNames() []string {
	names := make([]string, 0, len(l.captions))
	for n := range l.captions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UserPackDir returns the directory scanned for user packs
// (<config dir>/stylepacks).
func UserPackDir() (string, error) {
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(cfgPath), "stylepacks"), nil
}

// Load builds the library from the embedded pack plus user packs from the
// config directory. A missing user dir is fine; a malformed user pack is not.
func Load() (*Library, error) {
	dir, err := UserPackDir()
	if err != nil {
		dir = ""
	}
	return LoadFrom(dir)
}

// LoadFrom loads the embedded pack, then merges every *.yaml/*.yml pack
// found in userDir (lexicographic order, later entries win). Empty userDir
// loads the embedded pack only.
func LoadFrom(userDir string) (*Library, error) {
	l := applog.WithComponent("stylepack")
	lib := &Library{
		backgrounds: map[string]domain.BackgroundStyle{},
		captions:    map[string]CaptionStyle{},
	}
	if err := lib.mergePack(embeddedPack, "embedded"); err != nil {
		return nil, err
	}
	if userDir == "" {
		return lib, nil
	}
	ents, err := os.ReadDir(userDir)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, errs.Wrap(errs.CodeConfig, err, "read style pack dir %s", userDir)
	}
	var names []string
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(userDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.CodeConfig, err, "read style pack %s", path)
		}
		if err := lib.mergePack(data, name); err != nil {
			return nil, err
		}
		l.Info("user style pack merged", slog.String("pack", name))
	}
	return lib, nil
}

// YAML shapes. Colors are hex strings so packs stay hand-editable.

type packFile struct {
	Name        string                    `yaml:"name"`
	Backgrounds map[string]backgroundSpec `yaml:"backgrounds"`
	Captions    map[string]captionSpec    `yaml:"captions"`
}

type backgroundSpec struct {
	Kind   string     `yaml:"kind"`
	Color  string     `yaml:"color"`  // solid
	Colors []string   `yaml:"colors"` // gradient, spread evenly
	Stops  []stopSpec `yaml:"stops"`  // gradient with explicit locations
	Start  *pointSpec `yaml:"start"`
	End    *pointSpec `yaml:"end"`
}

type stopSpec struct {
	Color    string  `yaml:"color"`
	Location float64 `yaml:"location"`
}

type pointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type insetSpec struct {
	Top      float64 `yaml:"top"`
	Leading  float64 `yaml:"leading"`
	Bottom   float64 `yaml:"bottom"`
	Trailing float64 `yaml:"trailing"`
}

type shadowSpec struct {
	Color   string    `yaml:"color"`
	Opacity float64   `yaml:"opacity"`
	Radius  float64   `yaml:"radius"`
	Offset  pointSpec `yaml:"offset"`
}

type captionSpec struct {
	FontFamily  string      `yaml:"fontFamily"`
	FontSize    float64     `yaml:"fontSize"`
	Color       string      `yaml:"color"`
	TextAlign   string      `yaml:"textAlign"`
	Padding     *insetSpec  `yaml:"padding"`
	Fill        string      `yaml:"fill"`
	FillOpacity float64     `yaml:"fillOpacity"`
	BorderColor string      `yaml:"borderColor"`
	BorderWidth float64     `yaml:"borderWidth"`
	Shadow      *shadowSpec `yaml:"shadow"`
}

func (lib *Library) mergePack(data []byte, pack string) error {
	var pf packFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return errs.Wrap(errs.CodeConfig, err, "parse style pack %s", pack)
	}
	for name, spec := range pf.Backgrounds {
		bg, err := spec.toBackground()
		if err != nil {
			return errs.Wrap(errs.CodeConfig, err, "style pack %s: background %q", pack, name)
		}
		if err := bg.Validate(); err != nil {
			return errs.Wrap(errs.CodeConfig, err, "style pack %s: background %q", pack, name)
		}
		lib.backgrounds[name] = bg
	}
	for name, spec := range pf.Captions {
		cs, err := spec.toCaption()
		if err != nil {
			return errs.Wrap(errs.CodeConfig, err, "style pack %s: caption %q", pack, name)
		}
		lib.captions[name] = cs
	}
	return nil
}

func (s backgroundSpec) toBackground() (domain.BackgroundStyle, error) {
	switch domain.BackgroundKind(s.Kind) {
	case domain.BackgroundSolid:
		c, err := parseHex(s.Color)
		if err != nil {
			return domain.BackgroundStyle{}, err
		}
		return domain.SolidOf(c), nil
	case domain.BackgroundGradient:
		var stops []domain.GradientStop
		switch {
		case len(s.Stops) > 0:
			for _, st := range s.Stops {
				c, err := parseHex(st.Color)
				if err != nil {
					return domain.BackgroundStyle{}, err
				}
				stops = append(stops, domain.GradientStop{Color: c, Location: st.Location})
			}
		case len(s.Colors) > 0:
			colors := make([]domain.Color, 0, len(s.Colors))
			for _, hex := range s.Colors {
				c, err := parseHex(hex)
				if err != nil {
					return domain.BackgroundStyle{}, err
				}
				colors = append(colors, c)
			}
			stops = domain.EvenStops(colors...)
		default:
			return domain.BackgroundStyle{}, fmt.Errorf("gradient needs colors or stops")
		}
		start := domain.Point{X: 0.5, Y: 0}
		end := domain.Point{X: 0.5, Y: 1}
		if s.Start != nil {
			start = domain.Point{X: s.Start.X, Y: s.Start.Y}
		}
		if s.End != nil {
			end = domain.Point{X: s.End.X, Y: s.End.Y}
		}
		return domain.GradientOf(stops, start, end), nil
	case domain.BackgroundImage:
		// Packs are hand-written YAML; image bytes belong in the project.
		return domain.BackgroundStyle{}, fmt.Errorf("image backgrounds cannot be defined in a style pack")
	default:
		return domain.BackgroundStyle{}, fmt.Errorf("unknown background kind %q", s.Kind)
	}
}

func (s captionSpec) toCaption() (CaptionStyle, error) {
	cs := CaptionStyle{
		FontFamily:  s.FontFamily,
		FontSize:    s.FontSize,
		FillOpacity: s.FillOpacity,
		BorderWidth: s.BorderWidth,
	}
	if cs.FontSize <= 0 {
		return CaptionStyle{}, fmt.Errorf("fontSize must be positive, got %v", s.FontSize)
	}
	if s.FillOpacity < 0 || s.FillOpacity > 1 {
		return CaptionStyle{}, fmt.Errorf("fillOpacity %v outside [0,1]", s.FillOpacity)
	}
	var err error
	if cs.Color, err = parseHexDefault(s.Color, domain.RGB(255, 255, 255)); err != nil {
		return CaptionStyle{}, err
	}
	if cs.Fill, err = parseHexDefault(s.Fill, domain.Color{}); err != nil {
		return CaptionStyle{}, err
	}
	if cs.BorderColor, err = parseHexDefault(s.BorderColor, domain.Color{}); err != nil {
		return CaptionStyle{}, err
	}
	if s.TextAlign != "" {
		align := domain.TextAlignment(s.TextAlign)
		if !align.Valid() {
			return CaptionStyle{}, fmt.Errorf("unknown textAlign %q", s.TextAlign)
		}
		cs.TextAlign = align
	}
	if s.Padding != nil {
		cs.Padding = domain.Insets{Top: s.Padding.Top, Leading: s.Padding.Leading, Bottom: s.Padding.Bottom, Trailing: s.Padding.Trailing}
	}
	if s.Shadow != nil {
		if s.Shadow.Opacity < 0 || s.Shadow.Opacity > 1 {
			return CaptionStyle{}, fmt.Errorf("shadow opacity %v outside [0,1]", s.Shadow.Opacity)
		}
		sc, err := parseHexDefault(s.Shadow.Color, domain.Color{A: 255})
		if err != nil {
			return CaptionStyle{}, err
		}
		cs.Shadow = domain.Shadow{
			Color:   sc,
			Opacity: s.Shadow.Opacity,
			Radius:  s.Shadow.Radius,
			Offset:  domain.Point{X: s.Shadow.Offset.X, Y: s.Shadow.Offset.Y},
		}
	}
	return cs, nil
}

// parseHex accepts #RGB, #RRGGBB and #RRGGBBAA.
func parseHex(s string) (domain.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	var alpha uint64 = 0xff
	switch len(h) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(h[6:8], 16, 8)
		if err != nil {
			return domain.Color{}, fmt.Errorf("bad color %q", s)
		}
		alpha = a
		h = h[:6]
	default:
		return domain.Color{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return domain.Color{}, fmt.Errorf("bad color %q", s)
	}
	return domain.Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(alpha),
	}, nil
}

func parseHexDefault(s string, def domain.Color) (domain.Color, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return parseHex(s)
}
