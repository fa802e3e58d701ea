package match

import (
	"fmt"
	"math"
	"strconv"
)

// Level is the depth of a Key in the template/sigma/shift hierarchy.
type Level uint8

const (
	// LevelRoot is the observation-level root of a search tree.
	LevelRoot Level = iota
	// LevelTemplate addresses a library template.
	LevelTemplate
	// LevelSigma addresses a template broadened by sigma.
	LevelSigma
	// LevelShift addresses a broadened template shifted by delta t.
	LevelShift
)

func (l Level) String() string {
	switch l {
	case LevelRoot:
		return "root"
	case LevelTemplate:
		return "template"
	case LevelSigma:
		return "sigma"
	case LevelShift:
		return "shift"
	default:
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
}

// Key is a composite, comparable identifier: a template id, optionally
// extended by a broadening width and then by a shift. Keys are built only
// through TemplateKey, WithSigma and WithShift, which reject malformed
// components by panicking.
type Key struct {
	template string
	sigma    float64
	shift    float64
	level    Level
}

// TemplateKey returns the key of a library template.
func TemplateKey(id string) Key {
	if id == "" {
		panic("match: empty template id")
	}
	return Key{template: id, level: LevelTemplate}
}

// WithSigma extends a template key by a broadening width.
func (k Key) WithSigma(sigma float64) Key {
	k.mustBe(LevelTemplate, "WithSigma")
	mustFinite("sigma", sigma)
	if sigma == 0 {
		sigma = 0 // drop the sign of -0
	}
	k.sigma = sigma
	k.level = LevelSigma
	return k
}

// WithShift extends a sigma key by a time shift.
func (k Key) WithShift(deltaT float64) Key {
	k.mustBe(LevelSigma, "WithShift")
	mustFinite("shift", deltaT)
	if deltaT == 0 {
		deltaT = 0
	}
	k.shift = deltaT
	k.level = LevelShift
	return k
}

// Level returns the depth of k.
func (k Key) Level() Level { return k.level }

// Template returns the template id; empty for the root key.
func (k Key) Template() string { return k.template }

// Sigma returns the broadening width. It panics below LevelSigma.
func (k Key) Sigma() float64 {
	if k.level < LevelSigma {
		panic(fmt.Sprintf("match: Sigma on %s-level key %v", k.level, k))
	}
	return k.sigma
}

// Shift returns the time shift. It panics below LevelShift.
func (k Key) Shift() float64 {
	k.mustBe(LevelShift, "Shift")
	return k.shift
}

// Base returns the template-level key of k.
func (k Key) Base() Key {
	if k.level < LevelTemplate {
		panic("match: Base on root key")
	}
	return Key{template: k.template, level: LevelTemplate}
}

// Parent drops the last component of k. The parent of a template key is the root.
func (k Key) Parent() Key {
	switch k.level {
	case LevelShift:
		return Key{template: k.template, sigma: k.sigma, level: LevelSigma}
	case LevelSigma:
		return Key{template: k.template, level: LevelTemplate}
	case LevelTemplate:
		return Key{}
	default:
		panic("match: Parent on root key")
	}
}

func (k Key) String() string {
	switch k.level {
	case LevelRoot:
		return "[]"
	case LevelTemplate:
		return fmt.Sprintf("[%s]", k.template)
	case LevelSigma:
		return fmt.Sprintf("[%s %g]", k.template, k.sigma)
	default:
		return fmt.Sprintf("[%s %g %g]", k.template, k.sigma, k.shift)
	}
}

func (k Key) mustBe(level Level, op string) {
	if k.level != level {
		panic(fmt.Sprintf("match: %s needs a %s-level key, got %s-level %v", op, level, k.level, k))
	}
}

func mustFinite(name string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("match: non-finite %s %v in key", name, v))
	}
}
