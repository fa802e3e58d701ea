package match

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-pulsefit/dsp/waveform"
)

// Errors reported for malformed libraries.
var (
	ErrEmptyLibrary      = errors.New("match: template library is empty")
	ErrUnknownTemplate   = errors.New("match: unknown template")
	ErrIrregularTemplate = errors.New("match: template grid is not regular")
)

// Library maps template ids to base templates. It is only read by the
// search and may be shared between concurrent sessions.
type Library map[string]waveform.Waveform

// IDs returns the template ids in ascending order.
func (l Library) IDs() []string {
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks that the library is non-empty and that every template is
// a valid, regularly sampled waveform.
func (l Library) Validate() error {
	if len(l) == 0 {
		return ErrEmptyLibrary
	}
	for _, id := range l.IDs() {
		if id == "" {
			return fmt.Errorf("%w: empty id", ErrUnknownTemplate)
		}
		w := l[id]
		if err := w.Validate(); err != nil {
			return fmt.Errorf("match: template %q: %w", id, err)
		}
		if !w.IsRegular() {
			return fmt.Errorf("%w: %q", ErrIrregularTemplate, id)
		}
	}
	return nil
}

func (l Library) template(k Key) (waveform.Waveform, error) {
	w, ok := l[k.Template()]
	if !ok {
		return waveform.Waveform{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, k.Template())
	}
	return w, nil
}
