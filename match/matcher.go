package match

import (
	"reflect"

	"github.com/wippyai/sigbind/typedesc"
)

// Matcher holds the host type system used for conversion and assignability queries.
// Safe for concurrent use.
type Matcher struct {
	host typedesc.Host
}

// New creates a Matcher. A nil host falls back to typedesc.ReflectHost.
func New(host typedesc.Host) *Matcher {
	if host == nil {
		host = typedesc.ReflectHost{}
	}
	return &Matcher{host: host}
}

// Host returns the host type system.
func (m *Matcher) Host() typedesc.Host {
	return m.host
}

// MatchType matches a single candidate descriptor against spec.
//
// In output position the candidate is the declared type flowing out to the
// requested type; in input position the requested type flows into the
// declared candidate. That direction decides which conversion is checked.
func (m *Matcher) MatchType(cand typedesc.Descriptor, spec typedesc.Spec, output bool) typedesc.Outcome {
	if cand.IsZero() || spec.IsZero() {
		return typedesc.Outcome{Matched: cand.IsZero() && spec.IsZero()}
	}

	if cand.Wrap != spec.Wrap {
		return typedesc.Outcome{}
	}

	if spec.Target != nil && !cand.IsGeneric() {
		if o, ok := m.matchConcrete(cand.Reflect(), spec.Reflect(), output); ok {
			return o
		}
		// Flags are consumed; retry on the element types.
		if cand.IsWrapped() {
			if o, ok := m.matchConcrete(cand.Type, spec.Target, output); ok {
				return o
			}
		}
		return typedesc.Outcome{}
	}

	if !cand.IsGeneric() {
		return typedesc.Outcome{}
	}

	p := cand.Param
	if spec.Target != nil {
		loc := typedesc.LocationType
		if p.Location == typedesc.LocationSignature {
			loc = typedesc.LocationSignature
		}
		return typedesc.Outcome{
			Matched:  true,
			Location: loc,
			Position: p.Position,
			Bound:    spec.Target,
		}
	}

	if !spec.Location.Accepts(p.Location) {
		return typedesc.Outcome{}
	}
	if spec.Name != "" && spec.Name != p.Name {
		return typedesc.Outcome{}
	}
	if spec.Position != typedesc.AnyPosition && spec.Position != p.Position {
		return typedesc.Outcome{}
	}
	return typedesc.Outcome{Matched: true}
}

func (m *Matcher) matchConcrete(cand, want reflect.Type, output bool) (typedesc.Outcome, bool) {
	if cand == want {
		return typedesc.Outcome{Matched: true}, true
	}
	var convertible bool
	if output {
		convertible = m.host.ConvertibleTo(cand, want)
	} else {
		convertible = m.host.ConvertibleTo(want, cand)
	}
	if convertible {
		return typedesc.Outcome{Matched: true, Cast: true}, true
	}
	return typedesc.Outcome{}, false
}
