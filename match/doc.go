// Package match decides whether type descriptors satisfy search specs,
// selects the best signature out of a candidate list and closes the generic
// slots a selection implies.
//
// Everything here is pure: a Matcher only holds its typedesc.Host, and every
// ClosureMap belongs to a single matching attempt. Routine non-matches and
// inconsistent generic bindings are reported as false results, never as errors.
//
//	m := match.New(host)
//	sel, ok := m.BestMatch(candidates, typedesc.SpecsOf(boolT, intT), 0, true, false)
//	if ok {
//		fmt.Println(sel.Signature) // (int) -> bool
//	}
package match
