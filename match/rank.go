package match

import (
	"go.uber.org/zap"

	"github.com/wippyai/sigbind/typedesc"
)

// Selection is the winner of BestMatch.
type Selection struct {
	// Signature is the winner with every bound slot substituted. Slots
	// matched only by locator specs stay generic.
	Signature typedesc.Signature
	// Declared is the winner as it was supplied.
	Declared typedesc.Signature
	Result   Result
	// Index is the winner's position in the candidate slice.
	Index int
}

// BestMatch selects one signature out of candidates.
//
// Candidates are ranked by, in order: fewer type-local closures, fewer
// signature-local closures, fewer casts. Ties go to the earliest candidate,
// so candidate order is part of the input and must be deterministic.
func (m *Matcher) BestMatch(candidates []typedesc.Signature, specs []typedesc.Spec, sigArity int, allowClosure, allowCasts bool) (Selection, bool) {
	best := -1
	var bestResult Result
	var bestRank rank

	for i, cand := range candidates {
		r := m.MatchSignature(cand, specs, sigArity)
		if !r.Matched {
			continue
		}
		if !allowCasts && r.CastCount() > 0 {
			continue
		}
		if !allowClosure && r.HasClosures() {
			continue
		}
		rk := rank{typeClosures: r.TypeClosureCount(), sigClosures: r.SignatureClosureCount(), casts: r.CastCount()}
		if best < 0 || rk.less(bestRank) {
			best, bestResult, bestRank = i, r, rk
		}
	}

	if best < 0 {
		return Selection{}, false
	}

	sel := Selection{
		Index:     best,
		Declared:  candidates[best],
		Signature: candidates[best],
		Result:    bestResult,
	}
	if bestResult.HasClosures() {
		sel.Signature = closeMatched(sel.Declared, bestResult)
	}

	Logger().Debug("best match selected",
		zap.Int("index", best),
		zap.Stringer("signature", sel.Signature),
		zap.Int("type_closures", bestRank.typeClosures),
		zap.Int("signature_closures", bestRank.sigClosures),
		zap.Int("casts", bestRank.casts))

	return sel, true
}

type rank struct {
	typeClosures int
	sigClosures  int
	casts        int
}

func (r rank) less(o rank) bool {
	if r.typeClosures != o.typeClosures {
		return r.typeClosures < o.typeClosures
	}
	if r.sigClosures != o.sigClosures {
		return r.sigClosures < o.sigClosures
	}
	return r.casts < o.casts
}
