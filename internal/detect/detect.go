// Package detect implements the silent-failure detectors: per matched
// (Expectation, Observation) pair, each detector either emits a candidate
// finding, records an auditable silence signal when evidence is insufficient
// to judge, or stays quiet when the promise provably held. Detectors never
// guess: a required observable that is absent routes to a silence signal,
// not to a finding.
package detect

import (
	"deadclick/internal/types"
)

// Detector judges one matched pair. Exactly one of candidate/silence is
// non-nil when there is something to say; both nil means the promise held or
// the pair is outside this detector's preconditions.
type Detector interface {
	Name() string
	Detect(exp types.Expectation, obs types.Observation) (*types.Candidate, *types.SilenceSignal, error)
}

// Match pairs observations to expectations by id. One observation matches at
// most one expectation.
func Match(exps []types.Expectation, obs []types.Observation) (pairs []MatchedPair, unmatched []types.Observation) {
	byID := make(map[string]types.Expectation, len(exps))
	for _, e := range exps {
		byID[e.ID] = e
	}
	for _, o := range obs {
		if e, ok := byID[o.ID]; ok {
			pairs = append(pairs, MatchedPair{Expectation: e, Observation: o})
		} else {
			unmatched = append(unmatched, o)
		}
	}
	return pairs, unmatched
}

// MatchedPair is an expectation with its runtime observation.
type MatchedPair struct {
	Expectation types.Expectation
	Observation types.Observation
}

// silence builds a silence signal for a detector.
func silence(detector, code, message string) *types.SilenceSignal {
	return &types.SilenceSignal{Code: code, Detector: detector, Message: message}
}

// sharedPreconditions gates every detector: a pair where the interaction was
// never attempted, or where the driver itself failed, carries nothing to
// judge. Returns false when the detector should stay quiet entirely.
func sharedPreconditions(obs types.Observation) bool {
	return obs.Attempted && obs.ActionSuccess
}

// baseEvidence assembles the evidence payload common to all detectors from
// the observation's captured artifacts. Detectors extend it with
// type-specific entries.
func baseEvidence(obs types.Observation) types.Evidence {
	ev := types.Evidence{}
	if obs.Evidence.BeforeScreenshot != "" {
		ev["before_screenshot"] = obs.Evidence.BeforeScreenshot
	}
	if obs.Evidence.AfterScreenshot != "" {
		ev["after_screenshot"] = obs.Evidence.AfterScreenshot
	}
	if obs.Evidence.DomDiff != "" {
		ev["dom_diff"] = obs.Evidence.DomDiff
	}
	if obs.Evidence.SourceSnippet != "" {
		ev["source_snippet"] = obs.Evidence.SourceSnippet
	}
	if obs.Evidence.TraceID != "" {
		ev["trace_id"] = obs.Evidence.TraceID
	}
	for i, f := range obs.EvidenceFiles {
		if i >= 8 {
			break
		}
		ev["file_"+itoa(i)] = f
	}
	return ev
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [8]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// clamp01 bounds a confidence score into [0,1]. Confidence arithmetic never
// errors; it saturates.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
