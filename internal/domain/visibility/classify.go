package visibility

import (
	"math"
	"strings"
)

// The window and the cap were tuned by hand; keep them as they are.
const (
	// ProximityWindow is the max distance in characters between a subject's
	// first occurrence and an indicator word.
	ProximityWindow = 150
	// MaxMissingByOmission bounds how many subjects one response can flag as
	// missing.
	MaxMissingByOmission = 3
)

var (
	weakIndicators   = []string{"weak", "limited", "missing", "gap", "opportunity", "needs improvement", "lacking"}
	strongIndicators = []string{"strong", "good", "well-covered", "comprehensive", "abundant"}
)

// Classify labels each subject against text. Membership in the payload's
// missing/strong lists wins; otherwise the nearest indicator word around the
// subject decides. Subjects absent from the text are flagged missing only while
// fewer than MaxMissingByOmission subjects have been flagged so far.
func Classify(text string, subjects []string, payload any) map[string]Classification {
	lower := strings.ToLower(text)
	pMissing, pStrong := payloadLists(payload)

	out := make(map[string]Classification, len(subjects))
	missingCount := 0
	for _, subject := range subjects {
		key := normalize(subject)
		if key == "" {
			continue
		}

		pos := strings.Index(lower, key)
		score := 0
		if pos >= 0 {
			score = MentionScore(text, subject)
		}

		var label Label
		switch {
		case pMissing[key]:
			label = LabelMissing
		case pStrong[key]:
			label = LabelStrong
		case pos >= 0:
			label = proximityLabel(lower, pos)
		case missingCount < MaxMissingByOmission:
			label = LabelMissing
		default:
			label = LabelNeutral
		}

		if label == LabelMissing {
			missingCount++
		}
		out[subject] = Classification{Label: label, Score: score}
	}
	return out
}

// proximityLabel compares the nearest weak and strong indicator around pos.
// A tie goes to missing.
func proximityLabel(lower string, pos int) Label {
	weak := nearest(lower, pos, weakIndicators)
	strong := nearest(lower, pos, strongIndicators)

	switch {
	case weak < 0 && strong < 0:
		return LabelNeutral
	case strong < 0:
		return LabelMissing
	case weak < 0:
		return LabelStrong
	case weak <= strong:
		return LabelMissing
	default:
		return LabelStrong
	}
}

// nearest returns the smallest distance below ProximityWindow between pos and
// any occurrence of any word, or -1.
func nearest(lower string, pos int, words []string) int {
	best := -1
	for _, w := range words {
		for off := 0; off < len(lower); {
			i := strings.Index(lower[off:], w)
			if i < 0 {
				break
			}
			idx := off + i
			d := idx - pos
			if d < 0 {
				d = -d
			}
			if d < ProximityWindow && (best < 0 || d < best) {
				best = d
			}
			if idx-pos >= ProximityWindow {
				break
			}
			off = idx + 1
		}
	}
	return best
}

// Mentions counts case-insensitive, non-overlapping occurrences of subject.
func Mentions(text, subject string) int {
	s := normalize(subject)
	if s == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), s)
}

// MentionScore is min(100, mentions*20 + 50), a crude prominence proxy.
func MentionScore(text, subject string) int {
	return int(math.Min(100, float64(Mentions(text, subject)*20+50)))
}

// Score builds SubjectScores for subjects in order.
func Score(text string, subjects []string) []SubjectScore {
	out := make([]SubjectScore, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, SubjectScore{Name: s, Mentions: Mentions(text, s), Score: MentionScore(text, s)})
	}
	return out
}
