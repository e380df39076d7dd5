package classifier

import (
	"regexp"
	"strings"
)

// Verdict is the outcome of the safety check on a chat message.
type Verdict int

const (
	Safe Verdict = iota
	// Harmful covers self-harm, violence, weapons and poisoning.
	Harmful
	// Medical covers requests for diagnosis, treatment or dosing.
	Medical
)

func (v Verdict) String() string {
	switch v {
	case Harmful:
		return "harmful"
	case Medical:
		return "medical"
	}
	return "safe"
}

// The patterns are unanchored, so "abuse" also fires inside longer words.
var (
	HarmfulPatterns = []string{
		`suicide`, `kill myself`, `harm myself`, `self[-\s]?harm`,
		`harm others`, `hurt someone`, `violence`, `bomb`, `weapon`,
		`abuse`, `poison`, `overdose`,
	}
	MedicalPatterns = []string{
		`diagnose`, `symptom`, `treatment`, `medication`, `dose`, `therapy`,
		`side effect`, `prescribe`, `prognosis`,
	}
)

// SafetyClassifier flags chat messages that must not get a regular answer.
type SafetyClassifier struct {
	harmful []*regexp.Regexp
	medical []*regexp.Regexp
}

func NewSafetyClassifier() *SafetyClassifier {
	return &SafetyClassifier{
		harmful: compileAll(HarmfulPatterns),
		medical: compileAll(MedicalPatterns),
	}
}

// Check runs the harmful list first; the medical list only counts when no
// harmful pattern matched.
func (c *SafetyClassifier) Check(text string) Verdict {
	t := strings.ToLower(text)
	if matchAny(c.harmful, t) {
		return Harmful
	}
	if matchAny(c.medical, t) {
		return Medical
	}
	return Safe
}

func (c *SafetyClassifier) IsHarmful(text string) bool {
	return matchAny(c.harmful, strings.ToLower(text))
}

func (c *SafetyClassifier) IsMedical(text string) bool {
	return matchAny(c.medical, strings.ToLower(text))
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
