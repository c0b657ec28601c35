package services

import "strings"

// simScore rates how alike two org names are, in [0,1]. Exact match after
// normalization scores 1.0; containment of one normalized name in the other
// scores 0.7 plus 0.3 weighted by the length ratio; anything else falls back
// to Jaccard token overlap.
func simScore(a, b string) float64 {
	na, nb := normalizeOrgName(a), normalizeOrgName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		shorter, longer := len(na), len(nb)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return 0.7 + 0.3*float64(shorter)/float64(longer)
	}
	return jaccardTokens(splitNameTokens(na), splitNameTokens(nb))
}

// normalizeOrgName lowercases, strips non-alphanumerics except '&' and '-',
// and collapses whitespace runs to single spaces.
func normalizeOrgName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '&', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func splitNameTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '&' || r == '-'
	})
}

func jaccardTokens(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		union[t] = struct{}{}
	}
	shared := 0
	seen := map[string]struct{}{}
	for _, t := range b {
		union[t] = struct{}{}
		if _, ok := set[t]; ok {
			if _, dup := seen[t]; !dup {
				shared++
				seen[t] = struct{}{}
			}
		}
	}
	return float64(shared) / float64(len(union))
}

var honorificPrefixes = []string{"mr", "ms", "mrs", "miss", "dr"}

// stripHonorific drops a leading Mr/Ms/Mrs/Miss/Dr (optional trailing
// period) from a name.
func stripHonorific(s string) string {
	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)
	for _, p := range honorificPrefixes {
		for _, form := range []string{p + ". ", p + " "} {
			if strings.HasPrefix(lower, form) {
				return strings.TrimSpace(trimmed[len(form):])
			}
		}
	}
	return trimmed
}

// namesMatch is the loose person-name comparison behind the manager
// confirmation bonus. Honorifics are stripped and whitespace collapsed, then
// exact match wins, containment wins, and finally an identical surname (last
// token) plus a shared first initial is accepted, so "Jane A. Smith" still
// matches "Jane Smith".
func namesMatch(a, b string) bool {
	na := collapseNameSpace(stripHonorific(a))
	nb := collapseNameSpace(stripHonorific(b))
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	ta, tb := strings.Fields(na), strings.Fields(nb)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	return ta[len(ta)-1] == tb[len(tb)-1] && ta[0][0] == tb[0][0]
}

func collapseNameSpace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
