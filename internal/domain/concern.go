package domain

import "strings"

// ConcernKind categorizes applicant hesitation recorded during counseling.
type ConcernKind string

const (
	ConcernOtherInstitution ConcernKind = "타기관"
	ConcernOwnPrice         ConcernKind = "자체가격"
	ConcernJob              ConcernKind = "직장"
	ConcernChildcare        ConcernKind = "육아"
	ConcernPriceComparison  ConcernKind = "가격비교"
	ConcernEtc              ConcernKind = "기타"
)

// ConcernKinds lists the fixed concern vocabulary.
var ConcernKinds = []ConcernKind{
	ConcernOtherInstitution,
	ConcernOwnPrice,
	ConcernJob,
	ConcernChildcare,
	ConcernPriceComparison,
	ConcernEtc,
}

// Valid reports whether the kind belongs to the fixed vocabulary.
func (k ConcernKind) Valid() bool {
	for _, known := range ConcernKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Concern is a single counseling concern. Detail is only used with the
// 기타 kind, stored as "기타:<detail>".
type Concern struct {
	Kind   ConcernKind
	Detail string
}

// String renders the stored form of a single concern.
func (c Concern) String() string {
	if c.Kind == ConcernEtc && c.Detail != "" {
		return string(ConcernEtc) + ":" + c.Detail
	}
	return string(c.Kind)
}

// ParseConcerns splits the stored comma-joined form into concerns,
// recovering free-text detail from the "기타:<detail>" encoding.
func ParseConcerns(s string) []Concern {
	parts := strings.Split(s, ",")
	concerns := make([]Concern, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, string(ConcernEtc)+":"); ok {
			concerns = append(concerns, Concern{Kind: ConcernEtc, Detail: rest})
			continue
		}
		concerns = append(concerns, Concern{Kind: ConcernKind(trimmed)})
	}
	return concerns
}

// JoinConcerns renders concerns into the stored comma-and-space-joined form.
func JoinConcerns(concerns []Concern) string {
	parts := make([]string, 0, len(concerns))
	for _, c := range concerns {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}
