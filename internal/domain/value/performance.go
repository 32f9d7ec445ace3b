package value

import "fmt"

// PerformanceType — формат выступления.
type PerformanceType string

const (
	PerformanceDJSet    PerformanceType = "DJ Set"
	PerformanceLive     PerformanceType = "Live Performance"
	PerformanceB2B      PerformanceType = "B2B"
	PerformanceLiveBand PerformanceType = "Live Band"
	PerformanceOther    PerformanceType = "Other"
)

func ParsePerformanceType(s string) (PerformanceType, error) {
	if s == "" {
		// Необязательное поле, по умолчанию Other.
		return PerformanceOther, nil
	}

	switch PerformanceType(s) {
	case PerformanceDJSet, PerformanceLive, PerformanceB2B,
		PerformanceLiveBand, PerformanceOther:
		return PerformanceType(s), nil
	}

	return "", fmt.Errorf("unknown performance type %q", s)
}

func (p PerformanceType) String() string {
	return string(p)
}
