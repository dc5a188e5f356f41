package loadstats

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	FilterAllMatches = "allMatches"

	IndicatorMatchday   = "0"
	IndicatorIndividual = "individual"
	IndicatorNoCategory = "no_category"

	// MaxIndicatorOffset bounds the days before/after a match in the training table.
	MaxIndicatorOffset = 7
)

type FilterOption struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// FilterState maps canonical codes to whether they are selected.
type FilterState map[string]bool

var (
	matchFilterOptions = []FilterOption{
		{Label: "All matches", Code: FilterAllMatches},
		{Label: "Wins", Code: string(ResultWin)},
		{Label: "Losses", Code: string(ResultLoss)},
		{Label: "Draws", Code: string(ResultDraw)},
	}
	trainingFilterOptions = buildTrainingFilterOptions()

	labelToCode = make(map[string]string)
	codeToLabel = make(map[string]string)
)

func init() {
	for _, options := range [][]FilterOption{matchFilterOptions, trainingFilterOptions} {
		for _, o := range options {
			labelToCode[o.Label] = o.Code
			codeToLabel[o.Code] = o.Label
		}
	}
}

func buildTrainingFilterOptions() []FilterOption {
	var options []FilterOption
	for offset := -MaxIndicatorOffset; offset <= MaxIndicatorOffset; offset++ {
		options = append(options, FilterOption{
			Label: trainingLabel(offset),
			Code:  strconv.Itoa(offset),
		})
	}
	return append(options,
		FilterOption{Label: "Individual Training", Code: IndicatorIndividual},
		FilterOption{Label: "No Category", Code: IndicatorNoCategory},
	)
}

func trainingLabel(offset int) string {
	switch {
	case offset == 0:
		return "Matchday Training"
	case offset > 0:
		return fmt.Sprintf("+%d Training", offset)
	default:
		return fmt.Sprintf("%d Training", offset)
	}
}

func MatchFilterOptions() []FilterOption {
	return append([]FilterOption(nil), matchFilterOptions...)
}

func TrainingFilterOptions() []FilterOption {
	return append([]FilterOption(nil), trainingFilterOptions...)
}

func ResolveFilterCode(label string) (string, bool) {
	code, ok := labelToCode[label]
	return code, ok
}

func FilterLabel(code string) (string, bool) {
	label, ok := codeToLabel[code]
	return label, ok
}

// CanonicalIndicator normalizes a training indicator: signed integers lose
// their plus sign and padding, sentinel strings are lowercased.
func CanonicalIndicator(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return IndicatorNoCategory
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return strconv.Itoa(n)
	}
	return strings.ToLower(raw)
}

// ProgressFilterFiltration keeps every finished session matching any selected code.
// Nothing selected yields an empty result.
func ProgressFilterFiltration(state FilterState, sessions []Session) []Session {
	filtered := make([]Session, 0)
	for _, s := range finishedOnly(sessions) {
		if matchesFilter(state, s) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func matchesFilter(state FilterState, s Session) bool {
	switch v := s.(type) {
	case Match:
		return state[FilterAllMatches] || state[string(v.Result)]
	case Training:
		return state[v.Indicator]
	default:
		return false
	}
}
