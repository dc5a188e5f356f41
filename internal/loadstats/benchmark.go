package loadstats

import "fmt"

// TargetDeviation is the percentage band around the benchmark considered on target.
const TargetDeviation = 25

// NoBenchmarkPercentage is reported when there is nothing to compare against.
const NoBenchmarkPercentage = 100

type Verdict string

const (
	VerdictInfo     Verdict = "info"
	VerdictOnTarget Verdict = "on_target"
	VerdictAbove    Verdict = "above"
	VerdictBelow    Verdict = "below"
)

// Benchmark compares a session's load against its comparable sessions:
// the average for trainings, the highest load for matches.
// Available is false when there were no comparable sessions or the reference
// load is zero; Percentage is then NoBenchmarkPercentage.
type Benchmark struct {
	Kind       Kind    `json:"kind"`
	Load       float64 `json:"load"`
	Reference  float64 `json:"reference"`
	Percentage int     `json:"percentage"`
	Deviation  int     `json:"deviation"`
	Comparable int     `json:"comparable"`
	Available  bool    `json:"available"`
	Verdict    Verdict `json:"verdict"`
}

type PlayerStats struct {
	SessionID              string        `json:"sessionId"`
	PlayerID               string        `json:"playerId,omitempty"`
	TotalLoad              float64       `json:"totalLoad"`
	LowestLoad             float64       `json:"lowestLoad"`
	HighestLoad            float64       `json:"highestLoad"`
	AverageLoad            float64       `json:"averageLoad"`
	NumberOfSameTypeEvents int           `json:"numberOfSameTypeEvents"`
	LowestSessionID        string        `json:"lowestSessionId,omitempty"`
	HighestSessionID       string        `json:"highestSessionId,omitempty"`
	LoadPerMin             float64       `json:"loadPerMin"`
	Zones                  ZoneDurations `json:"zones"`
	Benchmark              Benchmark     `json:"benchmark"`
	Tooltip                string        `json:"tooltip"`
}

// FindComparableSessions returns the finished sessions that happened strictly
// before ref and belong to the same category: any earlier match for a match,
// an earlier training with the same indicator for a training. With a player
// set, only sessions that player took part in are kept. Input order is preserved.
func FindComparableSessions(all []Session, ref Session, playerID string) []Session {
	if ref == nil {
		return nil
	}
	refBase := ref.Base()

	var comparable []Session
	for _, s := range all {
		if !Finished(s) {
			continue
		}
		base := s.Base()
		if base.ID == refBase.ID || !base.Start.Before(refBase.Start) {
			continue
		}
		if playerID != "" && !participated(s, playerID) {
			continue
		}

		switch r := ref.(type) {
		case Match:
			if _, ok := s.(Match); ok {
				comparable = append(comparable, s)
			}
		case Training:
			if t, ok := s.(Training); ok && t.Indicator == r.Indicator {
				comparable = append(comparable, s)
			}
		}
	}
	return comparable
}

func AverageLoad(sessions []Session, playerID string) float64 {
	if len(sessions) == 0 {
		return 0
	}
	return totalLoad(sessions, playerID) / float64(len(sessions))
}

func MaxLoad(sessions []Session, playerID string) float64 {
	highest, _, ok := HighestAndLowestComparable(sessions, playerID)
	if !ok {
		return 0
	}
	return ExtractLoad(highest, playerID)
}

// HighestAndLowestComparable returns the boundary sessions by load.
// Ties keep the first session encountered.
func HighestAndLowestComparable(sessions []Session, playerID string) (highest, lowest Session, ok bool) {
	if len(sessions) == 0 {
		return nil, nil, false
	}
	highest, lowest = sessions[0], sessions[0]
	highLoad, lowLoad := ExtractLoad(highest, playerID), ExtractLoad(lowest, playerID)
	for _, s := range sessions[1:] {
		load := ExtractLoad(s, playerID)
		if load > highLoad {
			highest, highLoad = s, load
		}
		if load < lowLoad {
			lowest, lowLoad = s, load
		}
	}
	return highest, lowest, true
}

func PercentageOfBenchmark(ref Session, comparable []Session, playerID string) int {
	return NewBenchmark(ref, comparable, playerID).Percentage
}

func NewBenchmark(ref Session, comparable []Session, playerID string) Benchmark {
	b := Benchmark{
		Load:       ExtractLoad(ref, playerID),
		Comparable: len(comparable),
		Percentage: NoBenchmarkPercentage,
	}
	if ref != nil {
		b.Kind = ref.Kind()
	}

	switch ref.(type) {
	case Match:
		b.Reference = MaxLoad(comparable, playerID)
	case Training:
		b.Reference = AverageLoad(comparable, playerID)
	}

	if b.Comparable > 0 && b.Reference > 0 {
		b.Available = true
		b.Percentage = roundInt(b.Load / b.Reference * 100)
		b.Deviation = b.Percentage - 100
	}

	switch {
	case !b.Available:
		b.Verdict = VerdictInfo
	case b.Kind == KindMatch:
		b.Verdict = MatchVerdict(b.Comparable, b.Load, b.Reference)
	default:
		b.Verdict = TrainingVerdict(b.Comparable, b.Deviation)
	}
	return b
}

func TrainingVerdict(comparable, deviation int) Verdict {
	switch {
	case comparable == 0:
		return VerdictInfo
	case deviation > TargetDeviation:
		return VerdictAbove
	case deviation < -TargetDeviation:
		return VerdictBelow
	default:
		return VerdictOnTarget
	}
}

// MatchVerdict never reports above: the highest match defines the benchmark.
func MatchVerdict(comparable int, load, highest float64) Verdict {
	switch {
	case comparable == 0:
		return VerdictInfo
	case load >= highest:
		return VerdictOnTarget
	default:
		return VerdictBelow
	}
}

func Tooltip(b Benchmark) string {
	if b.Verdict == VerdictInfo || !b.Available {
		if b.Kind == KindMatch {
			return "No earlier matches to compare with yet."
		}
		return "No earlier sessions of this category to compare with yet."
	}

	if b.Kind == KindMatch {
		if b.Verdict == VerdictOnTarget {
			return fmt.Sprintf("Load reached the highest of %d earlier matches.", b.Comparable)
		}
		return fmt.Sprintf("Load is %d%% of the highest of %d earlier matches.", b.Percentage, b.Comparable)
	}

	switch b.Verdict {
	case VerdictAbove:
		return fmt.Sprintf("Load is %d%% above the average of %d comparable sessions.", b.Deviation, b.Comparable)
	case VerdictBelow:
		return fmt.Sprintf("Load is %d%% below the average of %d comparable sessions.", -b.Deviation, b.Comparable)
	default:
		return fmt.Sprintf("Load is within %d%% of the average of %d comparable sessions.", TargetDeviation, b.Comparable)
	}
}

// BuildPlayerStats summarizes ref against its comparable sessions in all.
func BuildPlayerStats(all []Session, ref Session, playerID string) PlayerStats {
	comparable := FindComparableSessions(all, ref, playerID)

	stats := PlayerStats{
		PlayerID:               playerID,
		TotalLoad:              ExtractLoad(ref, playerID),
		AverageLoad:            AverageLoad(comparable, playerID),
		NumberOfSameTypeEvents: len(comparable),
		LoadPerMin:             LoadPerMinute(ref, playerID),
		Zones:                  ExtractZoneDurations(ref, playerID),
		Benchmark:              NewBenchmark(ref, comparable, playerID),
	}
	if ref != nil {
		stats.SessionID = ref.Base().ID
	}
	if highest, lowest, ok := HighestAndLowestComparable(comparable, playerID); ok {
		stats.HighestLoad = ExtractLoad(highest, playerID)
		stats.HighestSessionID = highest.Base().ID
		stats.LowestLoad = ExtractLoad(lowest, playerID)
		stats.LowestSessionID = lowest.Base().ID
	}
	stats.Tooltip = Tooltip(stats.Benchmark)
	return stats
}
