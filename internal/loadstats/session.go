// Package loadstats derives load analytics (acute:chronic ratios, weekly effort,
// twelve-week overviews, benchmarks) from finished match and training sessions.
// Every function is pure: inputs are never mutated and missing data reads as zero.
package loadstats

import "time"

type Kind string

const (
	KindMatch    Kind = "Match"
	KindTraining Kind = "Training"
)

type Result string

const (
	ResultWin  Result = "w"
	ResultLoss Result = "l"
	ResultDraw Result = "d"
)

// Session is either a Match or a Training.
type Session interface {
	Base() SessionBase
	Kind() Kind
	isSession()
}

type SessionBase struct {
	ID      string
	Start   time.Time
	IsFinal bool
	// Report stays nil until the session has been processed.
	Report *Report
	RPE    map[string]int
}

type Match struct {
	SessionBase
	ScoreUs   int
	ScoreThem int
	Result    Result
}

type Training struct {
	SessionBase
	// Indicator is the canonical benchmark category, see CanonicalIndicator.
	Indicator string
}

func (m Match) Base() SessionBase { return m.SessionBase }
func (m Match) Kind() Kind        { return KindMatch }
func (Match) isSession()          {}

func (t Training) Base() SessionBase { return t.SessionBase }
func (t Training) Kind() Kind        { return KindTraining }
func (Training) isSession()          {}

type Report struct {
	Stats ReportStats `json:"stats"`
}

type ReportStats struct {
	Team    Stats            `json:"team"`
	Players map[string]Stats `json:"players,omitempty"`
}

type Stats struct {
	FullSession FullSession `json:"fullSession"`
}

type FullSession struct {
	PlayerLoad     PlayerLoad     `json:"playerLoad"`
	Duration       float64        `json:"duration"`
	IntensityZones IntensityZones `json:"intensityZones"`
	TimeOnIce      []Shift        `json:"timeOnIce,omitempty"`
}

type PlayerLoad struct {
	Total float64 `json:"total"`
}

// IntensityZones holds seconds spent in each zone.
type IntensityZones struct {
	Explosive float64 `json:"explosive"`
	VeryHigh  float64 `json:"veryHigh"`
	High      float64 `json:"high"`
	Moderate  float64 `json:"moderate"`
	Low       float64 `json:"low"`
}

// Shift is a single stint on ice, in seconds from session start.
type Shift struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShirtNumber int    `json:"shirtNumber"`
}

// Finished reports whether the session has a report and can contribute to aggregates.
func Finished(s Session) bool {
	return s != nil && s.Base().Report != nil
}

func finishedOnly(sessions []Session) []Session {
	finished := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if Finished(s) {
			finished = append(finished, s)
		}
	}
	return finished
}
