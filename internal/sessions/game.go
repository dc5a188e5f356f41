package sessions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/loadtrack/internal/loadstats"
)

const startTimeLayout = "15:04"

var (
	ErrUnknownGameType  = errors.New("unknown game type")
	ErrInvalidDate      = errors.New("invalid game date")
	ErrInvalidIndicator = errors.New("invalid training indicator")
)

// Game is the stored and exchanged document shape of a session.
type Game struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Date      string            `json:"date"`
	StartTime string            `json:"startTime,omitempty"`
	UTCDate   string            `json:"UTCdate,omitempty"`
	Status    GameStatus        `json:"status"`
	Benchmark *GameBenchmark    `json:"benchmark,omitempty"`
	Report    *loadstats.Report `json:"report,omitempty"`
	RPE       map[string]int    `json:"rpe,omitempty"`
}

// GameStatus tells whether the game is over and, for matches, how it ended.
type GameStatus struct {
	IsFinal     bool   `json:"isFinal"`
	ScoreUs     int    `json:"scoreUs,omitempty"`
	ScoreThem   int    `json:"scoreThem,omitempty"`
	ScoreResult string `json:"scoreResult,omitempty"`
}

type GameBenchmark struct {
	Indicator Indicator `json:"indicator"`
}

// Indicator is a training category. Exports carry it either as a number or as a string.
type Indicator string

func (i *Indicator) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = Indicator(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("indicator must be a number or a string: %w", err)
	}
	if v, err := n.Int64(); err == nil {
		*i = Indicator(strconv.FormatInt(v, 10))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("parse indicator %s: %w", n, err)
	}
	if f != math.Trunc(f) {
		// kept verbatim, ToSession rejects it
		*i = Indicator(n.String())
		return nil
	}
	*i = Indicator(strconv.FormatInt(int64(f), 10))
	return nil
}

// validate rejects numeric indicators that are not whole numbers.
func (i Indicator) validate() error {
	raw := strings.TrimSpace(string(i))
	if _, err := strconv.Atoi(raw); err == nil {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f != math.Trunc(f) {
		return fmt.Errorf("%w: %s", ErrInvalidIndicator, raw)
	}
	return nil
}

func (g Game) IsMatch() bool {
	return strings.EqualFold(g.Type, string(loadstats.KindMatch))
}

func (g Game) IsTraining() bool {
	return strings.EqualFold(g.Type, string(loadstats.KindTraining))
}

// StartTimeIn resolves when the game started. UTCdate wins when it parses,
// otherwise date and startTime are read in loc.
func (g Game) StartTimeIn(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if g.UTCDate != "" {
		if t, err := time.Parse(time.RFC3339, g.UTCDate); err == nil {
			return t, nil
		}
	}

	day, err := loadstats.ParseDay(g.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, g.Date)
	}
	if g.StartTime == "" {
		return day, nil
	}

	clock, err := time.Parse(startTimeLayout, strings.TrimSpace(g.StartTime))
	if err != nil {
		return day, nil
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// ToSession converts the document into a Match or a Training.
func (g Game) ToSession(loc *time.Location) (loadstats.Session, error) {
	start, err := g.StartTimeIn(loc)
	if err != nil {
		return nil, err
	}

	base := loadstats.SessionBase{
		ID:      g.ID,
		Start:   start,
		IsFinal: g.Status.IsFinal,
		Report:  g.Report,
		RPE:     g.RPE,
	}

	switch {
	case g.IsMatch():
		return loadstats.Match{
			SessionBase: base,
			ScoreUs:     g.Status.ScoreUs,
			ScoreThem:   g.Status.ScoreThem,
			Result:      g.matchResult(),
		}, nil
	case g.IsTraining():
		var indicator string
		if g.Benchmark != nil {
			if err := g.Benchmark.Indicator.validate(); err != nil {
				return nil, err
			}
			indicator = string(g.Benchmark.Indicator)
		}
		return loadstats.Training{
			SessionBase: base,
			Indicator:   loadstats.CanonicalIndicator(indicator),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, g.Type)
	}
}

func (g Game) matchResult() loadstats.Result {
	st := g.Status
	switch r := loadstats.Result(strings.ToLower(strings.TrimSpace(st.ScoreResult))); r {
	case loadstats.ResultWin, loadstats.ResultLoss, loadstats.ResultDraw:
		return r
	}
	if !st.IsFinal {
		return ""
	}
	switch {
	case st.ScoreUs > st.ScoreThem:
		return loadstats.ResultWin
	case st.ScoreUs < st.ScoreThem:
		return loadstats.ResultLoss
	default:
		return loadstats.ResultDraw
	}
}

// ToSessions converts every game it can, logging and skipping the rest.
func ToSessions(games []Game, loc *time.Location) []loadstats.Session {
	sessions := make([]loadstats.Session, 0, len(games))
	for _, g := range games {
		s, err := g.ToSession(loc)
		if err != nil {
			log.Warnf("skipping game [%s]: %s", g.ID, err)
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions
}
