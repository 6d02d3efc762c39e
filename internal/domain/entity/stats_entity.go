package entity

import (
	"math"
	"time"
)

// DailyStats counts answers for the calendar day of LastUpdated.
type DailyStats struct {
	Total       int       `json:"total"`
	Correct     int       `json:"correct"`
	Wrong       int       `json:"wrong"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// TopicStat holds lifetime counters for one named topic.
type TopicStat struct {
	Name    string `json:"name"`
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
	Wrong   int    `json:"wrong"`
}

type QuestionStats struct {
	Daily          DailyStats
	TotalQuestions int
	Topics         []TopicStat
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsCurrent reports whether the counters belong to now's calendar day.
func (d DailyStats) IsCurrent(now time.Time) bool {
	return !d.LastUpdated.IsZero() && sameDay(d.LastUpdated, now)
}

// At returns the counters as seen on now's day: stale counters read as zero.
func (d DailyStats) At(now time.Time) DailyStats {
	if d.IsCurrent(now) {
		return d
	}
	return DailyStats{LastUpdated: d.LastUpdated}
}

// RollDaily zeroes the daily counters when LastUpdated is unset or falls on
// a different calendar day than now (in now's location). It reports whether
// a reset happened.
func (s *QuestionStats) RollDaily(now time.Time) bool {
	if s.Daily.IsCurrent(now) {
		return false
	}
	s.Daily = DailyStats{LastUpdated: now}
	return true
}

// Topic returns a pointer to the named topic, appending a zeroed entry when
// it does not exist yet. Names match exactly.
func (s *QuestionStats) Topic(name string) *TopicStat {
	for i := range s.Topics {
		if s.Topics[i].Name == name {
			return &s.Topics[i]
		}
	}
	s.Topics = append(s.Topics, TopicStat{Name: name})
	return &s.Topics[len(s.Topics)-1]
}

// RecordAnswer applies one answered question at now.
func (s *QuestionStats) RecordAnswer(topic string, correct bool, now time.Time) {
	s.RollDaily(now)

	s.Daily.Total++
	if correct {
		s.Daily.Correct++
	} else {
		s.Daily.Wrong++
	}
	s.Daily.LastUpdated = now

	s.TotalQuestions++

	t := s.Topic(topic)
	t.Total++
	if correct {
		t.Correct++
	} else {
		t.Wrong++
	}
}

// Percent returns round(100*part/total) rounding halves up, or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(100*float64(part)/float64(total) + 0.5))
}

func (t TopicStat) AccuracyPercentage() int { return Percent(t.Correct, t.Total) }
func (t TopicStat) ErrorPercentage() int    { return Percent(t.Wrong, t.Total) }

// OverallAccuracy is the daily accuracy.
func (s QuestionStats) OverallAccuracy() int { return Percent(s.Daily.Correct, s.Daily.Total) }
