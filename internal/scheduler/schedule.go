package scheduler

import (
	"fmt"
	"time"
)

// DailyAt fires once a day at Hour:Minute wall-clock time in Location.
type DailyAt struct {
	Hour     int
	Minute   int
	Location *time.Location
}

func NewDailyAt(hour, minute int, loc *time.Location) (*DailyAt, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid time of day %02d:%02d", hour, minute)
	}
	if loc == nil {
		loc = time.Local
	}
	return &DailyAt{Hour: hour, Minute: minute, Location: loc}, nil
}

func (d *DailyAt) Next(t time.Time) time.Time {
	lt := t.In(d.Location)
	next := time.Date(lt.Year(), lt.Month(), lt.Day(), d.Hour, d.Minute, 0, 0, d.Location)
	if !next.After(lt) {
		next = time.Date(lt.Year(), lt.Month(), lt.Day()+1, d.Hour, d.Minute, 0, 0, d.Location)
	}
	return next
}

func (d *DailyAt) String() string {
	return fmt.Sprintf("daily at %02d:%02d %s", d.Hour, d.Minute, d.Location)
}

// Every fires at a fixed interval after the previous check.
type Every time.Duration

func (e Every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

func (e Every) String() string {
	return fmt.Sprintf("@every %s", time.Duration(e))
}
