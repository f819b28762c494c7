// Package module defines the domain entities extracted from a parsed
// dataset: Patient, Study, Series, and Image.
package module

import (
	"fmt"
	"strings"
	"time"
)

// PersonName represents a PN value: up to five caret-separated
// components, trailing components omittable.
type PersonName struct {
	FamilyName string
	GivenName  string
	MiddleName string
	Prefix     string
	Suffix     string
}

// ParsePersonName splits a PN value on carets. One- and two-component
// names are valid; extra components beyond five are ignored.
func ParsePersonName(s string) PersonName {
	var pn PersonName
	parts := strings.Split(s, "^")
	fields := []*string{&pn.FamilyName, &pn.GivenName, &pn.MiddleName, &pn.Prefix, &pn.Suffix}
	for i, p := range parts {
		if i >= len(fields) {
			break
		}
		*fields[i] = strings.TrimSpace(p)
	}
	return pn
}

func (p PersonName) String() string {
	s := fmt.Sprintf("%s^%s^%s^%s^%s", p.FamilyName, p.GivenName, p.MiddleName, p.Prefix, p.Suffix)
	return strings.TrimRight(s, "^")
}

// Display returns "Given Family" for human-facing output
func (p PersonName) Display() string {
	return strings.TrimSpace(p.GivenName + " " + p.FamilyName)
}

// Date represents a DA value
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// NewDate builds a Date from a time.Time
func NewDate(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseDate decodes a YYYYMMDD date value. Malformed or empty values
// return the zero Date.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return Date{}
	}
	var d Date
	if _, err := fmt.Sscanf(s, "%4d%2d%2d", &d.Year, &d.Month, &d.Day); err != nil {
		return Date{}
	}
	return d
}

// Time represents a TM value
type Time struct {
	Hour   int
	Minute int
	Second int
	Nano   int
}

func (t Time) String() string {
	return fmt.Sprintf("%02d%02d%02d.%06d", t.Hour, t.Minute, t.Second, t.Nano/1000)
}

// NewTime builds a Time from a time.Time
func NewTime(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nano: t.Nanosecond()}
}
