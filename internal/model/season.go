package model

import (
	"fmt"
	"strings"

	"subject_recommender/internal/util"
)

// Season 课程开设学期
type Season string

const (
	SeasonWinter Season = "W"
	SeasonSummer Season = "S"
)

// Term 推荐请求的学期过滤条件，取值与原接口的 season 参数一致
type Term int

const (
	TermSummer Term = iota
	TermWinter
	TermAny
)

var AllTerms = []Term{TermSummer, TermWinter, TermAny}

func (t Term) String() string {
	switch t {
	case TermSummer:
		return "summer"
	case TermWinter:
		return "winter"
	case TermAny:
		return "any"
	default:
		return fmt.Sprintf("term(%d)", int(t))
	}
}

func (t Term) Valid() bool {
	return t >= TermSummer && t <= TermAny
}

// Matches reports whether a subject offered in s can be taken in term t.
func (t Term) Matches(s Season) bool {
	switch t {
	case TermAny:
		return true
	case TermSummer:
		return s == SeasonSummer
	case TermWinter:
		return s == SeasonWinter
	default:
		return false
	}
}

// ParseTerm accepts the numeric codes 0/1/2 and the names summer/winter/any.
func ParseTerm(s string) (Term, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "summer", "s":
		return TermSummer, nil
	case "1", "winter", "w":
		return TermWinter, nil
	case "2", "any", "":
		return TermAny, nil
	}
	return 0, fmt.Errorf("%w: %q", util.ErrInvalidSeason, s)
}
