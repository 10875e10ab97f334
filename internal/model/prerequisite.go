package model

import (
	"bytes"
	"database/sql/driver"
	"fmt"

	"subject_recommender/internal/util"

	"github.com/goccy/go-json"
)

// PrerequisiteKind 先修条件类型
type PrerequisiteKind int

const (
	NoPrerequisite PrerequisiteKind = iota
	CreditThreshold
	RequiredAnySubject
)

func (k PrerequisiteKind) String() string {
	switch k {
	case CreditThreshold:
		return "credits"
	case RequiredAnySubject:
		return "subjects"
	default:
		return "none"
	}
}

// Prerequisite is stored as {"credits": N} or {"subjects": [id, ...]}; only one
// of the two keys may be present.
type Prerequisite struct {
	Kind       PrerequisiteKind
	Credits    int
	SubjectIDs []uint
}

func NewCreditThreshold(credits int) Prerequisite {
	if credits <= 0 {
		return Prerequisite{}
	}
	return Prerequisite{Kind: CreditThreshold, Credits: credits}
}

func NewRequiredAnySubject(ids ...uint) Prerequisite {
	if len(ids) == 0 {
		return Prerequisite{}
	}
	return Prerequisite{Kind: RequiredAnySubject, SubjectIDs: append([]uint(nil), ids...)}
}

// SatisfiedBy checks the prerequisite against a student's credits and passed subjects.
func (p Prerequisite) SatisfiedBy(totalCredits int, passed map[uint]struct{}) bool {
	switch p.Kind {
	case CreditThreshold:
		return totalCredits >= p.Credits
	case RequiredAnySubject:
		for _, id := range p.SubjectIDs {
			if _, ok := passed[id]; ok {
				return true
			}
		}
		return false
	default:
		return true
	}
}

type prerequisiteWire struct {
	Credits  *int   `json:"credits,omitempty"`
	Subjects []uint `json:"subjects,omitempty"`
}

func (p Prerequisite) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case CreditThreshold:
		c := p.Credits
		return json.Marshal(prerequisiteWire{Credits: &c})
	case RequiredAnySubject:
		return json.Marshal(prerequisiteWire{Subjects: p.SubjectIDs})
	default:
		return []byte("{}"), nil
	}
}

func (p *Prerequisite) UnmarshalJSON(data []byte) error {
	*p = Prerequisite{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("%w: %v", util.ErrMalformedPrerequisite, err)
	}
	for key := range raw {
		if key != "credits" && key != "subjects" {
			return fmt.Errorf("%w: unknown key %q", util.ErrMalformedPrerequisite, key)
		}
	}

	creditsRaw, hasCredits := raw["credits"]
	subjectsRaw, hasSubjects := raw["subjects"]
	if hasCredits && hasSubjects {
		return fmt.Errorf("%w: credits and subjects are mutually exclusive", util.ErrMalformedPrerequisite)
	}

	switch {
	case hasCredits:
		var credits int
		if err := json.Unmarshal(creditsRaw, &credits); err != nil {
			return fmt.Errorf("%w: credits: %v", util.ErrMalformedPrerequisite, err)
		}
		if credits < 0 {
			return fmt.Errorf("%w: negative credits %d", util.ErrMalformedPrerequisite, credits)
		}
		*p = NewCreditThreshold(credits)
	case hasSubjects:
		var ids []uint
		if err := json.Unmarshal(subjectsRaw, &ids); err != nil {
			return fmt.Errorf("%w: subjects: %v", util.ErrMalformedPrerequisite, err)
		}
		*p = NewRequiredAnySubject(ids...)
	}
	return nil
}

// Value 实现 driver.Valuer，以 JSON 存储
func (p Prerequisite) Value() (driver.Value, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (p *Prerequisite) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = Prerequisite{}
		return nil
	case []byte:
		return p.UnmarshalJSON(v)
	case string:
		return p.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("%w: unsupported column type %T", util.ErrMalformedPrerequisite, value)
	}
}
