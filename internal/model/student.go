package model

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
)

// Student 学生档案（推荐引擎只读）
type Student struct {
	BaseModel
	Index            string   `gorm:"size:32" json:"index"`
	StudyTrack       string   `gorm:"size:16;not null" json:"study_track"`
	CurrentYear      int      `gorm:"not null" json:"current_year" validate:"min=1"`
	StudyEffort      int      `gorm:"not null" json:"study_effort" validate:"min=1,max=5"`
	TotalCredits     int      `gorm:"default:0" json:"total_credits" validate:"min=0"`
	LevelCredits     []int    `gorm:"serializer:json" json:"level_credits" validate:"dive,min=0"`
	PassedSubjectIDs []uint   `gorm:"serializer:json;column:passed_subject_ids" json:"passed_subject_ids" validate:"unique"`
	Professors       []string `gorm:"serializer:json" json:"professors"`
	Assistants       []string `gorm:"serializer:json" json:"assistants"`
	Technologies     []string `gorm:"serializer:json" json:"technologies"`
	Evaluation       []string `gorm:"serializer:json" json:"evaluation"`
	Tags             []string `gorm:"serializer:json" json:"tags"`
}

func (Student) TableName() string {
	return "student"
}

// PassedSet returns the passed subject ids as a set.
func (s *Student) PassedSet() map[uint]struct{} {
	set := make(map[uint]struct{}, len(s.PassedSubjectIDs))
	for _, id := range s.PassedSubjectIDs {
		set[id] = struct{}{}
	}
	return set
}

// LevelCreditsAt returns the credits earned at the given level (1-based); missing
// entries count as zero.
func (s *Student) LevelCreditsAt(level int) int {
	if level < 1 || level > len(s.LevelCredits) {
		return 0
	}
	return s.LevelCredits[level-1]
}

// PassedFingerprint is a stable hash of the passed subject set, independent of order.
func (s *Student) PassedFingerprint() string {
	ids := append([]uint(nil), s.PassedSubjectIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(strconv.FormatUint(uint64(id), 10)))
		h.Write([]byte{','})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Preferences returns the student's preference list for a vocabulary category name.
func (s *Student) Preferences(category string) []string {
	switch category {
	case "professors":
		return s.Professors
	case "assistants":
		return s.Assistants
	case "technologies":
		return s.Technologies
	case "evaluation":
		return s.Evaluation
	case "tags":
		return s.Tags
	default:
		return nil
	}
}
