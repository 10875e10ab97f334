package model

// Subject 课程
type Subject struct {
	BaseModel
	Name     string       `gorm:"type:text;not null" json:"name"`
	Code     string       `gorm:"type:text;not null" json:"code"`
	Abstract string       `gorm:"type:text" json:"abstract,omitempty"`
	Info     *SubjectInfo `gorm:"foreignKey:SubjectID" json:"subject_info,omitempty"`
}

func (Subject) TableName() string {
	return "subject"
}

// SubjectInfo 课程详细信息
type SubjectInfo struct {
	SubjectID    uint         `gorm:"primaryKey" json:"-"`
	Level        int          `gorm:"not null" json:"level" validate:"oneof=1 2"`
	Semester     int          `gorm:"not null" json:"semester" validate:"min=1,max=8"`
	Season       Season       `gorm:"type:text;not null" json:"season" validate:"oneof=W S"`
	IsEasy       bool         `gorm:"not null" json:"is_easy"`
	Activated    bool         `gorm:"not null" json:"activated"`
	Participants []int        `gorm:"serializer:json" json:"participants" validate:"dive,min=0"`
	Mandatory    bool         `gorm:"not null" json:"mandatory"`
	MandatoryFor []string     `gorm:"serializer:json" json:"mandatory_for"`
	ElectiveFor  []string     `gorm:"serializer:json" json:"elective_for"`
	Prerequisite Prerequisite `gorm:"type:json" json:"prerequisite"`
	Professors   []string     `gorm:"serializer:json" json:"professors"`
	Assistants   []string     `gorm:"serializer:json" json:"assistants"`
	Technologies []string     `gorm:"serializer:json" json:"technologies"`
	Tags         []string     `gorm:"serializer:json" json:"tags"`
	Evaluation   []string     `gorm:"serializer:json" json:"evaluation"`
}

func (SubjectInfo) TableName() string {
	return "subject_info"
}

// Attributes returns the subject's term list for a vocabulary category name.
func (i *SubjectInfo) Attributes(category string) []string {
	switch category {
	case "professors":
		return i.Professors
	case "assistants":
		return i.Assistants
	case "technologies":
		return i.Technologies
	case "tags":
		return i.Tags
	case "evaluation":
		return i.Evaluation
	default:
		return nil
	}
}

// IsElectiveFor reports whether the subject is an elective for the given track.
func (i *SubjectInfo) IsElectiveFor(track string) bool {
	for _, t := range i.ElectiveFor {
		if t == track {
			return true
		}
	}
	return false
}

// AverageParticipants returns the mean of the recent headcounts, 0 when unknown.
func (i *SubjectInfo) AverageParticipants() float64 {
	if len(i.Participants) == 0 {
		return 0
	}
	sum := 0
	for _, p := range i.Participants {
		sum += p
	}
	return float64(sum) / float64(len(i.Participants))
}
