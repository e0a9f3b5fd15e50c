package models

import "time"

type Clinic struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name          string
	State         string
	City          string
	PhoneWhatsApp string // digits, country code first
	Address       string

	Users []User
}

// Role: "doctor", "staff", "admin"
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GoogleSub   string `gorm:"uniqueIndex"`
	Role        string
	ClinicID    uint
	Phone       string
	DisplayName string
	Email       string
}

type Language struct {
	Code       string `gorm:"primaryKey;size:8"`
	NativeName string
}

type Form struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Slug        string `gorm:"uniqueIndex;size:60"`
	Version     string
	IsActive    bool `gorm:"default:true"`
	TitleEN     string
	Description string

	Questions []Question `gorm:"constraint:OnDelete:CASCADE"`
}

// Kind: "single", "multi", "text"
type Question struct {
	ID       uint   `gorm:"primaryKey"`
	FormID   uint   `gorm:"uniqueIndex:uq_question_order,priority:1"`
	Position int    `gorm:"uniqueIndex:uq_question_order,priority:2"`
	Key      string `gorm:"size:64"` // optional
	Kind     string `gorm:"default:single"`

	Options       []Option            `gorm:"constraint:OnDelete:CASCADE"`
	Localisations []QuestionLocalised `gorm:"constraint:OnDelete:CASCADE"`
}

type QuestionLocalised struct {
	ID         uint   `gorm:"primaryKey"`
	QuestionID uint   `gorm:"uniqueIndex:uq_q_loc,priority:1"`
	LangCode   string `gorm:"uniqueIndex:uq_q_loc,priority:2;size:8"`
	Text       string
}

type Option struct {
	ID         uint   `gorm:"primaryKey"`
	QuestionID uint   `gorm:"uniqueIndex:uq_opt_order,priority:1"`
	Position   int    `gorm:"uniqueIndex:uq_opt_order,priority:2"`
	Key        string `gorm:"size:64"`
	IsRedFlag  bool
	RedFlagID  *uint // set iff IsRedFlag

	RedFlag       *RedFlag
	Localisations []OptionLocalised `gorm:"constraint:OnDelete:CASCADE"`
}

type OptionLocalised struct {
	ID       uint   `gorm:"primaryKey"`
	OptionID uint   `gorm:"uniqueIndex:uq_opt_loc,priority:1"`
	LangCode string `gorm:"uniqueIndex:uq_opt_loc,priority:2;size:8"`
	Text     string
}

type RedFlag struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Slug        string `gorm:"uniqueIndex;size:64"`
	NameEN      string
	AtAGlanceEN string
	MiniCMEURL  string // inline fallbacks when no RedFlagVideo rows exist
	LongCMEURL  string

	Localisations []RedFlagLocalised `gorm:"constraint:OnDelete:CASCADE"`
	References    []Reference        `gorm:"many2many:redflag_references"`
	Videos        []RedFlagVideo     `gorm:"constraint:OnDelete:CASCADE"`
}

type RedFlagLocalised struct {
	ID                  uint   `gorm:"primaryKey"`
	RedFlagID           uint   `gorm:"uniqueIndex:uq_rf_loc,priority:1"`
	LangCode            string `gorm:"uniqueIndex:uq_rf_loc,priority:2;size:8"`
	Name                string
	AtAGlanceText       string
	PatientVideoYouTube string
}

type Reference struct {
	ID           uint `gorm:"primaryKey"`
	CitationText string
	DOIOrURL     string
}

// Host: "vimeo", "youtube"
type Video struct {
	ID          uint `gorm:"primaryKey"`
	Host        string
	VideoID     string
	TitleEN     string
	DurationSec int
}

func (v Video) URL() string {
	switch v.Host {
	case "vimeo":
		return "https://vimeo.com/" + v.VideoID
	case "youtube":
		return "https://www.youtube.com/watch?v=" + v.VideoID
	}
	return ""
}

// Type: "mini_cme", "long_cme", "patient"
type RedFlagVideo struct {
	ID        uint   `gorm:"primaryKey"`
	RedFlagID uint   `gorm:"uniqueIndex:uq_rf_video,priority:1"`
	VideoID   uint   `gorm:"uniqueIndex:uq_rf_video,priority:2"`
	Type      string `gorm:"uniqueIndex:uq_rf_video,priority:3"`

	Video Video
}

// PatientSession is issued by a clinic; its phone is the quota subject.
type PatientSession struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index:ix_patient_day,priority:2"`

	ClinicID     uint
	PatientPhone string `gorm:"index:ix_patient_day,priority:1"`

	Clinic Clinic
}

type FormSubmission struct {
	ID          uint      `gorm:"primaryKey"`
	Ref         string    `gorm:"uniqueIndex"` // uuid
	SessionID   uint      `gorm:"index:ix_session_day,priority:1"`
	FormID      uint
	FormVersion string
	SubmittedAt time.Time `gorm:"index:ix_session_day,priority:2"`
	LangCode    string

	Answers  []Answer            `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
	RedFlags []SubmissionRedFlag `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

type Answer struct {
	ID           uint `gorm:"primaryKey"`
	SubmissionID uint `gorm:"index"`
	QuestionKey  string
	OptionKey    string
}

type SubmissionRedFlag struct {
	ID           uint `gorm:"primaryKey"`
	SubmissionID uint `gorm:"index"`
	RedFlagID    uint
	Rank         int // order of first trigger
}

// UsageCounter backs the SQL quota store.
type UsageCounter struct {
	Subject string `gorm:"primaryKey"`
	Day     string `gorm:"primaryKey;index"`
	Action  string `gorm:"primaryKey"`
	Count   int
}
