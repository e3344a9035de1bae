package models

// Stage is the position of a chat inside the onboarding dialog.
type Stage int

const (
	StageAgreement Stage = iota
	StageGender
	StageStyle
	StageInsight
	StageCity
	StageFrequency
	StageTime
)
