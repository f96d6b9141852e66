package training

import "time"

// SessionDate is the day/month pair entered as "DD/MM" in the source sheet.
// No calendar validation is applied; 31/02 is kept as day 31 of month 2.
type SessionDate struct {
	Day   int
	Month int
}

// Record is one validated training-session row.
type Record struct {
	RowNumber        int
	SubmittedOn      time.Time
	InstructorEmail  string
	SessionDate      SessionDate
	InstructorName   *string
	InstructorSchool *string
	TrainingHours    float64
	PayingFramework  string

	TeachingContent     *string
	LearningOutcomes    *string
	Atmosphere          *string
	TechnicalProblems   *string
	ConversationSummary *string
	Remarks             *string
	GeneralSituation    *string
}
