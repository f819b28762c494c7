package module

// Study represents one imaging study within a patient record
type Study struct {
	StudyInstanceUID string
	StudyID          string
	StudyDate        Date
	StudyTime        Time
	AccessionNumber  string
	Description      string
}
