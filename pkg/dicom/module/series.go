package module

// Series represents one acquisition series within a study
type Series struct {
	SeriesInstanceUID string
	Modality          string
	SeriesNumber      int
	SeriesDate        Date
	SeriesTime        Time
	Description       string
	BodyPartExamined  string
}
