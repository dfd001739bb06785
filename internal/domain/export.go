package domain

// ExportRow is a single row in the flat race export: one row per race with
// status computed for the export day and durations already formatted.
// Invalid dates export Date as "" and keep RawDate for diagnosis.
type ExportRow struct {
	ID           string
	RawDate      string
	Date         string // "2006-01-02", or "" when invalid
	EventName    string
	RaceType     string
	City         string
	Region       string
	Distance     string
	Status       Status
	FinalTime    string
	PersonalBest bool
	TargetTime   string
	TargetPace   string
	WebsiteURL   string
}
