// internal/domain/models/settings.go
package models

// Selection status values.
const (
	SelectionOpen   = "open"
	SelectionClosed = "closed"
)

// CalendarStage is one step of the selection calendar.
type CalendarStage struct {
	Stage string `bson:"stage" json:"stage"`
	Date  string `bson:"date" json:"date"`
}

// SelectionDates are the headline dates of the selection process.
type SelectionDates struct {
	Opening string `bson:"opening" json:"opening"`
	Closing string `bson:"closing" json:"closing"`
	Exams   string `bson:"exams" json:"exams"`
	Results string `bson:"results" json:"results"`
}

// MembershipSettings is the singleton describing the admission process.
type MembershipSettings struct {
	EditalURL       string          `bson:"edital_url" json:"edital_url"`
	SelectionStatus string          `bson:"selection_status" json:"selection_status" validate:"oneof=open closed"`
	Rules           []string        `bson:"rules" json:"rules"`
	Calendar        []CalendarStage `bson:"calendar" json:"calendar"`
	Dates           SelectionDates  `bson:"dates" json:"dates"`
	UpdatedAt       Stamp           `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DefaultMembershipSettings is returned before an admin has saved anything.
func DefaultMembershipSettings() MembershipSettings {
	return MembershipSettings{
		SelectionStatus: SelectionClosed,
		Rules:           []string{},
		Calendar:        []CalendarStage{},
	}
}

// AppSettings is the singleton with site-wide presentation settings.
type AppSettings struct {
	LogoURL   string `bson:"logo_url" json:"logo_url"`
	UpdatedAt Stamp  `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
