package entity

// MaxProposedPlans bounds the number of plans a consensus request returns
const MaxProposedPlans = 3

// UserPreference is one traveler's contribution to a group plan
type UserPreference struct {
	UserID              string   `json:"user_id" yaml:"user_id" validate:"required"`
	UserName            string   `json:"user_name" yaml:"user_name"`
	PreferredLengthDays *int     `json:"preferred_length_days,omitempty" yaml:"preferred_length_days" validate:"omitempty,gte=1"`
	RawPreferences      []string `json:"raw_preferences" yaml:"raw_preferences"`
}

// ConsensusWindow is one traveler's availability
type ConsensusWindow struct {
	UserID              string `json:"user_id" yaml:"user_id" validate:"required"`
	PreferredLengthDays *int   `json:"preferred_length_days,omitempty" yaml:"preferred_length_days" validate:"omitempty,gte=1"`
	AvailableDates      []Date `json:"available_dates" yaml:"available_dates"`
}

// ConsensusRequest is the input of the consensus plan generator
type ConsensusRequest struct {
	Destination         string            `json:"destination" yaml:"destination" validate:"required"`
	Budget              string            `json:"budget,omitempty" yaml:"budget"`
	PreferredLengthDays *int              `json:"preferred_length_days,omitempty" yaml:"preferred_length_days" validate:"omitempty,gte=1"`
	ConsensusDates      []Date            `json:"consensus_dates" yaml:"consensus_dates"`
	Availability        []ConsensusWindow `json:"availability,omitempty" yaml:"availability" validate:"omitempty,dive"`
	GroupedPreferences  []UserPreference  `json:"grouped_preferences" yaml:"grouped_preferences" validate:"required,min=1,dive"`
}

// GroupConsensus is the intersection of the travelers' dates and the union
// of their preferences
type GroupConsensus struct {
	Windows       []DateRange `json:"windows"`
	MinLengthDays int         `json:"min_length_days"`
	Preferences   []string    `json:"preferences"`
	Travelers     []string    `json:"travelers"`
}

// PlanActivity is one entry of a preliminary day plan
type PlanActivity struct {
	Name              string `json:"name" validate:"required"`
	Description       string `json:"description"`
	Location          string `json:"location"`
	PreliminaryLength string `json:"preliminary_length,omitempty"`
	Cost              *int   `json:"cost,omitempty"`
}

// PlanDay is the activity list of one day of a preliminary plan
type PlanDay struct {
	Activities []PlanActivity `json:"activities" validate:"dive"`
}

// PreliminaryPlan is one candidate trip proposed to the group
type PreliminaryPlan struct {
	DurationDays int       `json:"duration_days"`
	StartDate    Date      `json:"start_date"`
	EndDate      Date      `json:"end_date"`
	Name         string    `json:"name" validate:"required"`
	Summary      string    `json:"summary" validate:"required"`
	DayPlans     []PlanDay `json:"day_plans" validate:"required,dive"`
	CoverImage   *string   `json:"cover_image"`
}

// Span returns the plan's dates as a range
func (p PreliminaryPlan) Span() DateRange {
	return DateRange{Start: p.StartDate, End: p.EndDate}
}

// ProposedPlans is the ranked set of candidate plans
type ProposedPlans struct {
	Plans []PreliminaryPlan `json:"plans" validate:"dive"`
}
