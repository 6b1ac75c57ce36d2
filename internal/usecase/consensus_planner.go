package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/domain/repository"
	"tripplanner-service/pkg/logger"
	"tripplanner-service/pkg/metrics"
	"tripplanner-service/pkg/utils"
)

// ConsensusPlanner turns several travelers' dates and preferences into a
// short list of candidate trips
type ConsensusPlanner struct {
	planningRepo repository.PlanningRepository
	imageRepo    repository.ImageRepository
	logger       logger.Logger
	metrics      *metrics.Metrics
}

// NewConsensusPlanner creates a new consensus planner. imageRepo may be nil,
// in which case cover images are never generated.
func NewConsensusPlanner(
	planningRepo repository.PlanningRepository,
	imageRepo repository.ImageRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *ConsensusPlanner {
	return &ConsensusPlanner{
		planningRepo: planningRepo,
		imageRepo:    imageRepo,
		logger:       logger,
		metrics:      metrics,
	}
}

// consensusQuery is the payload sent to the planner
type consensusQuery struct {
	Destination     string   `json:"destination"`
	Budget          string   `json:"budget,omitempty"`
	FeasibleWindows []string `json:"feasible_windows"`
	MinLengthDays   int      `json:"min_length_days"`
	Preferences     []string `json:"preferences"`
	Travelers       []string `json:"travelers"`
}

// GenerateConsensusPlans proposes at most entity.MaxProposedPlans trips that
// fit inside the group's feasible windows. Every returned plan has one day
// plan per day of its span. Cover images are best effort.
func (c *ConsensusPlanner) GenerateConsensusPlans(ctx context.Context, req entity.ConsensusRequest, generateImages bool) (*entity.ProposedPlans, error) {
	group, err := BuildGroupConsensus(req)
	if err != nil {
		return nil, err
	}

	windows := make([]string, len(group.Windows))
	for i, w := range group.Windows {
		windows[i] = w.String()
	}
	c.logger.Info("Generating consensus plans",
		"destination", req.Destination,
		"travelers", len(group.Travelers),
		"windows", windows,
		"minLengthDays", group.MinLengthDays)

	input, err := json.Marshal(consensusQuery{
		Destination:     req.Destination,
		Budget:          req.Budget,
		FeasibleWindows: windows,
		MinLengthDays:   group.MinLengthDays,
		Preferences:     group.Preferences,
		Travelers:       group.Travelers,
	})
	if err != nil {
		return nil, entity.NewPlanningServiceError(entity.StageConsensus, err)
	}

	started := time.Now()
	var proposed entity.ProposedPlans
	err = c.planningRepo.Invoke(ctx, repository.PlanningQuery{
		Stage:        entity.StageConsensus,
		Instructions: utils.CONSENSUS_INSTRUCTIONS,
		Input:        string(input),
		Schema:       utils.PROPOSED_PLANS_SCHEMA,
	}, &proposed)
	if err != nil {
		err = entity.NewPlanningServiceError(entity.StageConsensus, err)
		c.metrics.ObserveStage(entity.StageConsensus, started, err)
		c.logger.Error("Consensus planning failed", "error", err)
		return nil, err
	}

	plans := c.keepValidPlans(proposed.Plans, group)
	if len(plans) == 0 {
		err = entity.NewPlanningServiceError(entity.StageConsensus,
			fmt.Errorf("none of the %d proposed plans fit the feasible windows", len(proposed.Plans)))
		c.metrics.ObserveStage(entity.StageConsensus, started, err)
		c.logger.Error("Consensus planning failed", "error", err)
		return nil, err
	}
	c.metrics.ObserveStage(entity.StageConsensus, started, nil)

	if generateImages && c.imageRepo != nil {
		c.attachCoverImages(ctx, plans)
	}

	if c.metrics != nil {
		c.metrics.PlansProposed.Add(float64(len(plans)))
	}
	return &entity.ProposedPlans{Plans: plans}, nil
}

// keepValidPlans drops plans outside the feasible windows or with the wrong
// number of day plans, and keeps at most entity.MaxProposedPlans
func (c *ConsensusPlanner) keepValidPlans(proposed []entity.PreliminaryPlan, group *entity.GroupConsensus) []entity.PreliminaryPlan {
	plans := make([]entity.PreliminaryPlan, 0, entity.MaxProposedPlans)
	for _, plan := range proposed {
		if len(plans) == entity.MaxProposedPlans {
			break
		}
		if reason := invalidPlanReason(plan, group); reason != "" {
			c.logger.Warn("Dropping proposed plan", "name", plan.Name, "span", plan.Span().String(), "reason", reason)
			continue
		}
		plan.DurationDays = plan.Span().Days()
		plans = append(plans, plan)
	}
	return plans
}

func invalidPlanReason(plan entity.PreliminaryPlan, group *entity.GroupConsensus) string {
	span := plan.Span()
	switch {
	case span.Start.IsZero() || span.End.IsZero():
		return "missing start or end date"
	case span.End.Before(span.Start):
		return "end date before start date"
	case span.Days() < group.MinLengthDays:
		return fmt.Sprintf("shorter than %d days", group.MinLengthDays)
	case len(plan.DayPlans) != span.Days():
		return fmt.Sprintf("%d day plans for a %d day span", len(plan.DayPlans), span.Days())
	}
	for _, w := range group.Windows {
		if w.Covers(span) {
			return ""
		}
	}
	return "outside every feasible window"
}

// attachCoverImages generates one image per plan. A failed image leaves the
// plan's cover image empty.
func (c *ConsensusPlanner) attachCoverImages(ctx context.Context, plans []entity.PreliminaryPlan) {
	started := time.Now()
	var wg sync.WaitGroup
	for i := range plans {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prompt := fmt.Sprintf(utils.COVER_IMAGE_PROMPT, plans[i].Name, plans[i].Summary)
			image, err := c.imageRepo.Generate(ctx, prompt)
			if err != nil {
				c.logger.Warn("Cover image generation failed", "plan", plans[i].Name, "error", err)
				if c.metrics != nil {
					c.metrics.ImageFailures.Inc()
				}
				return
			}
			plans[i].CoverImage = &image
		}(i)
	}
	wg.Wait()
	c.metrics.ObserveStage(entity.StageImages, started, nil)
}

// BuildGroupConsensus intersects the travelers' dates, finds the feasible
// windows and merges the preferences
func BuildGroupConsensus(req entity.ConsensusRequest) (*entity.GroupConsensus, error) {
	if strings.TrimSpace(req.Destination) == "" {
		return nil, entity.NewStructuralError("consensus request has no destination")
	}
	if len(req.GroupedPreferences) == 0 {
		return nil, entity.NewStructuralError("consensus request has no travelers")
	}

	dates := intersectAvailability(req.ConsensusDates, req.Availability)
	if len(dates) == 0 {
		return nil, entity.NewStructuralError("travelers share no available dates")
	}

	minLength := minPreferredLength(req)
	windows := FeasibleWindows(dates, minLength)
	if len(windows) == 0 {
		return nil, entity.NewStructuralError("no run of consecutive shared dates lasts %d days", minLength)
	}

	group := &entity.GroupConsensus{
		Windows:       windows,
		MinLengthDays: minLength,
	}
	for _, pref := range req.GroupedPreferences {
		group.Preferences = append(group.Preferences, pref.RawPreferences...)
		name := pref.UserName
		if name == "" {
			name = pref.UserID
		}
		group.Travelers = append(group.Travelers, name)
	}
	return group, nil
}

// FeasibleWindows returns the maximal runs of consecutive dates that last at
// least minLength days. Dates are deduplicated and sorted first.
func FeasibleWindows(dates []entity.Date, minLength int) []entity.DateRange {
	if minLength < 1 {
		minLength = 1
	}
	sorted := uniqueSortedDates(dates)

	var windows []entity.DateRange
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j].AddDays(1).Equal(sorted[j+1]) {
			j++
		}
		run := entity.DateRange{Start: sorted[i], End: sorted[j]}
		if run.Days() >= minLength {
			windows = append(windows, run)
		}
		i = j + 1
	}
	return windows
}

// intersectAvailability narrows the candidate dates to the days every
// traveler with an availability list can make. Without candidate dates the
// first availability list is the starting set.
func intersectAvailability(candidates []entity.Date, availability []entity.ConsensusWindow) []entity.Date {
	current := uniqueSortedDates(candidates)
	for _, window := range availability {
		if len(window.AvailableDates) == 0 {
			continue
		}
		if len(current) == 0 && len(candidates) == 0 {
			current = uniqueSortedDates(window.AvailableDates)
			continue
		}
		available := make(map[string]bool, len(window.AvailableDates))
		for _, d := range window.AvailableDates {
			available[d.String()] = true
		}
		var kept []entity.Date
		for _, d := range current {
			if available[d.String()] {
				kept = append(kept, d)
			}
		}
		current = kept
	}
	return current
}

// minPreferredLength is the smallest trip length anyone asked for, or 1
func minPreferredLength(req entity.ConsensusRequest) int {
	lengths := []*int{req.PreferredLengthDays}
	for _, pref := range req.GroupedPreferences {
		lengths = append(lengths, pref.PreferredLengthDays)
	}
	for _, window := range req.Availability {
		lengths = append(lengths, window.PreferredLengthDays)
	}

	shortest := 0
	for _, l := range lengths {
		if l == nil || *l < 1 {
			continue
		}
		if shortest == 0 || *l < shortest {
			shortest = *l
		}
	}
	if shortest == 0 {
		return 1
	}
	return shortest
}

func uniqueSortedDates(dates []entity.Date) []entity.Date {
	seen := make(map[string]bool, len(dates))
	out := make([]entity.Date, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() || seen[d.String()] {
			continue
		}
		seen[d.String()] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
