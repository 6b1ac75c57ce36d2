package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/domain/repository"
)

// fakePlanningRepo answers each stage with a canned value or error
type fakePlanningRepo struct {
	mu       sync.Mutex
	answers  map[string]interface{}
	failures map[string]error
	calls    map[string]int
	queries  []repository.PlanningQuery
}

func newFakePlanningRepo() *fakePlanningRepo {
	return &fakePlanningRepo{
		answers:  map[string]interface{}{},
		failures: map[string]error{},
		calls:    map[string]int{},
	}
}

func (f *fakePlanningRepo) Invoke(ctx context.Context, query repository.PlanningQuery, out interface{}) error {
	f.mu.Lock()
	f.calls[query.Stage]++
	f.queries = append(f.queries, query)
	answer, hasAnswer := f.answers[query.Stage]
	err := f.failures[query.Stage]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if !hasAnswer {
		return errors.New("no answer for stage " + query.Stage)
	}
	raw, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakePlanningRepo) callCount(stage string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[stage]
}

// fakeFlightRepo returns one option per leg unless the leg's destination
// is listed in failOn
type fakeFlightRepo struct {
	mu     sync.Mutex
	failOn map[string]error
	legs   []entity.FlightLeg
}

func (f *fakeFlightRepo) Search(ctx context.Context, leg entity.FlightLeg) ([]entity.FlightOption, error) {
	f.mu.Lock()
	f.legs = append(f.legs, leg)
	err := f.failOn[leg.DestinationCity]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return []entity.FlightOption{{
		DepartureAirport: leg.OriginCity,
		ArrivalAirport:   leg.DestinationCity,
		Airline:          "Test Air",
		Price:            "100",
	}}, nil
}

// fakeRouteSearcher records the routes it was asked to search
type fakeRouteSearcher struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeRouteSearcher) SearchRoute(ctx context.Context, plan *entity.FlightRoutePlan) (*entity.FlightRoutePlan, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return plan, nil
}

// fakeImageRepo fails for prompts listed in failOn
type fakeImageRepo struct {
	mu      sync.Mutex
	failOn  map[string]bool
	prompts []string
}

func (f *fakeImageRepo) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	for needle := range f.failOn {
		if strings.Contains(prompt, needle) {
			return "", errors.New("image service unavailable")
		}
	}
	return "base64-image", nil
}

func date(s string) entity.Date {
	return entity.MustParseDate(s)
}

func intPtr(v int) *int {
	return &v
}

// memoryStageRunRepo keeps stage runs keyed by run and stage, in first-record order
type memoryStageRunRepo struct {
	mu    sync.Mutex
	order []string
	runs  map[string]*entity.StageRun
}

func newMemoryStageRunRepo() *memoryStageRunRepo {
	return &memoryStageRunRepo{runs: map[string]*entity.StageRun{}}
}

func (m *memoryStageRunRepo) Record(ctx context.Context, run *entity.StageRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := run.RunID + "/" + run.Stage
	if _, ok := m.runs[key]; !ok {
		m.order = append(m.order, key)
	}
	copied := *run
	m.runs[key] = &copied
	return nil
}

func (m *memoryStageRunRepo) FindByConversationID(ctx context.Context, conversationID string) ([]*entity.StageRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var runs []*entity.StageRun
	for _, key := range m.order {
		if run := m.runs[key]; run.ConversationID == conversationID {
			runs = append(runs, run)
		}
	}
	return runs, nil
}
