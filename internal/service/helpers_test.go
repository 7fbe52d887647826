package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"conceptlab/internal/cache"
	"conceptlab/internal/llm"
	"conceptlab/internal/model"
)

// fakeLLM returns canned responses in call order and fails the calls listed in errs
type fakeLLM struct {
	mu        sync.Mutex
	calls     []llm.Request
	responses []string
	errs      map[int]error
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.calls)
	f.calls = append(f.calls, req)
	if err, ok := f.errs[idx]; ok {
		return "", err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recorder keeps every progress state it receives
type recorder struct {
	mu     sync.Mutex
	states []model.ProgressState
}

func (r *recorder) OnProgress(s model.ProgressState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) all() []model.ProgressState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ProgressState(nil), r.states...)
}

// tickingClock advances one second per reading
type tickingClock struct {
	t time.Time
}

func newClock() *tickingClock {
	return &tickingClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func testConcept() *model.Concept {
	return &model.Concept{
		ID:              "concept-001",
		Name:            "Argan Night Repair",
		Category:        "shampoo",
		Description:     "Overnight repair shampoo with argan oil",
		ReasonToBelieve: "Clinically tested formula",
		KeyIngredients:  []string{"argan oil", "keratin"},
		PriceTier:       model.PriceTierPremium,
		UsageFormat:     "shampoo",
		Version:         1,
	}
}

func testPersonas(names ...string) []model.Persona {
	out := make([]model.Persona, 0, len(names))
	for i, name := range names {
		out = append(out, model.Persona{
			ID:                "persona-" + string(rune('a'+i)),
			Name:              name,
			Age:               30 + i,
			City:              "Monterrey",
			SocioeconomicTier: model.TierC,
			Journey:           model.PurchaseJourney{PriceSensitivity: 6},
		})
	}
	return out
}

func transcript(name string, responses ...string) model.InterviewTranscript {
	t := model.InterviewTranscript{PersonaID: "id-" + name, PersonaName: name, ConceptID: "concept-001"}
	for i, r := range responses {
		t.Exchanges = append(t.Exchanges, model.Exchange{
			Question: "Question " + string(rune('1'+i)),
			Response: r,
			Tone:     model.ToneNeutral,
		})
	}
	return t
}

func interviewsResult(transcripts ...model.InterviewTranscript) *model.InterviewsResult {
	return &model.InterviewsResult{Concept: *testConcept(), Transcripts: transcripts}
}

type memPersonas struct {
	mu   sync.Mutex
	byID map[string]model.Persona
}

func newMemPersonas(personas ...model.Persona) *memPersonas {
	m := &memPersonas{byID: map[string]model.Persona{}}
	for _, p := range personas {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memPersonas) Upsert(_ context.Context, p *model.Persona) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = *p
	return nil
}

func (m *memPersonas) UpsertMany(_ context.Context, ps []model.Persona) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return len(ps), nil
}

func (m *memPersonas) GetByID(_ context.Context, id string) (*model.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memPersonas) GetByIDs(_ context.Context, ids []string) ([]model.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Persona{}
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPersonas) List(_ context.Context) ([]model.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Persona, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memConcepts struct {
	mu   sync.Mutex
	byID map[string]model.Concept
}

func newMemConcepts(concepts ...model.Concept) *memConcepts {
	m := &memConcepts{byID: map[string]model.Concept{}}
	for _, c := range concepts {
		m.byID[c.ID] = c
	}
	return m
}

func (m *memConcepts) Upsert(_ context.Context, c *model.Concept) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = *c
	return nil
}

func (m *memConcepts) GetByID(_ context.Context, id string) (*model.Concept, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memConcepts) List(_ context.Context) ([]model.Concept, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Concept, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memEvaluations struct {
	mu    sync.Mutex
	items map[string]model.Evaluation
}

func newMemEvaluations() *memEvaluations {
	return &memEvaluations{items: map[string]model.Evaluation{}}
}

func (m *memEvaluations) SaveMany(_ context.Context, evs []model.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range evs {
		m.items[ev.ConceptID+":"+ev.PersonaID] = ev
	}
	return nil
}

func (m *memEvaluations) GetByConcept(_ context.Context, conceptID string) ([]model.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Evaluation{}
	for _, ev := range m.items {
		if ev.ConceptID == conceptID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonaID < out[j].PersonaID })
	return out, nil
}

type memInsights struct {
	mu    sync.Mutex
	items map[string]model.ConceptInsights
	sets  int
}

func newMemInsights() *memInsights {
	return &memInsights{items: map[string]model.ConceptInsights{}}
}

func (m *memInsights) Get(_ context.Context, id string) (*model.ConceptInsights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *memInsights) Set(_ context.Context, in *model.ConceptInsights) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[in.ConceptID] = *in
	m.sets++
	return nil
}

func (m *memInsights) Invalidate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type memRanking struct {
	mu     sync.Mutex
	scores map[string]float64
}

func newMemRanking() *memRanking {
	return &memRanking{scores: map[string]float64{}}
}

func (m *memRanking) UpdateScore(_ context.Context, id string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[id] = score
	return nil
}

func (m *memRanking) GetTop(_ context.Context, limit int) ([]cache.RankingEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []cache.RankingEntry{}
	for id, s := range m.scores {
		out = append(out, cache.RankingEntry{ConceptID: id, Score: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (m *memRanking) GetRank(_ context.Context, id string) (int64, error) {
	top, _ := m.GetTop(context.Background(), len(m.scores))
	for _, e := range top {
		if e.ConceptID == id {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}

type memRuns struct {
	mu   sync.Mutex
	byID map[string]model.Run
	log  []model.RunStatus
}

func newMemRuns() *memRuns {
	return &memRuns{byID: map[string]model.Run{}}
}

func (m *memRuns) Create(_ context.Context, r *model.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[r.ID] = *r
	m.log = append(m.log, r.Status)
	return nil
}

func (m *memRuns) GetByID(_ context.Context, id string) (*model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memRuns) Update(_ context.Context, r *model.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[r.ID] = *r
	m.log = append(m.log, r.Status)
	return nil
}

func (m *memRuns) ListByConcept(_ context.Context, conceptID string) ([]model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Run{}
	for _, r := range m.byID {
		if r.ConceptID == conceptID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRuns) statuses() []model.RunStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.RunStatus(nil), m.log...)
}

type memReports struct {
	mu          sync.Mutex
	transcripts map[string][]model.InterviewTranscript
	reports     map[string]model.ConsolidatedReport
}

func newMemReports() *memReports {
	return &memReports{transcripts: map[string][]model.InterviewTranscript{}, reports: map[string]model.ConsolidatedReport{}}
}

func (m *memReports) SaveTranscripts(_ context.Context, runID string, res *model.InterviewsResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcripts[runID] = res.Transcripts
	return nil
}

func (m *memReports) GetTranscripts(_ context.Context, runID string) ([]model.InterviewTranscript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcripts[runID], nil
}

func (m *memReports) SaveReport(_ context.Context, r *model.ConsolidatedReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.RunID] = *r
	return nil
}

func (m *memReports) GetReport(_ context.Context, runID string) (*model.ConsolidatedReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[runID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

type memProgress struct {
	mu     sync.Mutex
	states map[string]model.ProgressState
}

func newMemProgress() *memProgress {
	return &memProgress{states: map[string]model.ProgressState{}}
}

func (m *memProgress) Get(_ context.Context, runID string) (*model.ProgressState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[runID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memProgress) Set(_ context.Context, s model.ProgressState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.RunID] = s
	return nil
}

type broadcast struct {
	runID   string
	msgType string
	payload interface{}
}

type fakeBroadcaster struct {
	mu           sync.Mutex
	sent         []broadcast
	disconnected []string
}

func (f *fakeBroadcaster) BroadcastToRun(runID, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, broadcast{runID, msgType, payload})
}

func (f *fakeBroadcaster) DisconnectRun(runID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = append(f.disconnected, runID)
}

func (f *fakeBroadcaster) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, b := range f.sent {
		out = append(out, b.msgType)
	}
	return out
}
