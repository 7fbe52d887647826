package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"conceptlab/internal/cache"
	"conceptlab/internal/logging"
	"conceptlab/internal/model"
	"conceptlab/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunService starts two-phase runs in the background and serves their state
type RunService struct {
	catalog       *CatalogService
	runs          repository.RunRepo
	reports       repository.ReportRepo
	progress      cache.ProgressCache
	interviews    *InterviewService
	consolidation *ConsolidationService
	broadcaster   Broadcaster

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	newID   func() string
	now     func() time.Time
	log     *logrus.Entry
}

// NewRunService creates a new run service. progress may be nil.
func NewRunService(
	catalog *CatalogService,
	runs repository.RunRepo,
	reports repository.ReportRepo,
	progress cache.ProgressCache,
	interviews *InterviewService,
	consolidation *ConsolidationService,
) *RunService {
	ctx, cancel := context.WithCancel(context.Background())
	return &RunService{
		catalog:       catalog,
		runs:          runs,
		reports:       reports,
		progress:      progress,
		interviews:    interviews,
		consolidation: consolidation,
		baseCtx:       ctx,
		cancel:        cancel,
		newID:         func() string { return uuid.New().String() },
		now:           time.Now,
		log:           logging.For("run"),
	}
}

// SetBroadcaster sets the broadcaster for run lifecycle events
func (s *RunService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StartRun validates the input, records a pending run and executes both phases
// in the background. Invalid input is rejected before any external call.
func (s *RunService) StartRun(ctx context.Context, conceptID string, personaIDs []string, analystID string) (*model.Run, error) {
	concept, err := s.catalog.GetConcept(ctx, conceptID)
	if err != nil {
		return nil, err
	}
	if err := concept.Validate(); err != nil {
		return nil, err
	}
	personas, err := s.catalog.ResolvePanel(ctx, personaIDs)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(personas))
	for i := range personas {
		if err := personas[i].Validate(); err != nil {
			return nil, err
		}
		ids = append(ids, personas[i].ID)
	}

	run := &model.Run{
		ID:         s.newID(),
		ConceptID:  concept.ID,
		PersonaIDs: ids,
		AnalystID:  analystID,
		Status:     model.RunStatusPending,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	s.wg.Add(1)
	go func(run model.Run) {
		defer s.wg.Done()
		s.execute(&run, concept, personas)
	}(*run)

	return run, nil
}

func (s *RunService) execute(run *model.Run, concept *model.Concept, personas []model.Persona) {
	ctx := WithRunID(s.baseCtx, run.ID)
	log := s.log.WithFields(logrus.Fields{
		logging.FieldRunID:     run.ID,
		logging.FieldConceptID: run.ConceptID,
	})

	s.setStatus(ctx, run, model.RunStatusInterviewing)
	res, err := s.interviews.RunInterviews(ctx, concept, personas)
	if err != nil {
		s.fail(ctx, run, err)
		return
	}
	if err := s.reports.SaveTranscripts(ctx, run.ID, res); err != nil {
		log.WithError(err).Warn("[Run] transcripts not stored")
	}

	s.setStatus(ctx, run, model.RunStatusConsolidating)
	report, err := s.consolidation.RunAnalysis(ctx, res)
	if err != nil {
		s.fail(ctx, run, err)
		return
	}
	if err := s.reports.SaveReport(ctx, report); err != nil {
		s.fail(ctx, run, fmt.Errorf("save report: %w", err))
		return
	}

	completed := s.now().UTC()
	run.Status = model.RunStatusCompleted
	run.Fallback = report.IsFallback()
	run.CompletedAt = &completed
	s.update(ctx, run)

	log.Infof("[Run] completed: %s (%s)", report.Decision.Recommendation, report.Source)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRun(run.ID, MsgRunCompleted, map[string]interface{}{
			"runId":          run.ID,
			"recommendation": report.Decision.Recommendation,
			"confidence":     report.Decision.Confidence,
			"fallback":       run.Fallback,
		})
		s.broadcaster.DisconnectRun(run.ID)
	}
}

func (s *RunService) fail(ctx context.Context, run *model.Run, err error) {
	s.log.WithField(logging.FieldRunID, run.ID).WithError(err).Error("[Run] failed")
	completed := s.now().UTC()
	run.Status = model.RunStatusFailed
	run.Error = err.Error()
	run.CompletedAt = &completed
	s.update(ctx, run)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRun(run.ID, MsgRunFailed, map[string]string{"runId": run.ID, "error": run.Error})
		s.broadcaster.DisconnectRun(run.ID)
	}
}

func (s *RunService) setStatus(ctx context.Context, run *model.Run, status model.RunStatus) {
	run.Status = status
	s.update(ctx, run)
}

func (s *RunService) update(ctx context.Context, run *model.Run) {
	// a cancelled run context must not prevent recording the final state
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := s.runs.Update(ctx, run); err != nil {
		s.log.WithField(logging.FieldRunID, run.ID).WithError(err).Warn("[Run] status not stored")
	}
}

// GetRun returns the run record
func (s *RunService) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrNotFound
	}
	return run, nil
}

// ListRuns returns the runs of a concept, newest first
func (s *RunService) ListRuns(ctx context.Context, conceptID string) ([]model.Run, error) {
	if _, err := s.catalog.GetConcept(ctx, conceptID); err != nil {
		return nil, err
	}
	return s.runs.ListByConcept(ctx, conceptID)
}

// GetProgress returns the latest progress snapshot of a run
func (s *RunService) GetProgress(ctx context.Context, runID string) (*model.ProgressState, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	finished := run.Status == model.RunStatusCompleted || run.Status == model.RunStatusFailed
	if s.progress != nil {
		state, err := s.progress.Get(ctx, runID)
		if err != nil {
			return nil, err
		}
		if state != nil {
			// a failed run stops mid-phase, its last snapshot is not terminal
			if finished && state.Phase != model.PhaseCompleted {
				state.Phase = model.PhaseCompleted
				state.Action = string(run.Status)
				state.PersonaName = ""
			}
			return state, nil
		}
	}
	// no snapshot yet or already expired
	state := &model.ProgressState{RunID: run.ID, Phase: model.PhaseInterviews, Total: len(run.PersonaIDs), Action: string(run.Status)}
	if finished {
		state.Phase = model.PhaseCompleted
	}
	return state, nil
}

// GetReport returns the consolidated report of a completed run
func (s *RunService) GetReport(ctx context.Context, runID string) (*model.ConsolidatedReport, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	report, err := s.reports.GetReport(ctx, runID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		if run.Status == model.RunStatusFailed {
			return nil, fmt.Errorf("%w: run failed: %s", ErrRunNotReady, run.Error)
		}
		return nil, ErrRunNotReady
	}
	return report, nil
}

// GetTranscripts returns the Phase 1 transcripts of a run
func (s *RunService) GetTranscripts(ctx context.Context, runID string) ([]model.InterviewTranscript, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	transcripts, err := s.reports.GetTranscripts(ctx, runID)
	if err != nil {
		return nil, err
	}
	if transcripts == nil {
		return nil, ErrRunNotReady
	}
	return transcripts, nil
}

// Wait blocks until every started run has finished
func (s *RunService) Wait() {
	s.wg.Wait()
}

// Shutdown cancels in-flight runs and waits for them, or for ctx to expire
func (s *RunService) Shutdown(ctx context.Context) error {
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.New("runs still in flight at shutdown")
	}
}
