package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/internal/dto"
	"ai-specdraft-be/internal/mapper"
	"ai-specdraft-be/internal/pkg/serverutils"
	"ai-specdraft-be/pkg/draft/engine"
	"ai-specdraft-be/pkg/draft/store"
	"ai-specdraft-be/pkg/events"
	"ai-specdraft-be/pkg/export"

	"ai-specdraft-be/internal/repository/contract"
	pktNats "ai-specdraft-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IDraftService defines the drafting session surface.
type IDraftService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetState(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStateResponse, error)
	SubmitInput(ctx context.Context, request *dto.SubmitInputRequest) (*dto.SessionStateResponse, error)
	SubmitAnswers(ctx context.Context, request *dto.SubmitAnswersRequest) (*dto.SessionStateResponse, error)
	Reset(ctx context.Context, request *dto.ResetSessionRequest) (*dto.SessionStateResponse, error)
	ExportMarkdown(ctx context.Context, sessionId uuid.UUID) (*dto.ExportResponse, error)
}

type draftService struct {
	sessionRepo      contract.SessionStateRepository
	engine           *engine.Engine
	mapper           *mapper.SessionMapper
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	llmLogger        *log.Logger
}

func NewDraftService(
	sessionRepo contract.SessionStateRepository,
	eng *engine.Engine,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	llmLogger *log.Logger,
) IDraftService {
	return &draftService{
		sessionRepo:      sessionRepo,
		engine:           eng,
		mapper:           mapper.NewSessionMapper(),
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		llmLogger:        llmLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_draft.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-DRAFT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// NewLLMLogger opens the append-only LLM call log under ./logs.
func NewLLMLogger() *log.Logger {
	return initLLMLogger()
}

func (s *draftService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	id := uuid.New()
	state := store.NewWorkflowState(id.String())
	if err := s.sessionRepo.Save(ctx, state); err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: id}, nil
}

func (s *draftService) GetState(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStateResponse, error) {
	state, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return s.mapper.StateToResponse(state)
}

func (s *draftService) SubmitInput(ctx context.Context, request *dto.SubmitInputRequest) (*dto.SessionStateResponse, error) {
	prior, err := s.loadSession(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}

	rawInput := request.Text
	var target *string
	if request.Section != nil && constant.IsCatalogSection(*request.Section) {
		// Targeted gap input carries the section context and the text the
		// user already provided, so the merge sees the full picture.
		target = request.Section
		priorText := ""
		if existing := prior.Document[*request.Section]; existing != nil {
			priorText = *existing
		}
		rawInput = strings.TrimSpace(fmt.Sprintf("%s: %s %s", *request.Section, priorText, request.Text))
	}

	next := s.engine.Submit(ctx, prior, rawInput, target)
	if err := s.sessionRepo.Save(ctx, next); err != nil {
		return nil, err
	}

	if !prior.CanProceed && next.CanProceed {
		s.publishEvent(ctx, events.TypeSessionAdmitted, request.SessionId)
	}
	if !prior.IsSpecComplete && next.IsSpecComplete {
		s.publishEvent(ctx, events.TypeSpecCompleted, request.SessionId)
	}
	if !prior.IsDetailed && next.IsDetailed {
		s.publishEvent(ctx, events.TypeSpecDetailed, request.SessionId)
	}

	return s.mapper.StateToResponse(next)
}

func (s *draftService) SubmitAnswers(ctx context.Context, request *dto.SubmitAnswersRequest) (*dto.SessionStateResponse, error) {
	prior, err := s.loadSession(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}

	next := s.engine.SubmitAnswers(ctx, prior, request.Answers)
	if err := s.sessionRepo.Save(ctx, next); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TypeSpecRefined, request.SessionId)

	return s.mapper.StateToResponse(next)
}

func (s *draftService) Reset(ctx context.Context, request *dto.ResetSessionRequest) (*dto.SessionStateResponse, error) {
	if _, err := s.loadSession(ctx, request.SessionId); err != nil {
		return nil, err
	}

	state := store.NewWorkflowState(request.SessionId.String())
	if err := s.sessionRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TypeSessionReset, request.SessionId)

	return s.mapper.StateToResponse(state)
}

func (s *draftService) ExportMarkdown(ctx context.Context, sessionId uuid.UUID) (*dto.ExportResponse, error) {
	state, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	markdown := export.Markdown(state.Document, state.Detailed, export.DefaultTitle, time.Now())
	return &dto.ExportResponse{
		SessionId: sessionId,
		Markdown:  markdown,
	}, nil
}

func (s *draftService) loadSession(ctx context.Context, sessionId uuid.UUID) (*store.WorkflowState, error) {
	state, err := s.sessionRepo.Load(ctx, sessionId.String())
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, serverutils.NewHTTPError(fiber.StatusNotFound, "Session not found")
	}
	return state, nil
}

// publishEvent fans the event out to the in-process bus and, when
// configured, the NATS mirror. Event delivery is auxiliary so failures
// are logged, never surfaced to the caller.
func (s *draftService) publishEvent(ctx context.Context, eventType string, sessionId uuid.UUID) {
	payload, err := json.Marshal(dto.SessionEventMessage{
		Type:      eventType,
		SessionId: sessionId,
	})
	if err != nil {
		s.llmLogger.Printf("[WARN] Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.llmLogger.Printf("[WARN] Failed to publish %s event: %v", eventType, err)
	}

	if s.eventPublisher != nil {
		evt := events.NewSessionEvent(eventType, sessionId.String(), nil)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.llmLogger.Printf("[WARN] Failed to mirror %s event to NATS: %v", eventType, err)
		}
	}
}
