package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-specdraft-be/internal/dto"
	"ai-specdraft-be/internal/repository/contract"
	"ai-specdraft-be/pkg/events"
	"ai-specdraft-be/pkg/export"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IArchiverService interface {
	Consume(ctx context.Context) error
}

// archiverService listens for elaboration and refinement events and
// snapshots the rendered document to disk. Each session keeps one file
// that is overwritten as the draft evolves.
type archiverService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	sessionRepo contract.SessionStateRepository
	archiveDir  string
}

func NewArchiverService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sessionRepo contract.SessionStateRepository,
	archiveDir string,
) IArchiverService {
	return &archiverService{
		pubSub:      pubSub,
		topicName:   topicName,
		sessionRepo: sessionRepo,
		archiveDir:  archiveDir,
	}
}

func (as *archiverService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (as *archiverService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SessionEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal event message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Only snapshot-worthy events touch the archive.
	if payload.Type != events.TypeSpecDetailed && payload.Type != events.TypeSpecRefined {
		msg.Ack()
		return
	}

	state, err := as.sessionRepo.Load(ctx, payload.SessionId.String())
	if err != nil {
		log.Printf("[ERROR] Failed to load session %s: %v", payload.SessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if state == nil {
		log.Printf("[ERROR] Session not found: %s", payload.SessionId)
		msg.Ack() // Session reset or expired? Ack.
		return
	}

	markdown := export.Markdown(state.Document, state.Detailed, export.DefaultTitle, time.Now())
	if err := as.writeSnapshot(payload.SessionId.String(), markdown); err != nil {
		log.Printf("[ERROR] Failed to archive session %s: %v", payload.SessionId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Archived session %s after %s", payload.SessionId, payload.Type)
	msg.Ack()
}

func (as *archiverService) writeSnapshot(sessionID, markdown string) error {
	if err := os.MkdirAll(as.archiveDir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	path := filepath.Join(as.archiveDir, sessionID+".md")
	return os.WriteFile(path, []byte(markdown), 0644)
}
