package generate

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/events"
	"github.com/go-go-golems/arbor/pkg/inference"
	"github.com/go-go-golems/arbor/pkg/models"
	"github.com/go-go-golems/arbor/pkg/threads"
)

var (
	// ErrBusy is returned when a generation run is already in flight. Runs
	// are serialized; the caller retries once the current run finishes.
	ErrBusy = errors.New("a generation is already running")

	ErrInvalidCount = errors.New("reply count must be at least 1")

	ErrTargetNotFound = errors.New("target message not found")
)

// Orchestrator drives AI reply generation against the thread store. A run
// produces count sibling replies under one target message, one at a time;
// each iteration re-resolves the target's ancestor chain against the current
// tree, so edits and replies landing mid-run are picked up by subsequent
// iterations.
type Orchestrator struct {
	store     *threads.Store
	registry  *models.Registry
	engine    inference.Engine
	publisher *events.PublisherManager
	onReply   func(conversation.NodeID)

	mu         sync.Mutex
	generating bool
}

type Option func(*Orchestrator)

func WithPublisherManager(publisher *events.PublisherManager) Option {
	return func(o *Orchestrator) {
		o.publisher = publisher
	}
}

// WithOnReply registers a callback invoked after each reply is added, with
// the new message's id. The UI uses it to move the selection onto each reply
// as it appears.
func WithOnReply(onReply func(conversation.NodeID)) Option {
	return func(o *Orchestrator) {
		o.onReply = onReply
	}
}

func NewOrchestrator(
	store *threads.Store,
	registry *models.Registry,
	engine inference.Engine,
	options ...Option,
) *Orchestrator {
	ret := &Orchestrator{
		store:    store,
		registry: registry,
		engine:   engine,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// IsGenerating reports whether a run is currently in flight.
func (o *Orchestrator) IsGenerating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating
}

func (o *Orchestrator) acquire() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generating {
		return false
	}
	o.generating = true
	return true
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generating = false
}

func (o *Orchestrator) publish(event events.Event) {
	if o.publisher != nil {
		o.publisher.PublishBlind(event)
	}
}

// GenerateReplies adds count AI replies under the target message. On failure
// the run aborts: replies produced so far are kept, the remaining iterations
// are skipped and the error is returned after the busy flag is cleared.
func (o *Orchestrator) GenerateReplies(
	ctx context.Context,
	threadID string,
	targetID conversation.NodeID,
	count int,
) error {
	if count < 1 {
		return ErrInvalidCount
	}
	if !o.acquire() {
		return ErrBusy
	}
	defer o.release()

	if _, ok := o.store.Messages(threadID); !ok {
		return errors.Errorf("unknown thread %s", threadID)
	}

	o.publish(events.NewGenerationStartEvent(threadID, targetID.String(), count))
	log.Debug().
		Str("thread_id", threadID).
		Str("target_id", targetID.String()).
		Int("count", count).
		Msg("generation run started")

	produced := 0
	for i := 0; i < count; i++ {
		if err := o.generateOne(ctx, threadID, targetID, i); err != nil {
			o.publish(events.NewErrorEvent(threadID, err))
			o.publish(events.NewGenerationDoneEvent(threadID, produced))
			return errors.Wrapf(err, "generation aborted after %d of %d replies", produced, count)
		}
		produced++
	}

	o.publish(events.NewGenerationDoneEvent(threadID, produced))
	return nil
}

func (o *Orchestrator) generateOne(
	ctx context.Context,
	threadID string,
	targetID conversation.NodeID,
	index int,
) error {
	// Resolve against the current tree on every iteration: a concurrent
	// delete of the target must abort the run, and content edits must reach
	// the prompt.
	forest, ok := o.store.Messages(threadID)
	if !ok {
		return errors.Errorf("unknown thread %s", threadID)
	}
	target := conversation.Find(forest, targetID)
	if target == nil {
		return ErrTargetNotFound
	}

	model := o.registry.Selected()
	chain := conversation.BuildContext(forest, targetID)
	prompt := inference.BuildPrompt(model.SystemPrompt, chain, target)

	content, err := o.engine.Complete(ctx, prompt, inference.Config{
		Model:       model.BaseModel,
		Temperature: model.Temperature,
		MaxTokens:   model.MaxTokens,
	})
	if err != nil {
		return errors.Wrap(err, "completion failed")
	}

	id, ok := o.store.AddMessage(threadID, targetID, content, conversation.PublisherAI)
	if !ok {
		return ErrTargetNotFound
	}

	o.publish(events.NewGenerationReplyEvent(threadID, id.String(), model.Name, content, index))
	if o.onReply != nil {
		o.onReply(id)
	}
	return nil
}
