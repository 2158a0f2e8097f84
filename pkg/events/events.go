package events

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type EventType string

const (
	// EventTypeThreadUpdated is published after every thread store mutation
	// so observers can re-render the affected tree.
	EventTypeThreadUpdated EventType = "thread-updated"

	EventTypeGenerationStart EventType = "generation-start"
	EventTypeGenerationReply EventType = "generation-reply"
	EventTypeGenerationDone  EventType = "generation-done"
	EventTypeError           EventType = "error"
)

// TopicUI is the topic UI observers subscribe to.
const TopicUI = "ui"

type Event interface {
	Type() EventType
}

type EventImpl struct {
	Type_ EventType `json:"type"`
}

func (e *EventImpl) Type() EventType {
	return e.Type_
}

func (e *EventImpl) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type_))
}

type EventThreadUpdated struct {
	EventImpl
	ThreadID  string `json:"threadID"`
	Operation string `json:"operation"`
}

func NewThreadUpdatedEvent(threadID string, operation string) *EventThreadUpdated {
	return &EventThreadUpdated{
		EventImpl: EventImpl{Type_: EventTypeThreadUpdated},
		ThreadID:  threadID,
		Operation: operation,
	}
}

type EventGenerationStart struct {
	EventImpl
	ThreadID string `json:"threadID"`
	TargetID string `json:"targetID"`
	Count    int    `json:"count"`
}

func NewGenerationStartEvent(threadID string, targetID string, count int) *EventGenerationStart {
	return &EventGenerationStart{
		EventImpl: EventImpl{Type_: EventTypeGenerationStart},
		ThreadID:  threadID,
		TargetID:  targetID,
		Count:     count,
	}
}

type EventGenerationReply struct {
	EventImpl
	ThreadID  string `json:"threadID"`
	MessageID string `json:"messageID"`
	ModelName string `json:"modelName"`
	Content   string `json:"content"`
	// Index of the reply within its generation run, starting at 0.
	Index int `json:"index"`
}

func NewGenerationReplyEvent(threadID string, messageID string, modelName string, content string, index int) *EventGenerationReply {
	return &EventGenerationReply{
		EventImpl: EventImpl{Type_: EventTypeGenerationReply},
		ThreadID:  threadID,
		MessageID: messageID,
		ModelName: modelName,
		Content:   content,
		Index:     index,
	}
}

type EventGenerationDone struct {
	EventImpl
	ThreadID string `json:"threadID"`
	// Produced is the number of replies actually added, which is lower than
	// the requested count when a run aborts on error.
	Produced int `json:"produced"`
}

func NewGenerationDoneEvent(threadID string, produced int) *EventGenerationDone {
	return &EventGenerationDone{
		EventImpl: EventImpl{Type_: EventTypeGenerationDone},
		ThreadID:  threadID,
		Produced:  produced,
	}
}

type EventError struct {
	EventImpl
	ThreadID string `json:"threadID"`
	ErrorMsg string `json:"error"`
}

func NewErrorEvent(threadID string, err error) *EventError {
	return &EventError{
		EventImpl: EventImpl{Type_: EventTypeError},
		ThreadID:  threadID,
		ErrorMsg:  err.Error(),
	}
}

// NewEventFromJSON decodes a serialized event back into its concrete type.
func NewEventFromJSON(b []byte) (Event, error) {
	var envelope EventImpl
	if err := json.Unmarshal(b, &envelope); err != nil {
		return nil, err
	}

	var ret Event
	switch envelope.Type_ {
	case EventTypeThreadUpdated:
		ret = &EventThreadUpdated{}
	case EventTypeGenerationStart:
		ret = &EventGenerationStart{}
	case EventTypeGenerationReply:
		ret = &EventGenerationReply{}
	case EventTypeGenerationDone:
		ret = &EventGenerationDone{}
	case EventTypeError:
		ret = &EventError{}
	default:
		return nil, errors.Errorf("unknown event type %q", envelope.Type_)
	}

	if err := json.Unmarshal(b, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
