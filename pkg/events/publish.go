package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog/log"
)

// PublisherManager distributes events to a set of Publishers. A publisher is
// "subscribed" to a topic; Publish serializes the event to JSON and delivers
// it to every publisher on the topic it was subscribed with.
//
// Outgoing messages carry a sequence number in the order Publish handled
// them.
type PublisherManager struct {
	publishers     map[string][]message.Publisher
	sequenceNumber uint64
	mutex          sync.Mutex
}

func NewPublisherManager() *PublisherManager {
	return &PublisherManager{
		publishers: make(map[string][]message.Publisher),
	}
}

func (s *PublisherManager) SubscribePublisher(topic string, publisher message.Publisher) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.publishers[topic] = append(s.publishers[topic], publisher)
}

func (s *PublisherManager) Publish(event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), b)
	msg.Metadata.Set("sequence_number", fmt.Sprintf("%d", s.sequenceNumber))
	s.sequenceNumber++

	for topic, publishers := range s.publishers {
		for _, publisher := range publishers {
			if err := publisher.Publish(topic, msg); err != nil {
				log.Warn().Err(err).Str("topic", topic).Msg("failed to publish")
			}
		}
	}

	return nil
}

// PublishBlind publishes and logs failures instead of returning them. Store
// and orchestrator notifications use it: a broken observer must not fail the
// mutation that triggered the event.
func (s *PublisherManager) PublishBlind(event Event) {
	if err := s.Publish(event); err != nil {
		log.Warn().Err(err).Msg("failed to publish")
	}
}
