// Package notify publishes intake handoff events to Google Cloud Pub/Sub.
// The publisher is optional: a nil radar.Publisher disables handoff events
// without touching the rest of the pipeline.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// PubSub wraps a Pub/Sub topic publisher.
type PubSub struct {
	topic *pubsub.Topic
}

// NewPubSub creates a publisher for the named topic.
func NewPubSub(client *pubsub.Client, topic string) (*PubSub, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic name is required")
	}
	return &PubSub{topic: client.Topic(topic)}, nil
}

// Publish marshals the payload to JSON and publishes it, returning the server
// message id.
func (p *PubSub) Publish(ctx context.Context, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish message: %w", err)
	}
	return id, nil
}

// Stop flushes pending messages.
func (p *PubSub) Stop() {
	p.topic.Stop()
}
