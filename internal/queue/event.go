// Package queue defines message payloads exchanged over the broker and the
// background consumer that drains them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// EmailQueueName is the durable queue carrying outbound mail.
const EmailQueueName = "email.outbound"

// EmailQueuedEvent is published for every confirmation-code mail. The
// MessageID lets the transport side deduplicate redeliveries.
type EmailQueuedEvent struct {
	MessageID string `json:"message_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	QueuedAt  string `json:"queued_at"`
}

// NewEmailQueuedEvent stamps a payload with a fresh id and queue time.
func NewEmailQueuedEvent(from, to, subject, body string) EmailQueuedEvent {
	return EmailQueuedEvent{
		MessageID: uuid.NewString(),
		From:      from,
		To:        to,
		Subject:   subject,
		Body:      body,
		QueuedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}
