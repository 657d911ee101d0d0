package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ExportNotifyMessage is pushed to the profile's channel on every export
// transition and forwarded verbatim to websocket clients.
type ExportNotifyMessage struct {
	Status        string `json:"status"`
	ExportID      string `json:"export_id"`
	State         string `json:"state,omitempty"`
	Progress      int    `json:"progress"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
	Filename      string `json:"filename,omitempty"`
	Pages         int    `json:"pages,omitempty"`
}

// Notify statuses.
const (
	NotifyProgress  = "progress"
	NotifyCompleted = "completed"
	NotifyError     = "error"
)

// Publisher is the subset of *redis.Client used for notifications.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NotifyChannel is the pub/sub channel of a profile.
func NotifyChannel(profile string) string {
	return fmt.Sprintf("cv_notify:%s", profile)
}

func publishNotify(ctx context.Context, pub Publisher, profile string, msg ExportNotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := NotifyChannel(profile)
	if err := pub.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
