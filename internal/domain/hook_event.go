package domain

import (
	"encoding/json"
	"fmt"
)

// HookEventBase contains fields common to all hook events coding
// assistants write to stdin of the hook command.
type HookEventBase struct {
	SessionID     string `json:"session_id"`
	Cwd           string `json:"cwd"`
	HookEventName string `json:"hook_event_name"`
}

// UserPromptSubmitInput is sent when the user submits a prompt.
type UserPromptSubmitInput struct {
	HookEventBase
	Prompt string `json:"prompt"`
}

// StopInput is sent when the assistant finishes responding.
type StopInput struct {
	HookEventBase
	StopHookActive bool `json:"stop_hook_active"`
}

// SessionEndInput is sent when a session ends.
type SessionEndInput struct {
	HookEventBase
	Reason string `json:"reason"`
}

// ParseHookEvent parses raw JSON into the appropriate typed event struct.
func ParseHookEvent(data []byte) (any, error) {
	var base HookEventBase
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to parse hook event: %w", err)
	}

	if base.HookEventName == "" {
		return nil, fmt.Errorf("missing hook_event_name")
	}

	switch base.HookEventName {
	case "UserPromptSubmit":
		var event UserPromptSubmitInput
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse UserPromptSubmit event: %w", err)
		}
		return &event, nil

	case "Stop":
		var event StopInput
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse Stop event: %w", err)
		}
		return &event, nil

	case "SessionEnd":
		var event SessionEndInput
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse SessionEnd event: %w", err)
		}
		return &event, nil

	default:
		return nil, fmt.Errorf("unknown hook event: %s", base.HookEventName)
	}
}
