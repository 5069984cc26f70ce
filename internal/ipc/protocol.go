package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandFullscreen CommandType = "FULLSCREEN"
	CommandOnTop      CommandType = "ONTOP"
	CommandBorder     CommandType = "BORDER"
	CommandResize     CommandType = "RESIZE"
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandGetScreens CommandType = "GET_SCREENS"
	CommandQuit       CommandType = "QUIT"
)

// Known reports whether the server accepts the command.
func (c CommandType) Known() bool {
	switch c {
	case CommandFullscreen, CommandOnTop, CommandBorder, CommandResize,
		CommandGetStatus, CommandGetScreens, CommandQuit:
		return true
	}
	return false
}

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SwitchMode selects how FULLSCREEN, ONTOP and BORDER change their flag.
type SwitchMode string

const (
	SwitchToggle SwitchMode = "toggle"
	SwitchOn     SwitchMode = "on"
	SwitchOff    SwitchMode = "off"
)

// ParseSwitchMode accepts toggle, on and off. Empty means toggle.
func ParseSwitchMode(s string) (SwitchMode, error) {
	switch SwitchMode(s) {
	case "", SwitchToggle:
		return SwitchToggle, nil
	case SwitchOn, SwitchOff:
		return SwitchMode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q (want toggle, on or off)", s)
}

// Apply returns the new value of a flag currently set to current.
func (m SwitchMode) Apply(current bool) bool {
	switch m {
	case SwitchOn:
		return true
	case SwitchOff:
		return false
	}
	return !current
}

// SwitchPayload is the payload of FULLSCREEN, ONTOP and BORDER.
type SwitchPayload struct {
	Mode SwitchMode `json:"mode,omitempty"`
}

// ResizePayload is the payload of RESIZE.
type ResizePayload struct {
	X             int  `json:"x"`
	Y             int  `json:"y"`
	Width         int  `json:"width"`
	Height        int  `json:"height"`
	ForcePosition bool `json:"force_position,omitempty"`
}

// Geometry is a window or screen rectangle.
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Window             uint32   `json:"window"`
	State              string   `json:"state"`
	Fullscreen         bool     `json:"fullscreen"`
	OnTop              bool     `json:"ontop"`
	Border             bool     `json:"border"`
	Strategy           string   `json:"strategy"`
	Capabilities       []string `json:"capabilities"`
	Probed             []string `json:"probed"`
	Geometry           Geometry `json:"geometry"`
	Screen             int      `json:"screen"`
	Display            string   `json:"display"`
	DisplayLocal       bool     `json:"display_local"`
	Composited         bool     `json:"composited"`
	PendingCompletions int      `json:"pending_completions"`
	UptimeSeconds      int64    `json:"uptime_seconds"`
}

// ScreenInfo represents information about a single head
type ScreenInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ScreensData represents the data returned by GET_SCREENS
type ScreensData struct {
	Screens []ScreenInfo `json:"screens"`
	// Selected is the head used for fullscreen, -1 without Xinerama.
	Selected int `json:"selected"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// DecodeSwitch reads a SwitchPayload. A missing payload means toggle.
func DecodeSwitch(payload json.RawMessage) (SwitchMode, error) {
	if len(payload) == 0 {
		return SwitchToggle, nil
	}
	var p SwitchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("invalid payload: %w", err)
	}
	return ParseSwitchMode(string(p.Mode))
}

// DecodeResize reads and checks a ResizePayload.
func DecodeResize(payload json.RawMessage) (ResizePayload, error) {
	var p ResizePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return ResizePayload{}, fmt.Errorf("invalid payload: %w", err)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return ResizePayload{}, fmt.Errorf("width and height must be > 0")
	}
	return p, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
