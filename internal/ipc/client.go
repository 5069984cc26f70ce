package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/vowin/internal/runtimepath"
)

// Client handles IPC communication with a running window
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for the socket at socketPath.
func NewClientWithPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vowin: %w (is a window running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("vowin error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) sendSwitch(cmd CommandType, mode SwitchMode) error {
	payload, err := json.Marshal(SwitchPayload{Mode: mode})
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
	}
	_, err = c.sendRequest(&Request{Command: cmd, Payload: payload})
	return err
}

// Fullscreen changes the fullscreen state.
func (c *Client) Fullscreen(mode SwitchMode) error {
	return c.sendSwitch(CommandFullscreen, mode)
}

// OnTop changes the stacking preference.
func (c *Client) OnTop(mode SwitchMode) error {
	return c.sendSwitch(CommandOnTop, mode)
}

// Border changes the decoration preference.
func (c *Client) Border(mode SwitchMode) error {
	return c.sendSwitch(CommandBorder, mode)
}

// Resize moves and resizes the windowed geometry.
func (c *Client) Resize(p ResizePayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal resize payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: CommandResize, Payload: payload})
	return err
}

// GetStatus retrieves the window status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetScreens retrieves head information
func (c *Client) GetScreens() (*ScreensData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetScreens})
	if err != nil {
		return nil, err
	}

	var screens ScreensData
	if err := json.Unmarshal(resp.Data, &screens); err != nil {
		return nil, fmt.Errorf("failed to parse screens data: %w", err)
	}
	return &screens, nil
}

// Quit asks the window to close.
func (c *Client) Quit() error {
	_, err := c.sendRequest(&Request{Command: CommandQuit})
	return err
}

// Ping checks if the window is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
