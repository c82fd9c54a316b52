package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/corey/codelens/internal/ports"
)

// Client talks to a Server over its Unix socket.
type Client struct {
	sockPath string
}

// NewClient creates a client for the socket at sockPath.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath}
}

// Health returns the server's status.
func (c *Client) Health() (*HealthResult, error) {
	var result HealthResult
	if err := c.invoke(MethodHealth, nil, &result, 5*time.Second); err != nil {
		return nil, err
	}
	return &result, nil
}

// Lookup returns the stored record for a path relative to the project root.
// A missing record returns an error wrapping ports.ErrNotFound.
func (c *Client) Lookup(path string) (*ports.FileLines, error) {
	var rec ports.FileLines
	if err := c.invoke(MethodLookup, LookupParams{Path: path}, &rec, 5*time.Second); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Files lists the stored paths.
func (c *Client) Files() (*FilesResult, error) {
	var result FilesResult
	if err := c.invoke(MethodFiles, nil, &result, 5*time.Second); err != nil {
		return nil, err
	}
	return &result, nil
}

// Rescan asks the server to scan the project. Scans of large trees are slow,
// so the deadline is generous.
func (c *Client) Rescan() (*RescanResult, error) {
	var result RescanResult
	if err := c.invoke(MethodRescan, nil, &result, 5*time.Minute); err != nil {
		return nil, err
	}
	return &result, nil
}

// Shutdown asks the server to stop.
func (c *Client) Shutdown() error {
	return c.invoke(MethodShutdown, nil, nil, 5*time.Second)
}

// Ping checks if the server is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (c *Client) invoke(method string, params, result any, timeout time.Duration) error {
	resp, err := c.callWithTimeout(Request{ID: "1", Method: method, Params: params}, timeout)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return decodeParams(resp.Result, result)
}

func (c *Client) callWithTimeout(req Request, timeout time.Duration) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return nil, fmt.Errorf("empty response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.NotFound {
		return nil, fmt.Errorf("%s: %w", req.Method, ports.ErrNotFound)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("server error: %s", resp.Error)
	}
	return &resp, nil
}
