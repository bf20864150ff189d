// Command smoke exercises a running server end to end as an anonymous
// device: quota count, one chat turn, then the device's conversation list.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type client struct {
	baseURL  string
	deviceID string
	http     *http.Client
}

func (c *client) do(method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Id", c.deviceID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, err
}

func step(c *client, title, method, path string, body interface{}) bool {
	color.Yellow("\n%s  %s %s", title, method, path)
	status, respBody, err := c.do(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		return false
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, respBody, "", "  ") == nil {
		respBody = pretty.Bytes()
	}

	if status >= 400 {
		color.Red("Status: %d", status)
		fmt.Println(string(respBody))
		return false
	}
	color.Green("Status: %d", status)
	fmt.Println(string(respBody))
	return true
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000/api", "API base URL")
	message := flag.String("message", "How do I learn to code?", "chat message to send")
	flag.Parse()

	c := &client{
		baseURL:  *baseURL,
		deviceID: uuid.NewString(),
		http:     &http.Client{Timeout: 90 * time.Second},
	}
	color.Cyan("Smoke test against %s (device %s)", c.baseURL, c.deviceID)

	ok := step(c, "[1] Quota count", http.MethodGet, "/count", nil) &&
		step(c, "[2] Session", http.MethodGet, "/auth/me", nil) &&
		step(c, "[3] Anonymous chat", http.MethodPost, "/chat", map[string]interface{}{
			"messages": []map[string]string{{"role": "user", "content": *message}},
		}) &&
		step(c, "[4] Quota count after chat", http.MethodGet, "/count", nil) &&
		step(c, "[5] Create device conversation", http.MethodPost, "/conversations", nil) &&
		step(c, "[6] List device conversations", http.MethodGet, "/conversations", nil)

	if !ok {
		color.Red("\nSmoke test failed")
		os.Exit(1)
	}
	color.Green("\nSmoke test passed")
}
