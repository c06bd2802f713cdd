// Package agi generates marketing copy for event pages through an external
// text-completion API. The provider is optional: quota errors, timeouts and
// missing configuration all degrade to canned copy so event creation never
// blocks on the AI vendor.
package agi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"eventra/utils"

	"github.com/julienschmidt/httprouter"
)

type CopyRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Tone     string `json:"tone"`
}

var fallbackCopy = []string{
	"Join us for %s — an experience you won't want to miss. Reserve your spot today!",
	"%s is almost here. Gather your friends, grab your tickets and be part of it.",
	"Don't just hear about %s afterwards — be there. Tickets are limited.",
	"Experience %s live. Great people, great moments, one unforgettable day.",
}

// FallbackCopy returns a deterministic canned blurb for the title, used
// whenever the completion API is unavailable.
func FallbackCopy(title string) string {
	idx := 0
	for _, c := range title {
		idx += int(c)
	}
	return fmt.Sprintf(fallbackCopy[idx%len(fallbackCopy)], title)
}

type client struct {
	apiURL string
	apiKey string
	hc     *http.Client
}

func newClient() *client {
	return &client{
		apiURL: os.Getenv("AI_API_URL"),
		apiKey: os.Getenv("AI_API_KEY"),
		hc:     &http.Client{Timeout: 20 * time.Second},
	}
}

// complete calls the chat-completion endpoint. A non-nil error means the
// caller should fall back to canned copy.
func (c *client) complete(ctx context.Context, prompt string) (string, error) {
	if c.apiURL == "" || c.apiKey == "" {
		return "", fmt.Errorf("completion API not configured")
	}

	payload, _ := json.Marshal(map[string]any{
		"model": os.Getenv("AI_MODEL"),
		"messages": []map[string]string{
			{"role": "system", "content": "You write short, punchy marketing copy for event pages."},
			{"role": "user", "content": prompt},
		},
		"max_tokens": 200,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("completion API quota exceeded")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("completion API returned %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

// POST /api/generate-copy
func GenerateCopy(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		utils.RespondWithCode(w, http.StatusBadRequest, "MISSING_TITLE", "title is required")
		return
	}

	tone := req.Tone
	if tone == "" {
		tone = "friendly"
	}
	prompt := fmt.Sprintf("Write a 2-3 sentence %s event description for %q", tone, req.Title)
	if req.Category != "" {
		prompt += fmt.Sprintf(" in the %s category", req.Category)
	}
	prompt += "."

	text, err := newClient().complete(r.Context(), prompt)
	if err != nil {
		log.Printf("agi: completion failed, serving fallback: %v", err)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"copy":     FallbackCopy(req.Title),
			"fallback": true,
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"copy": text, "fallback": false})
}
