// Package imagegen calls the external image service that turns a call's
// emotional annotations into symbolic imagery.
package imagegen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/havenmind/haven-server/internal/model"
)

// Generator produces an image reference for normalized emotional data.
// Implementations must return an error rather than an empty reference.
type Generator interface {
	Generate(ctx context.Context, ed *model.EmotionalData) (string, error)
}

// Client talks to the image service over HTTP.
type Client struct {
	client *resty.Client
	style  string
	size   string
}

// New creates a Client for the given base URL. A request timeout is always
// applied so a hanging upstream cannot stall ingestion.
func New(baseURL, style, size string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{client: c, style: style, size: size}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
	Size   string `json:"size,omitempty"`
}

type generateResponse struct {
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

// Generate requests one image and returns its reference.
func (c *Client) Generate(ctx context.Context, ed *model.EmotionalData) (string, error) {
	reqBody := generateRequest{Prompt: Prompt(ed), Style: c.style, Size: c.size}

	var out generateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		SetResult(&out).
		Post("/v1/images")
	if err != nil {
		return "", fmt.Errorf("image service request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("image service returned status %d", resp.StatusCode())
	}

	ref := out.URL
	if ref == "" {
		ref = out.ImageURL
	}
	if ref == "" {
		return "", fmt.Errorf("image service response carried no image reference")
	}
	return ref, nil
}

// Prompt renders the annotation fields into a generation prompt. Empty
// fields are skipped so sparse annotations still produce a usable prompt.
func Prompt(ed *model.EmotionalData) string {
	if ed == nil {
		return "abstract symbolic scene of an emotional reflection"
	}

	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("scene", ed.SceneTitle)
	add("description", ed.SceneDescription)
	add("metaphor", ed.MetaphorPrompt)
	add("emotion", ed.GroundEmotion)
	add("shape", ed.Shape)
	add("motion", ed.Motion)
	add("texture", ed.Texture)
	add("temperature", ed.Temperature)
	if len(ed.ColorPalette) > 0 {
		parts = append(parts, "colors: "+strings.Join(ed.ColorPalette, ", "))
	}
	if len(parts) == 0 {
		return "abstract symbolic scene of an emotional reflection"
	}
	return "symbolic emotional imagery, " + strings.Join(parts, "; ")
}
