package commentary

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/amankumarsingh77/hoopcast/internal/models"
)

type geminiAnalyzer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiFactory returns an AnalyzerFactory backed by the named Gemini model.
func NewGeminiFactory(modelName string) AnalyzerFactory {
	return func(ctx context.Context, credential string) (Analyzer, error) {
		client, err := genai.NewClient(ctx, option.WithAPIKey(credential))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		model := client.GenerativeModel(modelName)
		model.ResponseMIMEType = "application/json"
		return &geminiAnalyzer{client: client, model: model}, nil
	}
}

func (g *geminiAnalyzer) Analyze(ctx context.Context, frame models.SampledFrame, prompt string) (string, error) {
	format := strings.TrimPrefix(frame.MimeType, "image/")
	if format == "" {
		format = "jpeg"
	}
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt), genai.ImageData(format, frame.Image))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty answer", ErrMalformedResponse)
	}
	return sb.String(), nil
}

func (g *geminiAnalyzer) Close() error {
	return g.client.Close()
}
