package services

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/config"
)

type openAIService struct {
	client     *openai.Client
	model      string
	embedModel openai.EmbeddingModel
	dimensions int
	log        *zap.Logger
}

// NewOpenAIService talks to any OpenAI-compatible endpoint. dimensions pins
// the embedding size to the vector index.
func NewOpenAIService(cfg config.OpenAIConfig, dimensions int, log *zap.Logger) (AIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	embedModel := openai.SmallEmbedding3
	if cfg.EmbedModel != "" {
		embedModel = openai.EmbeddingModel(cfg.EmbedModel)
	}

	return &openAIService{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		embedModel: embedModel,
		dimensions: dimensions,
		log:        log.Named("openai"),
	}, nil
}

// GenerateText implements TextGenerator.
func (o *openAIService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an expert recruitment analyst. Always answer with a single JSON object."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		o.log.Warn("❌ OpenAI API error", zap.Error(err))
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateEmbedding implements Embedder.
func (o *openAIService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      o.embedModel,
		Dimensions: o.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return resp.Data[0].Embedding, nil
}
