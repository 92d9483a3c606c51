// ABOUTME: OpenAI client for question and document embeddings
// ABOUTME: Uses text-embedding-3-small with retry, timeout, and task hints
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/LuisDee/sqlscout/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingTask is the asymmetric retrieval hint: documents are stored,
// queries are issued. Some models want different input framing per task,
// so the hint travels with every call instead of being baked in.
type EmbeddingTask string

const (
	// TaskDocument - text that will be stored in an index
	TaskDocument EmbeddingTask = "document"

	// TaskQuery - text used to search an index
	TaskQuery EmbeddingTask = "query"
)

// Embedder turns text into a fixed-dimension vector
type Embedder interface {
	Embed(ctx context.Context, text string, task EmbeddingTask) ([]float64, error)
	Dimension() int
}

// DefaultEmbeddingModel is the default model for embeddings
const DefaultEmbeddingModel = openai.SmallEmbedding3

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	EmbeddingModel openai.EmbeddingModel
	Dimension      int
	// QueryPrefix and DocumentPrefix are prepended to the input per task.
	// Empty for the OpenAI embedding models, which need no framing; set
	// them for prefix-trained models served behind compatible APIs.
	QueryPrefix    string
	DocumentPrefix string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		EmbeddingModel: DefaultEmbeddingModel,
		Dimension:      1536,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client         *openai.Client
	embeddingModel openai.EmbeddingModel
	dimension      int
	queryPrefix    string
	documentPrefix string
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a new OpenAI client with default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", config.Dimension)
	}

	return &OpenAIClient{
		client:         openai.NewClient(config.APIKey),
		embeddingModel: config.EmbeddingModel,
		dimension:      config.Dimension,
		queryPrefix:    config.QueryPrefix,
		documentPrefix: config.DocumentPrefix,
		timeout:        config.Timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// Dimension returns the configured embedding dimensionality
func (c *OpenAIClient) Dimension() int {
	return c.dimension
}

// Embed generates an embedding vector for the given text. Every attempt
// runs under its own timeout; failed attempts back off exponentially.
func (c *OpenAIClient) Embed(ctx context.Context, text string, task EmbeddingTask) ([]float64, error) {
	input := text
	switch task {
	case TaskQuery:
		input = c.queryPrefix + text
	case TaskDocument:
		input = c.documentPrefix + text
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := util.SleepBackoff(ctx, c.retryDelay, attempt); err != nil {
				return nil, fmt.Errorf("embedding canceled: %w", err)
			}
		}

		vector, err := c.embedOnce(ctx, input)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		return vector, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *OpenAIClient) embedOnce(ctx context.Context, input string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{input},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embedding32 := resp.Data[0].Embedding
	if len(embedding32) != c.dimension {
		return nil, fmt.Errorf("unexpected embedding dimension: expected %d, got %d", c.dimension, len(embedding32))
	}

	// Convert []float32 to []float64
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}
	return embedding64, nil
}
