package llmservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"dictdoy/pkg/dictionary"
	"dictdoy/pkg/logger"

	"github.com/avast/retry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const maxSuggestions = 5

// LLMServiceConfig holds the configuration for the LLM service.
type LLMServiceConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Prompt     string // System prompt describing the answer format
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Completer sends one prompt and returns the model's text answer.
type Completer interface {
	Complete(ctx context.Context, prompt, text string) (string, error)
}

// LLMService suggests dictionary entries using an OpenAI-compatible API.
type LLMService struct {
	config    LLMServiceConfig
	completer Completer
	cache     map[string][]dictionary.Entry // Cache for answered queries
	mu        sync.RWMutex                  // Mutex for cache access
	logger    *logger.Logger
}

// NewLLMService creates an LLMService talking to config.BaseURL.
func NewLLMService(config LLMServiceConfig, log *logger.Logger) *LLMService {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	client := openai.NewClient(
		option.WithBaseURL(config.BaseURL),
		option.WithAPIKey(config.APIKey),
		option.WithRequestTimeout(config.Timeout),
		option.WithMaxRetries(0), // retries are done by Suggest
	)
	return NewWithCompleter(config, &chatCompleter{client: &client, model: config.Model}, log)
}

// NewWithCompleter creates an LLMService using c for requests.
func NewWithCompleter(config LLMServiceConfig, c Completer, log *logger.Logger) *LLMService {
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &LLMService{
		config:    config,
		completer: c,
		cache:     make(map[string][]dictionary.Entry),
		logger:    log,
	}
}

// Suggest asks the model for entries matching query. Answers are cached per
// query, including empty ones.
func (s *LLMService) Suggest(ctx context.Context, query string) ([]dictionary.Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	s.mu.RLock()
	if entries, ok := s.cache[query]; ok {
		s.mu.RUnlock()
		s.logger.Tracef("Cache hit for query: %s (%d entries)", query, len(entries))
		return entries, nil
	}
	s.mu.RUnlock()
	s.logger.Tracef("Cache miss for query: %s", query)

	var answer string
	err := retry.Do(
		func() error {
			text, err := s.completer.Complete(ctx, s.config.Prompt, query)
			if err != nil {
				if !isRetryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			answer = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.config.MaxRetries+1)),
		retry.Delay(s.config.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warnf("LLM lookup failed, retrying (attempt %d/%d): %v", n+1, s.config.MaxRetries+1, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("LLM lookup for %q failed: %w", query, err)
	}

	entries := ParseSuggestions(answer)
	s.logger.Debugf("LLM suggested %d entries for %q", len(entries), query)

	s.mu.Lock()
	s.cache[query] = entries
	s.mu.Unlock()
	return entries, nil
}

// ParseSuggestions reads answer lines of the form
// "simplified|pinyin|gloss; gloss". Other lines are skipped.
func ParseSuggestions(text string) []dictionary.Entry {
	var entries []dictionary.Entry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}

		headword := strings.TrimSpace(parts[0])
		pinyin := strings.TrimSpace(parts[1])
		var glosses []string
		for _, g := range strings.Split(parts[2], ";") {
			if g = strings.TrimSpace(g); g != "" {
				glosses = append(glosses, g)
			}
		}
		if headword == "" || len(glosses) == 0 {
			continue
		}

		e := dictionary.Entry{
			Traditional: headword,
			Simplified:  headword,
			PinyinMarks: pinyin,
			English:     glosses,
		}
		if strings.ContainsAny(pinyin, "12345") {
			e.PinyinNumbers = pinyin
			e.PinyinMarks = dictionary.ToneMarks(pinyin)
		}
		entries = append(entries, e)
		if len(entries) == maxSuggestions {
			break
		}
	}
	return entries
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return true
}

type chatCompleter struct {
	client *openai.Client
	model  string
}

func (c *chatCompleter) Complete(ctx context.Context, prompt, text string) (string, error) {
	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(text),
		},
		Model: c.model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return "", errors.New("no choices found in response")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}
