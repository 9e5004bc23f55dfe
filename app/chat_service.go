package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"researchhub/ai"
	"researchhub/model"
	"researchhub/repository"
)

var (
	ErrMessageEmpty = errors.New("message content is empty")
	// ErrLLMConfig signals a missing or incomplete completion backend
	// credential: a configuration error, distinct from a service
	// failure, and never retried.
	ErrLLMConfig = errors.New("llm config is invalid")
)

const (
	defaultHistoryWindow = 6

	groundingPreamble = "You are a research assistant. Answer questions based on these research papers:\n\n"
	emptyLibraryNote  = "No papers imported yet."
	emptyReplyNote    = "The model returned an empty response."
)

// HistoryCache is an optional accelerator for history reads; the store
// stays authoritative.
type HistoryCache interface {
	GetHistory(ctx context.Context, workspaceID string) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, workspaceID string, messages []model.Message) error
	DeleteHistory(ctx context.Context, workspaceID string) error
	MarkDirty(ctx context.Context, workspaceID string) error
	IsDirty(ctx context.Context, workspaceID string) (bool, error)
}

// ChatService runs the grounding pipeline: each submitted turn is
// persisted, grounded in the workspace's papers, completed against the
// AI backend, and the reply persisted. It does not serialize
// concurrent turns for one workspace; callers must.
type ChatService struct {
	workspaceRepo *repository.WorkspaceRepository
	paperRepo     *repository.PaperRepository
	messageRepo   *repository.MessageRepository
	historyCache  HistoryCache
	llmClient     *ai.Client
	defaultLLM    ai.Config
	maxHistory    int
	log           *zap.Logger
}

type SendMessageInput struct {
	WorkspaceID string
	Content     string
	LLM         LLMOverride
}

// LLMOverride replaces individual backend settings for one call.
type LLMOverride struct {
	BaseURL string
	APIKey  string
	Model   string
}

type LLMRequestLog struct {
	BaseURL      string       `json:"base_url"`
	Model        string       `json:"model"`
	APIKeyMasked string       `json:"api_key_masked"`
	Messages     []ai.Message `json:"messages"`
}

type SendMessageResult struct {
	Messages   []model.Message `json:"messages"`
	LLMRequest LLMRequestLog   `json:"llm_request"`
}

func NewChatService(
	workspaceRepo *repository.WorkspaceRepository,
	paperRepo *repository.PaperRepository,
	messageRepo *repository.MessageRepository,
	historyCache HistoryCache,
	defaultLLM ai.Config,
	maxHistory int,
	log *zap.Logger,
) *ChatService {
	if maxHistory <= 0 {
		maxHistory = defaultHistoryWindow
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{
		workspaceRepo: workspaceRepo,
		paperRepo:     paperRepo,
		messageRepo:   messageRepo,
		historyCache:  historyCache,
		llmClient:     ai.NewClient(log),
		defaultLLM:    defaultLLM,
		maxHistory:    maxHistory,
		log:           log,
	}
}

// SendMessage runs one chat turn. The user message is persisted before
// the completion call and stays persisted when the call fails; the
// assistant message exists only on success.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	userMessage, promptMessages, cfg, err := s.beginTurn(ctx, input)
	if err != nil {
		return nil, err
	}

	assistantContent, err := s.llmClient.Complete(ctx, cfg, promptMessages)
	if err != nil {
		s.log.Warn("completion failed",
			zap.String("workspace_id", input.WorkspaceID),
			zap.Error(err))
		return nil, err
	}
	assistantMessage, err := s.finishTurn(ctx, input.WorkspaceID, assistantContent)
	if err != nil {
		return nil, err
	}

	return &SendMessageResult{
		Messages: []model.Message{*userMessage, *assistantMessage},
		LLMRequest: LLMRequestLog{
			BaseURL:      cfg.BaseURL,
			Model:        cfg.Model,
			APIKeyMasked: maskSecret(cfg.APIKey),
			Messages:     promptMessages,
		},
	}, nil
}

// StreamMessage is SendMessage with a streaming backend call; onChunk
// receives each delta and the assembled reply is persisted at the end.
func (s *ChatService) StreamMessage(
	ctx context.Context,
	input SendMessageInput,
	onChunk func(string) error,
) (string, error) {
	_, promptMessages, cfg, err := s.beginTurn(ctx, input)
	if err != nil {
		return "", err
	}

	full, err := s.llmClient.StreamComplete(ctx, cfg, promptMessages, onChunk)
	if err != nil {
		s.log.Warn("stream completion failed",
			zap.String("workspace_id", input.WorkspaceID),
			zap.Error(err))
		return "", err
	}
	assistantMessage, err := s.finishTurn(ctx, input.WorkspaceID, full)
	if err != nil {
		return "", err
	}
	return assistantMessage.Content, nil
}

// beginTurn persists the user message, assembles the ordered prompt
// and resolves the backend config.
func (s *ChatService) beginTurn(ctx context.Context, input SendMessageInput) (*model.Message, []ai.Message, ai.Config, error) {
	if input.WorkspaceID == "" {
		return nil, nil, ai.Config{}, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, nil, ai.Config{}, ErrMessageEmpty
	}

	ws, err := s.workspaceRepo.GetByID(input.WorkspaceID)
	if err != nil {
		return nil, nil, ai.Config{}, err
	}
	if ws == nil {
		return nil, nil, ai.Config{}, ErrWorkspaceNotFound
	}

	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, input.WorkspaceID)
		_ = s.historyCache.DeleteHistory(ctx, input.WorkspaceID)
	}
	userMessage, err := s.messageRepo.Append(input.WorkspaceID, model.RoleUser, content)
	if err != nil {
		return nil, nil, ai.Config{}, err
	}

	promptMessages, err := s.buildPromptMessages(input.WorkspaceID, content)
	if err != nil {
		return nil, nil, ai.Config{}, err
	}
	cfg, err := s.resolveLLM(input.LLM)
	if err != nil {
		return nil, nil, ai.Config{}, err
	}
	return userMessage, promptMessages, cfg, nil
}

// finishTurn persists the assistant reply and invalidates the cache.
func (s *ChatService) finishTurn(ctx context.Context, workspaceID, assistantContent string) (*model.Message, error) {
	assistantContent = strings.TrimSpace(assistantContent)
	if assistantContent == "" {
		assistantContent = emptyReplyNote
	}

	assistantMessage, err := s.messageRepo.Append(workspaceID, model.RoleAssistant, assistantContent)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, workspaceID)
	}
	return assistantMessage, nil
}

// buildPromptMessages assembles the ordered prompt: one system entry
// with the grounding context, the history window immediately
// preceding the just-appended user message, then the new utterance.
func (s *ChatService) buildPromptMessages(workspaceID, currentUserInput string) ([]ai.Message, error) {
	papers, err := s.paperRepo.ListByWorkspaceID(workspaceID)
	if err != nil {
		return nil, err
	}

	recent, err := s.messageRepo.ListByWorkspaceID(workspaceID)
	if err != nil {
		return nil, err
	}
	// The newest entry is the user message appended this turn; history
	// is the window right before it.
	if n := len(recent); n > 0 {
		recent = recent[:n-1]
	}
	if len(recent) > s.maxHistory {
		recent = recent[len(recent)-s.maxHistory:]
	}

	messages := make([]ai.Message, 0, len(recent)+2)
	messages = append(messages, ai.Message{
		Role:    "system",
		Content: groundingPreamble + renderPaperContext(papers),
	})
	for _, item := range recent {
		role := item.Role
		if role == "" {
			role = model.RoleUser
		}
		messages = append(messages, ai.Message{
			Role:    role,
			Content: item.Content,
		})
	}
	messages = append(messages, ai.Message{
		Role:    model.RoleUser,
		Content: currentUserInput,
	})
	return messages, nil
}

// renderPaperContext turns the workspace's papers into the grounding
// context block, or a fixed placeholder when the library is empty.
func renderPaperContext(papers []model.Paper) string {
	if len(papers) == 0 {
		return emptyLibraryNote
	}
	blocks := make([]string, 0, len(papers))
	for _, p := range papers {
		abstract := p.Abstract
		if abstract == "" {
			abstract = "N/A"
		}
		blocks = append(blocks, fmt.Sprintf("Title: %s\nAuthors: %s\nAbstract: %s", p.Title, p.Authors, abstract))
	}
	return strings.Join(blocks, "\n\n")
}

// History returns the workspace's visible message window, going
// through the cache when it is present and not dirty.
func (s *ChatService) History(ctx context.Context, workspaceID string) ([]model.Message, error) {
	if workspaceID == "" {
		return nil, ErrInvalidInput
	}
	ws, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, ErrWorkspaceNotFound
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, workspaceID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, workspaceID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageRepo.ListByWorkspaceID(workspaceID)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, workspaceID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, workspaceID, messages)
		}
	}
	return messages, nil
}

// ClearHistory removes every message of the workspace; other
// workspaces are untouched.
func (s *ChatService) ClearHistory(ctx context.Context, workspaceID string) error {
	if workspaceID == "" {
		return ErrInvalidInput
	}
	ws, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return err
	}
	if ws == nil {
		return ErrWorkspaceNotFound
	}
	if err := s.messageRepo.DeleteByWorkspaceID(workspaceID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, workspaceID)
	}
	return nil
}

func (s *ChatService) resolveLLM(override LLMOverride) (ai.Config, error) {
	cfg := s.defaultLLM
	if strings.TrimSpace(override.BaseURL) != "" {
		cfg.BaseURL = strings.TrimSpace(override.BaseURL)
	}
	if strings.TrimSpace(override.APIKey) != "" {
		cfg.APIKey = strings.TrimSpace(override.APIKey)
	}
	if strings.TrimSpace(override.Model) != "" {
		cfg.Model = strings.TrimSpace(override.Model)
	}
	if cfg.BaseURL == "" || cfg.APIKey == "" || cfg.Model == "" {
		return ai.Config{}, ErrLLMConfig
	}
	return cfg, nil
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
