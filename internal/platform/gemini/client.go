package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/promoterhq/promoter-api/internal/config"
	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/tool"
)

// Client implements orchestrator.ModelClient against the Gemini API.
type Client struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewClient creates a Gemini-backed model client.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create client: %v", ErrInvalidConfig, err)
	}

	return &Client{logger: logger, client: client, model: cfg.ModelName}, nil
}

// GenerateResponse sends the conversation with the persona's system prompt
// and the catalog's function declarations, and translates the reply into a
// domain message.
func (c *Client) GenerateResponse(
	ctx context.Context,
	conversation []domain.Message,
	systemPrompt string,
	availableTools []tool.Tool,
) (domain.Message, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	if decls := toDeclarations(availableTools); len(decls) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	contents := toContents(conversation)

	c.logger.DebugContext(ctx, "calling gemini",
		"model", c.model,
		"messages", len(contents),
		"tools", len(availableTools))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return domain.Message{}, fmt.Errorf("gemini request failed: %w", err)
	}

	return toMessage(resp)
}

// toContents converts domain messages into Gemini content parts. Assistant
// turns become "model" role; tool results travel back as function
// responses.
func toContents(conversation []domain.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(conversation))
	for _, m := range conversation {
		switch m.Role {
		case domain.RoleAssistant:
			parts := []*genai.Part{}
			if m.Content != "" {
				parts = append(parts, genai.NewPartFromText(m.Content))
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   tc.ID,
					Name: tc.Name,
					Args: tc.Arguments,
				}})
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case domain.RoleTool:
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{FunctionResponse: &genai.FunctionResponse{
					ID:       m.ToolCallID,
					Name:     m.Name,
					Response: map[string]any{"output": m.Content},
				}}},
			})

		default:
			// User and system turns both travel as user text; the system
			// prompt proper goes through SystemInstruction.
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents
}

// toMessage translates the first candidate into a domain message.
func toMessage(resp *genai.GenerateContentResponse) (domain.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return domain.Message{}, ErrEmptyResponse
	}

	msg := domain.Message{Role: domain.RoleAssistant}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			msg.Content += part.Text
		}
		if fc := part.FunctionCall; fc != nil {
			id := fc.ID
			if id == "" {
				// Some backends omit call IDs; correlation still needs one.
				id = uuid.NewString()
			}
			msg.ToolCalls = append(msg.ToolCalls, domain.ToolCall{
				ID:        id,
				Name:      fc.Name,
				Arguments: fc.Args,
			})
		}
	}

	if msg.Content == "" && len(msg.ToolCalls) == 0 {
		return domain.Message{}, ErrEmptyResponse
	}
	return msg, nil
}

// toDeclarations exposes the catalog as Gemini function declarations.
func toDeclarations(tools []tool.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toSchema(t.Parameters),
		})
	}
	return decls
}

func toSchema(s tool.Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Properties))
	for name, p := range s.Properties {
		props[name] = &genai.Schema{
			Type:        toSchemaType(p.Type),
			Description: p.Description,
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   s.Required,
	}
}

func toSchemaType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
