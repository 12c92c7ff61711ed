package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/tool"
)

// scriptedModel replays canned responses and records what it was asked.
type scriptedModel struct {
	responses []domain.Message
	err       error

	calls   int
	prompts []string
	seen    [][]domain.Message
}

func (m *scriptedModel) GenerateResponse(
	_ context.Context,
	conversation []domain.Message,
	systemPrompt string,
	_ []tool.Tool,
) (domain.Message, error) {
	m.calls++
	m.prompts = append(m.prompts, systemPrompt)
	snapshot := make([]domain.Message, len(conversation))
	copy(snapshot, conversation)
	m.seen = append(m.seen, snapshot)

	if m.err != nil {
		return domain.Message{}, m.err
	}
	if len(m.responses) == 0 {
		return domain.NewAssistantMessage("done"), nil
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	return next, nil
}

func newOrchestrator(t *testing.T, model ModelClient, cfg Config) *Orchestrator {
	t.Helper()

	catalog, err := tool.NewCatalog(tool.NewIDGenerator())
	require.NoError(t, err)
	o, err := New(model, catalog, cfg, nil)
	require.NoError(t, err)
	return o
}

func validLinkedInCall(id string) domain.ToolCall {
	return domain.ToolCall{
		ID:   id,
		Name: "linkedin_growth",
		Arguments: map[string]any{
			"linkedin_page_url":       "https://linkedin.com/company/acme",
			"company_website_url":     "https://acme.com",
			"content_preference":      "announce the new product",
			"target_audience_profile": "software engineers",
		},
	}
}

func TestRunCyclePlainReply(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{responses: []domain.Message{domain.NewAssistantMessage("hello!")}}
	o := newOrchestrator(t, model, Config{})

	state := domain.NewConversationState()
	state.Append(domain.NewUserMessage("hi"))

	next, err := o.RunCycle(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, 1, model.calls)
	require.Len(t, next.Messages, 2)
	assert.Equal(t, "hello!", next.Messages[1].Content)
	assert.Empty(t, next.Tasks)
	// Input state untouched.
	assert.Len(t, state.Messages, 1)
}

func TestRunCycleDispatchesTools(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{responses: []domain.Message{
		{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{validLinkedInCall("call-1")}},
		domain.NewAssistantMessage("Task dispatched, hang tight."),
	}}
	o := newOrchestrator(t, model, Config{})

	state := domain.NewConversationState()
	state.Append(domain.NewUserMessage("Write a LinkedIn post about our new product for software engineers"))

	next, err := o.RunCycle(context.Background(), state)
	require.NoError(t, err)

	// user, assistant(tool call), tool result, assistant ack
	require.Len(t, next.Messages, 4)
	toolMsg := next.Messages[2]
	assert.Equal(t, domain.RoleTool, toolMsg.Role)
	assert.Equal(t, "call-1", toolMsg.ToolCallID)
	assert.Contains(t, toolMsg.Content, "under processing state")

	require.Len(t, next.Tasks, 1)
	for id, task := range next.Tasks {
		assert.Equal(t, id, task.ID)
		assert.Equal(t, "linkedin_growth", task.Type)
		assert.Equal(t, domain.TaskStatusProcessing, task.Status)
		assert.Equal(t, "software engineers", task.Args["target_audience_profile"])
		assert.Contains(t, toolMsg.Content, id)
	}
	assert.Equal(t, "linkedin_growth", next.Tool)

	// The second model turn saw the tool result.
	require.Equal(t, 2, model.calls)
	lastSeen := model.seen[1]
	assert.Equal(t, domain.RoleTool, lastSeen[len(lastSeen)-1].Role)
}

func TestRunCycleUniqueTaskIDsPerTurn(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{responses: []domain.Message{
		{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{
			validLinkedInCall("call-1"),
			validLinkedInCall("call-2"),
			validLinkedInCall("call-3"),
		}},
		domain.NewAssistantMessage("all dispatched"),
	}}
	o := newOrchestrator(t, model, Config{})

	state := domain.NewConversationState()
	state.Append(domain.NewUserMessage("three posts please"))

	next, err := o.RunCycle(context.Background(), state)
	require.NoError(t, err)

	assert.Len(t, next.Tasks, 3)
	for _, task := range next.Tasks {
		assert.Equal(t, domain.TaskStatusProcessing, task.Status)
	}
}

func TestRunCycleContainsValidationFailure(t *testing.T) {
	t.Parallel()

	bad := domain.ToolCall{
		ID:        "call-bad",
		Name:      "linkedin_growth",
		Arguments: map[string]any{"linkedin_page_url": "https://linkedin.com/company/acme"},
	}
	model := &scriptedModel{responses: []domain.Message{
		{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{bad, validLinkedInCall("call-ok")}},
		domain.NewAssistantMessage("one of those failed"),
	}}
	o := newOrchestrator(t, model, Config{})

	state := domain.NewConversationState()
	state.Append(domain.NewUserMessage("go"))

	next, err := o.RunCycle(context.Background(), state)
	require.NoError(t, err)

	// Only the valid call produced a task.
	assert.Len(t, next.Tasks, 1)

	var badResult, okResult *domain.Message
	for i := range next.Messages {
		switch next.Messages[i].ToolCallID {
		case "call-bad":
			badResult = &next.Messages[i]
		case "call-ok":
			okResult = &next.Messages[i]
		}
	}
	require.NotNil(t, badResult)
	require.NotNil(t, okResult)
	assert.Contains(t, badResult.Content, "Error:")
	assert.Contains(t, badResult.Content, "company_website_url")
	assert.Contains(t, okResult.Content, "under processing state")
}

func TestRunCycleModelFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{err: errors.New("connection reset")}
	o := newOrchestrator(t, model, Config{})

	state := domain.NewConversationState()
	state.Append(domain.NewUserMessage("hi"))

	next, err := o.RunCycle(context.Background(), state)
	assert.ErrorIs(t, err, ErrModelFailure)
	assert.Equal(t, state, next)
}

func TestRunCycleStepLimit(t *testing.T) {
	t.Parallel()

	// A model that calls a tool on every turn never reaches Done.
	model := &relentlessModel{}
	o := newOrchestrator(t, model, Config{MaxSteps: 6})

	state := domain.NewConversationState()
	state.Append(domain.NewUserMessage("loop forever"))

	_, err := o.RunCycle(context.Background(), state)
	assert.ErrorIs(t, err, ErrStepLimitExceeded)
}

type relentlessModel struct{ n int }

func (m *relentlessModel) GenerateResponse(
	_ context.Context,
	_ []domain.Message,
	_ string,
	_ []tool.Tool,
) (domain.Message, error) {
	m.n++
	return domain.Message{
		Role:      domain.RoleAssistant,
		ToolCalls: []domain.ToolCall{validLinkedInCall(fmt.Sprintf("call-%d", m.n))},
	}, nil
}

func TestConfirmPersonaSeesTaskRegistry(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{responses: []domain.Message{domain.NewAssistantMessage("task id-1 is processing")}}
	o := newOrchestrator(t, model, Config{Persona: PersonaConfirm})

	state := domain.NewConversationState()
	task, err := domain.NewTask("id-1", "linkedin_growth", nil)
	require.NoError(t, err)
	require.NoError(t, state.Tasks.Insert(task))
	state.Append(domain.NewUserMessage("what is the status of my post?"))

	_, err = o.RunCycle(context.Background(), state)
	require.NoError(t, err)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "id-1")
	assert.Contains(t, model.prompts[0], "processing")
	assert.Contains(t, model.prompts[0], "ask the user to confirm")
}

func TestPersonaPrompts(t *testing.T) {
	t.Parallel()

	names := []string{"linkedin_growth", "miscellaneous_task"}

	concise := PersonaConcise.SystemPrompt(names, nil)
	assert.Contains(t, concise, "linkedin_growth, miscellaneous_task")
	assert.NotContains(t, concise, "task registry")

	confirm := PersonaConfirm.SystemPrompt(names, domain.Registry{})
	assert.Contains(t, confirm, "(no tasks yet)")
}
