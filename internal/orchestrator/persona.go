package orchestrator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/promoterhq/promoter-api/internal/domain"
)

// Persona selects the system-prompt variant the model is driven with. The
// choice never alters the state machine, only the instructions.
type Persona string

const (
	// PersonaConcise replies tersely and dispatches without soliciting
	// confirmation.
	PersonaConcise Persona = "concise"

	// PersonaConfirm asks the user to confirm and supply missing inputs
	// before any dispatch, and sees the current task registry every turn
	// so it can answer status questions without re-dispatching.
	PersonaConfirm Persona = "confirm"
)

// Valid reports whether p names a known persona.
func (p Persona) Valid() bool {
	return p == PersonaConcise || p == PersonaConfirm
}

const concisePrompt = `You are a freelancer expert in AI tools and services.
Talk to the user, understand what they are looking for, and determine the best suitable tool from this list:
%s
Call the tool after collecting all the information required as inputs for calling it.
If the user asks for a task not covered by these tools, use the miscellaneous_task tool.
If the user starts the conversation by mentioning a specific tool, try to use that tool.

Always respond as concisely as possible; brevity and being to the point are very important.
Instead of long sentences, respond in markdown with a lot of visual structure (headings, key points, lists) so it is easy to read.`

const confirmPrompt = `You are a freelancer expert in AI tools and services.
Talk to the user, understand what they are looking for, and determine the best suitable tool from this list:
%s
Before calling any tool, summarize the inputs you collected and ask the user to confirm and to supply anything that is missing. Only dispatch after an explicit confirmation.
If the user asks for a task not covered by these tools, use the miscellaneous_task tool.

The current task registry for this conversation is:
%s
Use it to answer status questions directly; never re-dispatch a task that already exists.`

// SystemPrompt renders the persona's instruction text. The confirm persona
// additionally embeds a snapshot of the task registry.
func (p Persona) SystemPrompt(toolNames []string, tasks domain.Registry) string {
	names := strings.Join(toolNames, ", ")
	if p == PersonaConfirm {
		return fmt.Sprintf(confirmPrompt, names, renderTasks(tasks))
	}
	return fmt.Sprintf(concisePrompt, names)
}

// renderTasks serializes the registry deterministically (sorted by task ID)
// so prompts are stable across turns with the same state.
func renderTasks(tasks domain.Registry) string {
	if len(tasks) == 0 {
		return "(no tasks yet)"
	}

	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		line, err := json.Marshal(tasks[id])
		if err != nil {
			// Registry contents are JSON-encodable by construction.
			continue
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
