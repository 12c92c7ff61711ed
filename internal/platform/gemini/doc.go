// Package gemini implements the orchestrator's model capability using
// Google's Gemini API. The tool catalog is exposed to the model as function
// declarations; function calls in the reply are translated back into domain
// tool-call requests.
package gemini
