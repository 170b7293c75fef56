package agent

import (
	"fmt"
	"strings"

	"github.com/myproject/weather-agent/agent/tools"
)

const protocolPrompt = `You are an AI Assistant with START, PLAN, ACTION, OBSERVATION, and OUTPUT states.
- Wait for the user prompt and first PLAN using available tools.
- After Planning, take the ACTION with appropriate tools and wait for the OBSERVATION based on ACTION.
- Once you get the observations, return the AI response based on START prompt and observations.

NOTE: Strictly follow the JSON output format. Reply with exactly one JSON object per message.`

// DefaultExample is the worked example shown to the model.
var DefaultExample = []Step{
	UserStep("What is the sum of the weather of Barisal and Dhaka?"),
	PlanStep("I will call the getWeatherByCityName for Barisal"),
	ActionStep(string(tools.ToolGetWeatherByCityName), "Barisal"),
	ObservationStep("31°C"),
	PlanStep("I will call the getWeatherByCityName for Dhaka"),
	ActionStep(string(tools.ToolGetWeatherByCityName), "Dhaka"),
	ObservationStep("33°C"),
	OutputStep("The sum of weather of Barisal and Dhaka is 64°C"),
}

// PromptWrapper stores the segments of the system instruction.
type PromptWrapper struct {
	ToolUsage     []string
	Example       []Step
	systemPrompts []string
}

// ProtocolPromptWrapper returns the step protocol prompt listing the given tools.
func ProtocolPromptWrapper(items ...tools.Tool) PromptWrapper {
	wrapper := PromptWrapper{}
	wrapper.AddSystemPrompt(protocolPrompt)
	for _, tool := range items {
		usage := "- " + tool.Signature()
		if tool.Description != "" {
			usage += "\n" + tool.Description
		}
		wrapper.AddToolUsage(usage)
	}
	wrapper.Example = append(wrapper.Example, DefaultExample...)
	return wrapper
}

// AddSystemPrompt appends an extra system prompt segment.
func (w *PromptWrapper) AddSystemPrompt(prompt string) {
	if strings.TrimSpace(prompt) == "" {
		return
	}
	w.systemPrompts = append(w.systemPrompts, prompt)
}

// AddToolUsage appends a tool description segment.
func (w *PromptWrapper) AddToolUsage(toolUsage string) {
	if strings.TrimSpace(toolUsage) == "" {
		return
	}
	w.ToolUsage = append(w.ToolUsage, toolUsage)
}

// Wrap builds the system instruction.
func (w *PromptWrapper) Wrap() string {
	parts := make([]string, 0, 4)
	if len(w.systemPrompts) > 0 {
		parts = append(parts, strings.Join(w.systemPrompts, "\n\n"))
	}
	if len(w.ToolUsage) > 0 {
		parts = append(parts, fmt.Sprintf("Available Tools :\n%s", strings.Join(w.ToolUsage, "\n")))
	}
	if len(w.Example) > 0 {
		lines := make([]string, 0, len(w.Example))
		for _, step := range w.Example {
			lines = append(lines, step.String())
		}
		parts = append(parts, fmt.Sprintf("Example:\n%s", strings.Join(lines, "\n")))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// SystemPrompt returns the protocol instruction for the given tools.
func SystemPrompt(items ...tools.Tool) string {
	w := ProtocolPromptWrapper(items...)
	return w.Wrap()
}
