// Package agent runs a structured-chat tool loop: the model answers with one JSON action per
// turn, tool actions are executed and their output fed back, until a final answer.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/parser"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/prompt"
	"github.com/rs/zerolog"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrIterationLimit = errors.New("agent stopped after reaching the iteration limit")
	ErrUnknownTool    = errors.New("unknown tool")
)

const (
	FinalAnswer          = "Final Answer"
	DefaultMaxIterations = 15
)

const systemPrompt = `Respond to the human as helpfully and accurately as possible. You have access to the following tools:

{{.tools}}

Use a json blob to specify a tool by providing an "action" key (tool name) and an "action_input" key (tool input).

Valid "action" values: "Final Answer" or {{.tool_names}}

Provide only ONE action per JSON blob, as shown:

` + "```" + `
{"action": "<tool name>", "action_input": <tool input>}
` + "```" + `

Follow this format:

Question: input question to answer
Thought: consider previous and subsequent steps
Action:
` + "```" + `
<json blob>
` + "```" + `
Observation: action result
... (repeat Thought/Action/Observation as needed)
Thought: I know what to respond
Action:
` + "```" + `
{"action": "Final Answer", "action_input": "Final response to human"}
` + "```" + `

Begin! Always respond with a valid json blob of a single action. Use tools if necessary. Respond directly if appropriate.`

const humanPrompt = "{{.input}}\n\n{{.agent_scratchpad}}"

type Config struct {
	MaxIterations int
	MaxTokens     int
	Temperature   float64
}

type Step struct {
	Action      string          `json:"action"`
	Input       json.RawMessage `json:"action_input"`
	Observation string          `json:"observation"`
}

type Result struct {
	Output string `json:"output"`
	Steps  []Step `json:"steps"`
}

type action struct {
	Action string          `json:"action"`
	Input  json.RawMessage `json:"action_input"`
}

type registeredTool struct {
	tool   Tool
	schema *jsonschema.Schema
}

type Agent struct {
	client llm.Client
	tools  map[string]registeredTool
	chat   *prompt.ChatTemplate
	cfg    Config
	logger *zerolog.Logger
}

func NewAgent(client llm.Client, tools []Tool, cfg Config, logger *zerolog.Logger) (*Agent, error) {
	if len(tools) == 0 {
		return nil, fmt.Errorf("agent needs at least one tool")
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	registered := make(map[string]registeredTool, len(tools))
	for _, t := range tools {
		schema, err := parser.CompileSchema("tool-"+t.Name(), t.Schema())
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name(), err)
		}
		registered[t.Name()] = registeredTool{tool: t, schema: schema}
	}

	a := &Agent{client: client, tools: registered, cfg: cfg, logger: logger}

	system, err := prompt.NewTemplate("agent-system", systemPrompt, nil, prompt.WithPartials(map[string]string{
		"tools":      a.describeTools(),
		"tool_names": strings.Join(quoted(a.toolNames()), ", "),
	}))
	if err != nil {
		return nil, err
	}
	human, err := prompt.NewTemplate("agent-human", humanPrompt, []string{"input", "agent_scratchpad"})
	if err != nil {
		return nil, err
	}
	a.chat, err = prompt.NewChatTemplate(
		prompt.MessageTemplate{Role: llm.RoleSystem, Template: system},
		prompt.MessageTemplate{Role: llm.RoleUser, Template: human},
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Run drives the model until it produces a final answer or the iteration limit is hit.
func (a *Agent) Run(ctx context.Context, input string) (*Result, error) {
	var scratchpad strings.Builder
	var steps []Step

	for i := 0; i < a.cfg.MaxIterations; i++ {
		messages, err := a.chat.FormatMessages(map[string]string{
			"input":            input,
			"agent_scratchpad": scratchpad.String(),
		})
		if err != nil {
			return nil, err
		}

		resp, err := a.client.InvokeModel(ctx, llm.Request{
			Messages:    messages,
			MaxTokens:   a.cfg.MaxTokens,
			Temperature: a.cfg.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("agent iteration %d: %w", i+1, err)
		}

		reply := truncateAtObservation(resp.Content)
		next, err := parseAction(reply)
		if err != nil {
			a.logger.Debug().Int("iteration", i+1).Err(err).Msg("Unparseable agent reply")
			writeTurn(&scratchpad, reply, "Invalid or incomplete response. Reply with a single JSON action blob.")
			continue
		}

		if next.Action == FinalAnswer {
			a.logger.Debug().Int("iteration", i+1).Int("steps", len(steps)).Msg("Agent finished")
			return &Result{Output: finalOutput(next.Input), Steps: steps}, nil
		}

		observation := a.callTool(ctx, next)
		a.logger.Debug().
			Int("iteration", i+1).
			Str("action", next.Action).
			RawJSON("action_input", nonEmptyJSON(next.Input)).
			Str("observation", observation).
			Msg("Agent step")

		steps = append(steps, Step{Action: next.Action, Input: next.Input, Observation: observation})
		writeTurn(&scratchpad, reply, observation)
	}

	return nil, fmt.Errorf("%w (%d)", ErrIterationLimit, a.cfg.MaxIterations)
}

// Lookup returns the named tool or ErrUnknownTool.
func (a *Agent) Lookup(name string) (Tool, error) {
	rt, ok := a.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a valid tool, try one of [%s]", ErrUnknownTool, name, strings.Join(a.toolNames(), ", "))
	}
	return rt.tool, nil
}

// callTool never fails; tool errors become observations the model can react to.
func (a *Agent) callTool(ctx context.Context, next *action) string {
	if _, err := a.Lookup(next.Action); err != nil {
		return err.Error()
	}
	rt := a.tools[next.Action]

	if _, err := parser.ValidateJSON(rt.schema, nonEmptyJSON(next.Input)); err != nil {
		return fmt.Sprintf("Error: invalid input for %s: %v", next.Action, err)
	}

	out, err := rt.tool.Call(ctx, next.Input)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}

func (a *Agent) toolNames() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *Agent) describeTools() string {
	lines := make([]string, 0, len(a.tools))
	for _, name := range a.toolNames() {
		t := a.tools[name].tool
		lines = append(lines, fmt.Sprintf("%s: %s, args: %s", t.Name(), t.Description(), compactJSON(t.Schema())))
	}
	return strings.Join(lines, "\n")
}

var actionBlock = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// parseAction prefers fenced action blobs and falls back to any object in the reply.
// The first candidate that decodes with an "action" key wins.
func parseAction(reply string) (*action, error) {
	var candidates []string
	for _, m := range actionBlock.FindAllStringSubmatch(reply, -1) {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	candidates = append(candidates, parser.JSONObjects(reply)...)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no JSON action blob in reply")
	}

	for _, raw := range candidates {
		var a action
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			continue
		}
		if a.Action != "" {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("missing \"action\" key")
}

func finalOutput(input json.RawMessage) string {
	var s string
	if err := json.Unmarshal(input, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(input))
}

func writeTurn(sb *strings.Builder, reply, observation string) {
	sb.WriteString(strings.TrimSpace(reply))
	sb.WriteString("\nObservation: ")
	sb.WriteString(observation)
	sb.WriteString("\nThought: ")
}

func truncateAtObservation(reply string) string {
	if idx := strings.Index(reply, "Observation:"); idx >= 0 {
		return reply[:idx]
	}
	return reply
}

func nonEmptyJSON(raw json.RawMessage) json.RawMessage {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

func compactJSON(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func quoted(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
