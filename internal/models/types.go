package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRequest = errors.New("invalid request")

type OneShotRequest struct {
	Input string `json:"input" description:"Prompt text sent to the model as-is"`
}

type TranslateRequest struct {
	Text           string `json:"text" description:"Text to translate"`
	InputLanguage  string `json:"input_language" description:"Language of the text"`
	OutputLanguage string `json:"output_language" description:"Language to translate into"`
}

type FewShotRequest struct {
	Input string `json:"input" description:"Question appended after the worked examples"`
}

type AddRequest struct {
	Phrase string `json:"phrase" description:"Natural-language request the agent may solve with the Add tool"`
}

type ProcessDocumentRequest struct {
	Document string `json:"document" description:"Raw document text to extract information from"`
}

// Completion is the backend reply, content unmodified.
type Completion struct {
	Content    string `json:"content" description:"Model response text"`
	StopReason string `json:"stop_reason" description:"Why generation stopped"`
	Model      string `json:"model" description:"Model ID used"`
}

type AgentStep struct {
	Action      string `json:"action" description:"Tool the agent called"`
	Input       string `json:"action_input" description:"Tool arguments as JSON"`
	Observation string `json:"observation" description:"Tool output fed back to the model"`
}

type AgentAnswer struct {
	Output string      `json:"output" description:"Final answer of the agent"`
	Steps  []AgentStep `json:"steps" description:"Intermediate tool calls"`
}

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

func (r OneShotRequest) Validate() error {
	return required("input", r.Input)
}

func (r FewShotRequest) Validate() error {
	return required("input", r.Input)
}

func (r AddRequest) Validate() error {
	return required("phrase", r.Phrase)
}

func (r ProcessDocumentRequest) Validate() error {
	return required("document", r.Document)
}

func (r TranslateRequest) Validate() error {
	if err := required("text", r.Text); err != nil {
		return err
	}
	if err := required("input_language", r.InputLanguage); err != nil {
		return err
	}
	return required("output_language", r.OutputLanguage)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	return nil
}

// Async jobs

type JobStatus string

const (
	JobStatusOK    JobStatus = "ok"
	JobStatusError JobStatus = "error"
)

type Job struct {
	JobID    string            `json:"job_id"`
	Pipeline string            `json:"pipeline"`
	Inputs   map[string]string `json:"inputs"`
}

type JobResult struct {
	JobID       string    `json:"job_id"`
	Pipeline    string    `json:"pipeline"`
	Status      JobStatus `json:"status"`
	Result      any       `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
