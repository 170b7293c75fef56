package agent

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// StepType tags a Step variant.
type StepType string

const (
	StepUser        StepType = "user"
	StepPlan        StepType = "plan"
	StepAction      StepType = "action"
	StepObservation StepType = "observation"
	StepOutput      StepType = "output"
)

// IsKnown reports whether t is one of the protocol step types.
func (t StepType) IsKnown() bool {
	switch t {
	case StepUser, StepPlan, StepAction, StepObservation, StepOutput:
		return true
	}
	return false
}

// Step is one unit of the agent protocol. Only the fields of its Type are set.
type Step struct {
	Type        StepType `json:"type" validate:"required"`
	User        string   `json:"user,omitempty"`
	Plan        string   `json:"plan,omitempty"`
	Function    string   `json:"function,omitempty" validate:"required_if=Type action"`
	Input       string   `json:"input,omitempty"`
	Observation string   `json:"observation,omitempty"`
	Output      string   `json:"output,omitempty"`
}

func UserStep(text string) Step {
	return Step{Type: StepUser, User: text}
}

func PlanStep(text string) Step {
	return Step{Type: StepPlan, Plan: text}
}

func ActionStep(function, input string) Step {
	return Step{Type: StepAction, Function: function, Input: input}
}

func ObservationStep(text string) Step {
	return Step{Type: StepObservation, Observation: text}
}

func OutputStep(text string) Step {
	return Step{Type: StepOutput, Output: text}
}

// Text returns the payload of the step, or the function name for actions.
func (s Step) Text() string {
	switch s.Type {
	case StepUser:
		return s.User
	case StepPlan:
		return s.Plan
	case StepAction:
		return s.Function
	case StepObservation:
		return s.Observation
	case StepOutput:
		return s.Output
	}
	return ""
}

// MarshalJSON writes only the keys of the step's variant, "type" first.
func (s Step) MarshalJSON() ([]byte, error) {
	var v any
	switch s.Type {
	case StepUser:
		v = struct {
			Type StepType `json:"type"`
			User string   `json:"user"`
		}{s.Type, s.User}
	case StepPlan:
		v = struct {
			Type StepType `json:"type"`
			Plan string   `json:"plan"`
		}{s.Type, s.Plan}
	case StepAction:
		v = struct {
			Type     StepType `json:"type"`
			Function string   `json:"function"`
			Input    string   `json:"input"`
		}{s.Type, s.Function, s.Input}
	case StepObservation:
		v = struct {
			Type        StepType `json:"type"`
			Observation string   `json:"observation"`
		}{s.Type, s.Observation}
	case StepOutput:
		v = struct {
			Type   StepType `json:"type"`
			Output string   `json:"output"`
		}{s.Type, s.Output}
	default:
		v = struct {
			Type StepType `json:"type"`
		}{s.Type}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.WithStack(err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// String returns the JSON form of the step, as it is placed in the transcript.
func (s Step) String() string {
	b, err := s.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// UnmarshalJSON decodes with the same rules as DecodeStep.
func (s *Step) UnmarshalJSON(data []byte) error {
	step, err := DecodeStep(string(data))
	if err != nil {
		return err
	}
	*s = step
	return nil
}

var validate = validator.New()

// DecodeStep parses one model reply into a Step.
//
// Text around the outermost JSON object, such as a ```json fence, is ignored.
// Scalar fields are read as text, so {"input": 42} yields Input "42".
// An unrecognised "type" is kept as is. An object without a string "type"
// decodes to an untyped Step, which callers treat like any unrecognised one.
func DecodeStep(text string) (Step, error) {
	raw := cleanJSON(text)
	if !gjson.Valid(raw) {
		return Step{}, errors.Wrap(ErrInvalidStep, "reply is not valid JSON")
	}
	obj := gjson.Parse(raw)
	if !obj.IsObject() {
		return Step{}, errors.Wrap(ErrInvalidStep, "reply is not a JSON object")
	}
	typ := obj.Get("type")
	if typ.Type != gjson.String {
		return Step{}, nil
	}

	step := Step{Type: StepType(typ.Str)}
	switch step.Type {
	case StepUser:
		step.User = field(obj, "user")
	case StepPlan:
		step.Plan = field(obj, "plan")
	case StepAction:
		step.Function = field(obj, "function")
		step.Input = field(obj, "input")
	case StepObservation:
		step.Observation = field(obj, "observation")
	case StepOutput:
		step.Output = field(obj, "output")
	default:
		return step, nil
	}

	if err := validate.Struct(step); err != nil {
		return Step{}, errors.Wrapf(ErrInvalidStep, "%s step: %s", step.Type, err.Error())
	}
	return step, nil
}

func field(obj gjson.Result, name string) string {
	v := obj.Get(name)
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.JSON:
		return v.Raw
	}
	return v.String()
}

// cleanJSON trims anything before the first '{' and after the last '}'.
func cleanJSON(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end < start {
		return strings.TrimSpace(text)
	}
	return text[start : end+1]
}
