package agent

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/myproject/weather-agent/agent/tools"
)

var logger = xlog.NewPackageLogger("github.com/myproject/weather-agent", "agent")

const (
	DefaultName        = "Weather_agent"
	DefaultDescription = "A ReAct style agent that answers weather questions with the getWeatherByCityName tool"
)

// Agent runs the plan/action/observation/output protocol against a Completer.
type Agent struct {
	Name         string
	Description  string
	completer    Completer
	tools        *tools.Registry
	systemPrompt string
	// MaxSteps bounds model calls per query, 0 means no limit.
	MaxSteps int
	// MaxRepairs is the number of consecutive undecodable replies the model
	// is asked to correct before Invoke gives up.
	MaxRepairs int
	// OnStep, when set, is called for every decoded model step and every
	// observation appended to the transcript.
	OnStep func(ctx context.Context, step Step)
}

func NewAgent(completer Completer, registry *tools.Registry) *Agent {
	return &Agent{
		Name:         DefaultName,
		Description:  DefaultDescription,
		completer:    completer,
		tools:        registry,
		systemPrompt: SystemPrompt(registry.List()...),
		MaxSteps:     DefaultMaxSteps,
		MaxRepairs:   DefaultMaxRepairs,
	}
}

func (a *Agent) SetSystemPrompt(systemPrompt string) {
	a.systemPrompt = systemPrompt
}

func (a *Agent) SystemPrompt() string {
	return a.systemPrompt
}

func (a *Agent) ListTools() []tools.Tool {
	return a.tools.List()
}

// Invoke appends userQuery to conv and drives the model until it emits an
// output step, whose text is returned.
//
// Action steps run the named tool and append its observation; any other
// decodable reply is appended verbatim and the model is called again.
func (a *Agent) Invoke(ctx context.Context, conv *Conversation, userQuery string) (string, error) {
	conv.AppendStep(UserStep(userQuery))

	repairs := 0
	for i := 1; a.MaxSteps <= 0 || i <= a.MaxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return "", errors.WithStack(err)
		}

		reply, err := a.completer.Complete(ctx, CompletionRequest{
			SystemInstruction: a.systemPrompt,
			Entries:           conv.Entries(),
		})
		if err != nil {
			return "", errors.WithMessagef(err, "model call %d", i)
		}

		step, err := DecodeStep(reply)
		if err != nil {
			repairs++
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.Name,
				"conversation", conv.ID(),
				"reason", "decode_step",
				"attempt", repairs,
				"reply", reply,
				"err", err.Error(),
			)
			if repairs > a.MaxRepairs {
				return "", errors.WithMessagef(err, "model call %d", i)
			}
			conv.Append(RoleUser, reply)
			conv.AppendStep(UserStep(repairPrompt(err)))
			continue
		}
		repairs = 0
		a.notify(ctx, conv, step)

		switch step.Type {
		case StepAction:
			tool, err := a.tools.Resolve(step.Function)
			if err != nil {
				return "", errors.WithMessage(err, "action")
			}
			result, err := tool.Call(ctx, step.Input)
			if err != nil {
				result = fmt.Sprintf("Error executing tool: %v", err)
			}
			observation := ObservationStep(result)
			conv.AppendStep(observation)
			a.notify(ctx, conv, observation)

		case StepOutput:
			return step.Output, nil

		default:
			conv.Append(RoleUser, reply)
		}
	}
	return "", errors.Wrapf(ErrStepLimit, "%d model calls", a.MaxSteps)
}

func (a *Agent) notify(ctx context.Context, conv *Conversation, step Step) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", a.Name,
		"conversation", conv.ID(),
		"step", step.Type,
		"text", step.Text(),
	)
	if a.OnStep != nil {
		a.OnStep(ctx, step)
	}
}

func repairPrompt(err error) string {
	return fmt.Sprintf("Your last reply could not be used (%s). Reply with exactly one JSON object with a \"type\" of plan, action or output.", err.Error())
}
