package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai"
)

// ErrBadArguments marks tool call arguments that failed to parse or validate
// against the tool's declared schema. Fatal for the turn.
var ErrBadArguments = errors.New("invalid tool arguments")

// DecisionKind identifies which capability, if any, the model chose.
type DecisionKind int

const (
	// DecisionNone means the model answered with plain text instead of a
	// tool call, or named a tool this service does not know.
	DecisionNone DecisionKind = iota
	DecisionSearchProducts
	DecisionConvertCurrencies
)

// SearchProductsArgs are the arguments of a searchProducts call.
type SearchProductsArgs struct {
	Query string `json:"query" validate:"required"`
}

// ConvertCurrenciesArgs are the arguments of a convertCurrencies call.
// Amount is a pointer so that an absent amount fails validation while an
// explicit zero passes.
type ConvertCurrenciesArgs struct {
	Amount *float64 `json:"amount" validate:"required"`
	From   string   `json:"from" validate:"required"`
	To     string   `json:"to" validate:"required"`
}

// Decision is the parsed outcome of one completion request: either plain
// text, or exactly one validated tool invocation. Only the arguments field
// matching Kind is populated.
type Decision struct {
	Kind    DecisionKind
	Text    string
	RawArgs string
	Search  SearchProductsArgs
	Convert ConvertCurrenciesArgs
}

// Name returns the wire name of the decided tool, or "" for DecisionNone.
func (d Decision) Name() string {
	switch d.Kind {
	case DecisionSearchProducts:
		return NameSearchProducts
	case DecisionConvertCurrencies:
		return NameConvertCurrencies
	default:
		return ""
	}
}

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseDecision interprets an assistant message as a tool decision. The first
// tool call in the message is authoritative; any additional calls are
// ignored. A call whose arguments do not satisfy the declared schema yields
// ErrBadArguments.
func ParseDecision(msg openai.ChatCompletionMessage) (Decision, error) {
	if len(msg.ToolCalls) == 0 {
		return Decision{Kind: DecisionNone, Text: msg.Content}, nil
	}

	call := msg.ToolCalls[0]
	raw := call.Function.Arguments

	switch call.Function.Name {
	case NameSearchProducts:
		var args SearchProductsArgs
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return Decision{}, fmt.Errorf("%w: %s: %v", ErrBadArguments, NameSearchProducts, err)
		}
		if err := validate.Struct(args); err != nil {
			return Decision{}, fmt.Errorf("%w: %s: %v", ErrBadArguments, NameSearchProducts, err)
		}
		return Decision{Kind: DecisionSearchProducts, RawArgs: raw, Search: args}, nil

	case NameConvertCurrencies:
		var args ConvertCurrenciesArgs
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return Decision{}, fmt.Errorf("%w: %s: %v", ErrBadArguments, NameConvertCurrencies, err)
		}
		if err := validate.Struct(args); err != nil {
			return Decision{}, fmt.Errorf("%w: %s: %v", ErrBadArguments, NameConvertCurrencies, err)
		}
		return Decision{Kind: DecisionConvertCurrencies, RawArgs: raw, Convert: args}, nil

	default:
		return Decision{Kind: DecisionNone, Text: msg.Content, RawArgs: raw}, nil
	}
}
