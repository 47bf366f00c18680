package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/quickcart/concierge/internal/services/catalog"
	"github.com/quickcart/concierge/internal/services/tools"
)

// Completer is the language-model gateway consumed by the orchestrator.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, manifest []openai.Tool, toolChoice string) (openai.ChatCompletionMessage, error)
}

// ProductSearcher answers substring queries against the loaded catalog.
type ProductSearcher interface {
	Search(query string) []catalog.Product
}

// Converter computes a currency conversion against a fresh rate snapshot.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// Service runs one conversational turn: it asks the model which tool the
// query needs, dispatches to the catalog or the exchange client, and asks the
// model to phrase the final answer. No state survives a turn; the message
// history is built locally and discarded when Answer returns.
type Service struct {
	completer         Completer
	products          ProductSearcher
	exchange          Converter
	initialToolChoice string
}

func NewService(completer Completer, products ProductSearcher, exchange Converter, initialToolChoice string) (*Service, error) {
	switch initialToolChoice {
	case "required", "auto":
	default:
		return nil, fmt.Errorf("invalid initial tool choice %q, want \"required\" or \"auto\"", initialToolChoice)
	}

	return &Service{
		completer:         completer,
		products:          products,
		exchange:          exchange,
		initialToolChoice: initialToolChoice,
	}, nil
}

// Answer handles one free-text query end to end. Any failure in a
// collaborator aborts the turn and is returned as the turn's result; nothing
// is retried.
func (s *Service) Answer(ctx context.Context, query string) (string, error) {
	turn := uuid.New().String()[:8]
	log.Info().Str("turn", turn).Str("query", query).Msg("Handling chat query")

	history := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: personaPrompt},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(queryTemplate, query)},
	}

	initial, err := s.completer.Complete(ctx, history, tools.Registry(), s.initialToolChoice)
	if err != nil {
		return "", err
	}

	decision, err := tools.ParseDecision(initial)
	if err != nil {
		return "", err
	}

	if decision.Kind == tools.DecisionNone {
		// Mandatory tool choice should make this unreachable, but a model
		// that answers directly anyway must not crash the turn.
		log.Warn().Str("turn", turn).Msg("Model made no recognised tool call, returning its text as-is")
		return decision.Text, nil
	}

	log.Info().Str("turn", turn).Str("tool", decision.Name()).RawJSON("args", json.RawMessage(decision.RawArgs)).Msg("Initial tool decision")

	// Context anchor for later completions, never shown to the end user.
	history = append(history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: fmt.Sprintf(toolChosenTemplate, decision.Name(), decision.RawArgs),
	})

	switch decision.Kind {
	case tools.DecisionSearchProducts:
		return s.productBranch(ctx, turn, history, decision.Search)
	case tools.DecisionConvertCurrencies:
		return s.currencyBranch(ctx, turn, history, decision.Convert)
	default:
		return decision.Text, nil
	}
}

// productBranch searches the catalog, then lets the model either answer from
// the product data or chain into a currency conversion of the found price.
func (s *Service) productBranch(ctx context.Context, turn string, history []openai.ChatCompletionMessage, args tools.SearchProductsArgs) (string, error) {
	found := s.products.Search(args.Query)
	log.Info().Str("turn", turn).Str("query", args.Query).Int("found", len(found)).Msg("Catalog search completed")

	if found == nil {
		found = []catalog.Product{}
	}
	productJSON, err := json.Marshal(found)
	if err != nil {
		return "", fmt.Errorf("failed to serialise products: %w", err)
	}

	history = append(history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(productsFoundTemplate, productJSON),
	})

	followUp, err := s.completer.Complete(ctx, history, tools.Registry(), "auto")
	if err != nil {
		return "", err
	}

	decision, err := tools.ParseDecision(followUp)
	if err != nil {
		return "", err
	}

	if decision.Kind != tools.DecisionConvertCurrencies {
		if decision.Kind != tools.DecisionNone {
			log.Warn().Str("turn", turn).Str("tool", decision.Name()).Msg("Unexpected follow-up tool call, returning its text as-is")
		}
		// Plain text here is already the final answer.
		return decision.Text, nil
	}

	converted, err := s.exchange.Convert(ctx, *decision.Convert.Amount, decision.Convert.From, decision.Convert.To)
	if err != nil {
		return "", err
	}
	log.Info().Str("turn", turn).Float64("converted", converted).Str("currency", decision.Convert.To).Msg("Converted product price")

	history = append(history,
		openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: fmt.Sprintf(toolChosenTemplate, decision.Name(), decision.RawArgs),
		},
		openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf(productsConvertedTemplate, productJSON, formatAmount(converted), decision.Convert.To),
		},
	)

	final, err := s.completer.Complete(ctx, history, nil, "")
	if err != nil {
		return "", err
	}
	return final.Content, nil
}

// currencyBranch runs a standalone conversion and asks the model to phrase
// the result.
func (s *Service) currencyBranch(ctx context.Context, turn string, history []openai.ChatCompletionMessage, args tools.ConvertCurrenciesArgs) (string, error) {
	converted, err := s.exchange.Convert(ctx, *args.Amount, args.From, args.To)
	if err != nil {
		return "", err
	}
	log.Info().Str("turn", turn).Float64("converted", converted).Str("currency", args.To).Msg("Converted amount")

	history = append(history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf(conversionDoneTemplate, formatAmount(converted), args.To),
	})

	final, err := s.completer.Complete(ctx, history, nil, "")
	if err != nil {
		return "", err
	}
	return final.Content, nil
}

// formatAmount renders a converted amount without trailing zeros. Rounding
// for presentation, if any, is left to the model's final synthesis.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
