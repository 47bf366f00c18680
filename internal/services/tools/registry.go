package tools

import (
	"github.com/sashabaranov/go-openai"
)

// Tool names as declared to the language model.
const (
	NameSearchProducts    = "searchProducts"
	NameConvertCurrencies = "convertCurrencies"
)

// Registry returns the static tool manifest offered to the language model on
// every turn that allows tool use. The descriptors never change at runtime.
func Registry() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        NameSearchProducts,
				Description: "Search for products in the shop catalog",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{"type": "string"},
					},
					"required": []string{"query"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        NameConvertCurrencies,
				Description: "Convert an amount between two currencies",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"amount": map[string]interface{}{"type": "number"},
						"from":   map[string]interface{}{"type": "string"},
						"to":     map[string]interface{}{"type": "string"},
					},
					"required": []string{"amount", "from", "to"},
				},
			},
		},
	}
}
