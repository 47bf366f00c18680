package chat

// Prompt text threaded through a turn. The orchestrator owns every system and
// follow-up message; the end user only ever contributes the original query.

const personaPrompt = `You are a friendly shopping assistant for an online store. ` +
	`Answer briefly and helpfully, and only talk about products the store actually carries.`

const queryTemplate = `%s

If the question is about a product, call searchProducts with a query of exactly one singular noun naming the item (for example "watch", never "red watches"). Do not offer a currency conversion alongside a product suggestion unless the user explicitly asked for one.`

const productsFoundTemplate = `Products found in the catalog:

%s

Generate the final answer for the user from this product information. If, and only if, the user's original question explicitly asked for a price in a different currency, call convertCurrencies on the product price instead of answering.`

const productsConvertedTemplate = `Products found in the catalog:

%s

Converted price: %s %s

Answer the user's question using the product information and the converted price.`

const conversionDoneTemplate = `The converted amount is %s %s. Give me the final answer for the user containing this result.`

const toolChosenTemplate = `Tool selected: %s with arguments %s`
