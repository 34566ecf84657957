package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/pedefacil/backend/internal/analysis/intent"
	"github.com/pedefacil/backend/internal/model/conversation"
)

// Config controls the classifier behavior.
type Config struct {
	// Timeout bounds a single model call. The model is the dominant cost
	// and latency source of a turn; on expiry the classifier degrades to
	// the same fallback as a parse failure.
	Timeout time.Duration
}

// Classifier resolves a user message into an IntentResult. It tries the
// keyword heuristics first and only invokes the language model when no rule
// matches.
type Classifier struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewClassifier builds the classifier. chatModel may be nil, in which case
// unmatched messages resolve to the rephrase fallback instead of a model call.
func NewClassifier(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Classifier, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Classifier{timeout: timeout}
	if chatModel == nil {
		return c, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile intent classifier chain: %w", err)
	}

	c.chain = runnable
	return c, nil
}

// Classify maps one message to an intent. conversationContext is the
// session's lastIntent label from the previous turn, or empty on a fresh
// conversation. It never returns an error: every failure path degrades to a
// user-safe fallback result.
func (c *Classifier) Classify(ctx context.Context, text, conversationContext string) conversation.IntentResult {
	if result, ok := analysis.Match(text); ok {
		return result
	}
	return c.classifyWithModel(ctx, text, conversationContext)
}

func (c *Classifier) classifyWithModel(ctx context.Context, text, conversationContext string) conversation.IntentResult {
	if c.chain == nil {
		return fallbackResult()
	}

	if conversationContext == "" {
		conversationContext = "nenhum"
	}

	input := map[string]any{
		"actions": renderActionCatalog(),
		"context": conversationContext,
		"message": strings.TrimSpace(text),
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.chain.Invoke(callCtx, input)
	if err != nil {
		log.Printf("[intent] model invoke failed, using fallback: %v", err)
		return fallbackResult()
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Printf("[intent] model returned empty content, using fallback")
		return fallbackResult()
	}

	payload, err := parseClassifierOutput(msg.Content)
	if err != nil {
		log.Printf("[intent] model output parse failed, using fallback: %v", err)
		return fallbackResult()
	}

	return conversation.IntentResult{
		ReplyMessage:    strings.TrimSpace(payload.Message),
		ActionCodes:     ParseCodes(payload.Codes),
		WaitForResponse: payload.WaitForResponse,
		Context:         strings.TrimSpace(payload.ConversationContext),
	}
}

// ParseCodes splits a comma-separated code list, keeping only the tokens
// that parse as integers and preserving their order. Malformed tokens are
// dropped silently; the model occasionally pads the list with text.
func ParseCodes(raw string) []int {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var codes []int
	for _, token := range strings.Split(raw, ",") {
		code, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

type classifierPayload struct {
	Message             string `json:"message"`
	Codes               string `json:"codes"`
	WaitForResponse     bool   `json:"wait_for_response"`
	ConversationContext string `json:"conversation_context"`
}

// parseClassifierOutput extracts the JSON object from the model reply. The
// model sometimes wraps the object in prose or code fences, so everything
// outside the outermost braces is ignored.
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Message) == "" {
		return nil, fmt.Errorf("missing message field")
	}
	return payload, nil
}

func fallbackResult() conversation.IntentResult {
	return conversation.IntentResult{
		ReplyMessage:    "Desculpe, não consegui entender. 🤔 Pode reformular a sua mensagem?",
		WaitForResponse: true,
	}
}

func renderActionCatalog() string {
	var builder strings.Builder
	for i, spec := range analysis.Catalog() {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("- %d: %s", spec.Code, spec.Description))
	}
	return builder.String()
}

const classifierSystemPrompt = "Você é o assistente virtual de uma plataforma de delivery de comida. " +
	"Classifique a intenção da mensagem do cliente e escolha quais ações executar.\n" +
	"Ações disponíveis (código: descrição):\n{actions}\n\n" +
	"Responda somente com um objeto JSON com os campos: " +
	"message (resposta curta e simpática em português), " +
	"codes (códigos das ações separados por vírgula, ou string vazia se nenhuma), " +
	"wait_for_response (booleano, true se a conversa deve aguardar uma resposta do cliente), " +
	"conversation_context (rótulo curto do estado da conversa). Não escreva nada além do JSON."

const classifierUserPrompt = "Contexto da conversa anterior: {context}\n\nMensagem do cliente:\n{message}"
