package intent

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/pedefacil/backend/internal/analysis/intent"
)

type fakeChatModel struct {
	content string
	err     error
	calls   int
	seen    []*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	m.seen = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.content, nil), nil
}

func (m *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not supported")
}

func (m *fakeChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func newTestClassifier(t *testing.T, fake *fakeChatModel) *Classifier {
	t.Helper()
	var chatModel model.ChatModel
	if fake != nil {
		chatModel = fake
	}
	c, err := NewClassifier(context.Background(), chatModel, Config{})
	if err != nil {
		t.Fatalf("NewClassifier err: %v", err)
	}
	return c
}

func TestClassifyRuleMatchSkipsModel(t *testing.T) {
	fake := &fakeChatModel{content: `{"message":"should never be used"}`}
	c := newTestClassifier(t, fake)

	result := c.Classify(context.Background(), "quero ver o cardápio", "")

	if fake.calls != 0 {
		t.Fatalf("model called %d times on a rule match", fake.calls)
	}
	if len(result.ActionCodes) != 1 || result.ActionCodes[0] != analysis.CodeMenuCategories {
		t.Fatalf("unexpected codes: %v", result.ActionCodes)
	}
}

func TestClassifyFallsBackToModelOnce(t *testing.T) {
	fake := &fakeChatModel{
		content: `{"message":"Claro, aqui vão os pratos!","codes":"2002, 6001","wait_for_response":true,"conversation_context":"menu_selection"}`,
	}
	c := newTestClassifier(t, fake)

	result := c.Classify(context.Background(), "me mostra opções veganas", "")

	if fake.calls != 1 {
		t.Fatalf("expected exactly one model call, got %d", fake.calls)
	}
	if !reflect.DeepEqual(result.ActionCodes, []int{2002, 6001}) {
		t.Fatalf("unexpected codes: %v", result.ActionCodes)
	}
	if !result.WaitForResponse {
		t.Fatal("expected wait_for_response from model output")
	}
	if result.Context != "menu_selection" {
		t.Fatalf("unexpected context: %s", result.Context)
	}
}

func TestClassifyPromptCarriesContext(t *testing.T) {
	fake := &fakeChatModel{content: `{"message":"ok"}`}
	c := newTestClassifier(t, fake)

	c.Classify(context.Background(), "sim, pode ser", "waiting_location_for_restaurants")
	if !promptContains(fake.seen, "waiting_location_for_restaurants") {
		t.Fatal("conversation context missing from prompt")
	}

	c.Classify(context.Background(), "sim, pode ser", "")
	if !promptContains(fake.seen, "nenhum") {
		t.Fatal(`empty context should render as "nenhum"`)
	}
}

func TestClassifyPromptListsEveryAction(t *testing.T) {
	fake := &fakeChatModel{content: `{"message":"ok"}`}
	c := newTestClassifier(t, fake)

	c.Classify(context.Background(), "qualquer coisa sem regra", "")

	for _, spec := range analysis.Catalog() {
		if !promptContains(fake.seen, fmt.Sprintf("%d", spec.Code)) {
			t.Fatalf("action code %d missing from prompt", spec.Code)
		}
	}
}

func TestClassifyMalformedOutputFallsBack(t *testing.T) {
	for _, content := range []string{"não sei responder em json", `{"codes":"1001"}`, "{broken"} {
		fake := &fakeChatModel{content: content}
		c := newTestClassifier(t, fake)

		result := c.Classify(context.Background(), "mensagem sem regra", "")
		if len(result.ActionCodes) != 0 {
			t.Fatalf("fallback should carry no codes, got %v", result.ActionCodes)
		}
		if !result.WaitForResponse {
			t.Fatal("fallback should wait for a rephrase")
		}
		if result.ReplyMessage == "" {
			t.Fatal("fallback reply must not be empty")
		}
	}
}

func TestClassifyModelErrorFallsBack(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("upstream timeout")}
	c := newTestClassifier(t, fake)

	result := c.Classify(context.Background(), "mensagem sem regra", "")
	if len(result.ActionCodes) != 0 || !result.WaitForResponse {
		t.Fatalf("expected fallback result, got %+v", result)
	}
}

func TestClassifyWithoutModelFallsBack(t *testing.T) {
	c := newTestClassifier(t, nil)

	result := c.Classify(context.Background(), "mensagem sem regra", "")
	if result.ReplyMessage == "" || !result.WaitForResponse {
		t.Fatalf("expected fallback result, got %+v", result)
	}
}

func TestParseCodes(t *testing.T) {
	cases := []struct {
		raw  string
		want []int
	}{
		{"1001, 2001,x,3001", []int{1001, 2001, 3001}},
		{"2001", []int{2001}},
		{"", nil},
		{"  ", nil},
		{"abc, def", nil},
		{"5001,5001", []int{5001, 5001}},
	}
	for _, tc := range cases {
		if got := ParseCodes(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseCodes(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func promptContains(messages []*schema.Message, needle string) bool {
	for _, msg := range messages {
		if msg != nil && strings.Contains(msg.Content, needle) {
			return true
		}
	}
	return false
}
