package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	analysis "github.com/pedefacil/backend/internal/analysis/intent"
	"github.com/pedefacil/backend/internal/model/catalog"
	"github.com/pedefacil/backend/internal/model/conversation"
	"github.com/pedefacil/backend/internal/service/dispatch"
	"github.com/pedefacil/backend/internal/service/session"
)

type appendRec struct {
	text      string
	intent    string
	reply     string
	usedModel bool
}

// stubStore wraps the in-memory store, records appends, and optionally
// forces a skip decision.
type stubStore struct {
	session.Store
	skip    session.SkipDecision
	skipErr error
	appends []appendRec
}

func newStubStore() *stubStore {
	return &stubStore{Store: session.NewMemoryStore()}
}

func (s *stubStore) CanSkipModel(ctx context.Context, text string, sess conversation.Session) (session.SkipDecision, error) {
	if s.skipErr != nil {
		return session.SkipDecision{}, s.skipErr
	}
	if s.skip.Skip {
		return s.skip, nil
	}
	return s.Store.CanSkipModel(ctx, text, sess)
}

func (s *stubStore) AppendMessage(ctx context.Context, sessionID, text, intentLabel, replyText string, usedModel bool) error {
	s.appends = append(s.appends, appendRec{text: text, intent: intentLabel, reply: replyText, usedModel: usedModel})
	return s.Store.AppendMessage(ctx, sessionID, text, intentLabel, replyText, usedModel)
}

type failingStore struct{}

func (failingStore) GetOrCreateSession(context.Context, string, string) (conversation.Session, error) {
	return conversation.Session{}, errors.New("store unreachable")
}
func (failingStore) CanSkipModel(context.Context, string, conversation.Session) (session.SkipDecision, error) {
	return session.SkipDecision{}, errors.New("store unreachable")
}
func (failingStore) UpdateSessionContext(context.Context, string, string) error {
	return errors.New("store unreachable")
}
func (failingStore) AppendMessage(context.Context, string, string, string, string, bool) error {
	return errors.New("store unreachable")
}

type stubClassifier struct {
	result      conversation.IntentResult
	calls       int
	lastText    string
	lastContext string
}

func (c *stubClassifier) Classify(_ context.Context, text, conversationContext string) conversation.IntentResult {
	c.calls++
	c.lastText = text
	c.lastContext = conversationContext
	return c.result
}

type stubDispatcher struct {
	reply  conversation.Reply
	calls  int
	codes  []int
	params map[string]any
}

func (d *stubDispatcher) Dispatch(_ context.Context, codes []int, params map[string]any, _ string) conversation.Reply {
	d.calls++
	d.codes = codes
	d.params = params
	return d.reply
}

func textMessage(channelID, text string) conversation.InboundMessage {
	return conversation.InboundMessage{
		MessageID: "msg-1",
		ChannelID: channelID,
		Kind:      conversation.KindText,
		Text:      text,
	}
}

func TestProcessMessageUnsupportedKind(t *testing.T) {
	store := newStubStore()
	classifier := &stubClassifier{}
	svc := NewService(store, classifier, &stubDispatcher{})

	reply := svc.ProcessMessage(context.Background(), conversation.InboundMessage{
		ChannelID: "5511999990000",
		Kind:      conversation.KindUnsupported,
	})

	if reply.Message != unsupportedKindReply {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
	if classifier.calls != 0 {
		t.Fatal("classifier must not run for unsupported payloads")
	}
	if len(store.appends) != 0 {
		t.Fatal("session log must not be touched for unsupported payloads")
	}
}

func TestProcessMessageMissingIdentity(t *testing.T) {
	svc := NewService(newStubStore(), &stubClassifier{}, &stubDispatcher{})

	reply := svc.ProcessMessage(context.Background(), conversation.InboundMessage{Kind: conversation.KindText, Text: "oi"})

	if reply.Message != invalidMessageReply {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestProcessMessageSessionIDFallback(t *testing.T) {
	store := newStubStore()
	classifier := &stubClassifier{result: conversation.IntentResult{ReplyMessage: "olá!"}}
	svc := NewService(store, classifier, &stubDispatcher{})

	reply := svc.ProcessMessage(context.Background(), conversation.InboundMessage{
		Kind:        conversation.KindText,
		Text:        "oi",
		ContextData: map[string]any{"session_id": "session_5511988887777"},
	})

	if reply.Message != "olá!" {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
	sess, err := store.GetOrCreateSession(context.Background(), "session_5511988887777", "5511988887777")
	if err != nil {
		t.Fatalf("GetOrCreateSession err: %v", err)
	}
	if sess.ChannelID != "5511988887777" {
		t.Fatalf("phone not extracted from conversation id: %+v", sess)
	}
}

func TestProcessMessageSkipPath(t *testing.T) {
	store := newStubStore()
	store.skip = session.SkipDecision{Skip: true, Intent: "menu_selection", Reply: "Aqui está o cardápio..."}
	classifier := &stubClassifier{}
	dispatcher := &stubDispatcher{}
	svc := NewService(store, classifier, dispatcher)

	reply := svc.ProcessMessage(context.Background(), textMessage("5511999990000", "quero ver o cardápio"))

	if reply.Message != "Aqui está o cardápio..." || !reply.WaitForResponse {
		t.Fatalf("unexpected skip reply: %+v", reply)
	}
	if classifier.calls != 0 || dispatcher.calls != 0 {
		t.Fatal("skip path must not invoke classifier or dispatcher")
	}
	if len(store.appends) != 1 {
		t.Fatalf("expected one log entry, got %d", len(store.appends))
	}
	if store.appends[0].usedModel {
		t.Fatal("skip path must log usedLanguageModel=false")
	}
	if store.appends[0].intent != "menu_selection" {
		t.Fatalf("unexpected logged intent: %q", store.appends[0].intent)
	}
}

func TestProcessMessageDispatchReplacesClassifierReply(t *testing.T) {
	store := newStubStore()
	classifier := &stubClassifier{result: conversation.IntentResult{
		ReplyMessage:    "placeholder que não deve aparecer",
		ActionCodes:     []int{2001, 5001},
		WaitForResponse: true,
		Context:         "menu_selection",
	}}
	dispatcher := &stubDispatcher{reply: conversation.Reply{
		Message:         "🍽️ *Categorias disponíveis:*\n\n• Massas",
		WaitForResponse: true,
		Codes:           []int{2001, 5001},
	}}
	svc := NewService(store, classifier, dispatcher)

	reply := svc.ProcessMessage(context.Background(), textMessage("5511999990000", "cardápio e promoções"))

	if strings.Contains(reply.Message, "placeholder") {
		t.Fatal("dispatcher reply must replace the classifier placeholder")
	}
	if dispatcher.calls != 1 {
		t.Fatalf("expected one dispatch, got %d", dispatcher.calls)
	}
	if dispatcher.params["phone_number"] != "5511999990000" {
		t.Fatalf("phone_number missing from params: %v", dispatcher.params)
	}
	if dispatcher.params["message"] != "cardápio e promoções" {
		t.Fatalf("raw message missing from params: %v", dispatcher.params)
	}
	if reply.Context != "menu_selection" {
		t.Fatalf("context missing from reply: %+v", reply)
	}
	if store.appends[0].intent != "2001" {
		t.Fatalf("first action code must be the logged intent, got %q", store.appends[0].intent)
	}
	if !store.appends[0].usedModel {
		t.Fatal("classified turns must log usedLanguageModel=true")
	}
}

func TestProcessMessageContextRoundTrip(t *testing.T) {
	store := newStubStore()
	classifier := &stubClassifier{result: conversation.IntentResult{
		ReplyMessage: "Me envie a sua localização!",
		Context:      "waiting_location_for_restaurants",
	}}
	svc := NewService(store, classifier, &stubDispatcher{})

	svc.ProcessMessage(context.Background(), textMessage("5511999990000", "tem restaurante por aí?"))
	if classifier.lastContext != "" {
		t.Fatalf("first turn must classify with empty context, got %q", classifier.lastContext)
	}

	svc.ProcessMessage(context.Background(), textMessage("5511999990000", "e agora?"))
	if classifier.lastContext != "waiting_location_for_restaurants" {
		t.Fatalf("turn N context must feed turn N+1, got %q", classifier.lastContext)
	}
}

func TestProcessMessageLocationParams(t *testing.T) {
	store := newStubStore()
	classifier := &stubClassifier{result: conversation.IntentResult{
		ReplyMessage: "buscando...",
		ActionCodes:  []int{1001},
	}}
	dispatcher := &stubDispatcher{reply: conversation.Reply{Message: "📍 *Restaurantes próximos:*"}}
	svc := NewService(store, classifier, dispatcher)

	svc.ProcessMessage(context.Background(), conversation.InboundMessage{
		ChannelID: "5511999990000",
		Kind:      conversation.KindLocation,
		Latitude:  -23.55,
		Longitude: -46.63,
	})

	if dispatcher.params["latitude"] != -23.55 || dispatcher.params["longitude"] != -46.63 {
		t.Fatalf("coordinates missing from params: %v", dispatcher.params)
	}
}

func TestProcessMessageCachedLocationCoerced(t *testing.T) {
	store := newStubStore()
	classifier := &stubClassifier{result: conversation.IntentResult{
		ReplyMessage: "buscando...",
		ActionCodes:  []int{1001},
	}}
	dispatcher := &stubDispatcher{reply: conversation.Reply{Message: "ok"}}
	svc := NewService(store, classifier, dispatcher)

	msg := textMessage("5511999990000", "pode buscar")
	msg.ContextData = map[string]any{"latitude": "-23.55", "longitude": -46.63}
	svc.ProcessMessage(context.Background(), msg)

	if dispatcher.params["latitude"] != -23.55 {
		t.Fatalf("string latitude not coerced: %v", dispatcher.params["latitude"])
	}
}

func TestProcessMessageBadCachedLocationDegrades(t *testing.T) {
	store := newStubStore()
	classifier := &stubClassifier{result: conversation.IntentResult{
		ReplyMessage: "buscando...",
		ActionCodes:  []int{1001},
	}}
	dispatcher := &stubDispatcher{}
	svc := NewService(store, classifier, dispatcher)

	msg := textMessage("5511999990000", "pode buscar")
	msg.ContextData = map[string]any{"latitude": "not-a-number", "longitude": -46.63}
	reply := svc.ProcessMessage(context.Background(), msg)

	if dispatcher.calls != 0 {
		t.Fatal("dispatcher must not run with unusable coordinates")
	}
	if !strings.Contains(reply.Message, "Desculpe") {
		t.Fatalf("expected apology reply, got %q", reply.Message)
	}
}

func TestProcessMessageSessionBootstrapFailure(t *testing.T) {
	svc := NewService(failingStore{}, &stubClassifier{}, &stubDispatcher{})

	reply := svc.ProcessMessage(context.Background(), textMessage("5511999990000", "oi"))

	if reply.Message != unavailableReply {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestProcessMessageEndToEndMenu(t *testing.T) {
	store := session.NewMemoryStore()
	dispatcher := dispatch.NewDispatcher(catalog.NewMemoryStore(catalog.Seed()))
	classifier := &ruleOnlyClassifier{}
	svc := NewService(store, classifier, dispatcher)

	reply := svc.ProcessMessage(context.Background(), textMessage("5511999990000", "quero ver o cardápio"))

	if !strings.HasPrefix(reply.Message, "🍽️ *Categorias disponíveis:*") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
	if !reply.WaitForResponse {
		t.Fatal("menu browse must wait for a reply")
	}
}

func TestProcessMessageEndToEndLocation(t *testing.T) {
	store := session.NewMemoryStore()
	dispatcher := dispatch.NewDispatcher(catalog.NewMemoryStore(catalog.Seed()))
	classifier := &stubClassifier{result: conversation.IntentResult{
		ReplyMessage: "buscando...",
		ActionCodes:  []int{1001},
	}}
	svc := NewService(store, classifier, dispatcher)

	reply := svc.ProcessMessage(context.Background(), conversation.InboundMessage{
		ChannelID: "5511999990000",
		Kind:      conversation.KindLocation,
		Latitude:  -23.55,
		Longitude: -46.63,
	})

	if !strings.HasPrefix(reply.Message, "📍 *Restaurantes próximos:*") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

// ruleOnlyClassifier proxies the keyword rules without a model, for
// end-to-end tests that must not depend on one.
type ruleOnlyClassifier struct{}

func (ruleOnlyClassifier) Classify(_ context.Context, text, _ string) conversation.IntentResult {
	if result, ok := analysis.Match(text); ok {
		return result
	}
	return conversation.IntentResult{ReplyMessage: "não entendi", WaitForResponse: true}
}
