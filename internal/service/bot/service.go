package bot

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/pedefacil/backend/internal/model/conversation"
	"github.com/pedefacil/backend/internal/service/session"
)

// Classifier resolves a message plus conversation context into an intent.
type Classifier interface {
	Classify(ctx context.Context, text, conversationContext string) conversation.IntentResult
}

// Dispatcher executes an ordered list of action codes for one turn.
type Dispatcher interface {
	Dispatch(ctx context.Context, codes []int, params map[string]any, channelID string) conversation.Reply
}

// Service orchestrates one inbound-message-to-reply turn: validation,
// session load, skip heuristic, classification, dispatch, audit.
type Service struct {
	sessions   session.Store
	classifier Classifier
	dispatcher Dispatcher
}

// NewService wires the turn pipeline.
func NewService(sessions session.Store, classifier Classifier, dispatcher Dispatcher) *Service {
	return &Service{
		sessions:   sessions,
		classifier: classifier,
		dispatcher: dispatcher,
	}
}

const (
	unsupportedKindReply = "Por favor, me envie uma mensagem de texto ou a sua localização. 🙂"
	invalidMessageReply  = "⚠️ Não consegui processar a sua mensagem. Pode tentar de novo?"
	unavailableReply     = "😔 Estamos com instabilidade no momento. Tente novamente em alguns minutos."
)

// ProcessMessage runs one full turn. It never returns an error: every
// failure path degrades to a well-formed reply for the messaging channel.
func (s *Service) ProcessMessage(ctx context.Context, msg conversation.InboundMessage) conversation.Reply {
	channelID := s.resolveChannelID(msg)
	if channelID == "" || msg.Kind == "" {
		log.Printf("[bot] rejected message %q: missing channel identity or kind", msg.MessageID)
		return conversation.Reply{Message: invalidMessageReply, WaitForResponse: true}
	}
	if msg.Kind == conversation.KindUnsupported {
		// Unsupported payloads never touch the session or the classifier.
		return conversation.Reply{Message: unsupportedKindReply, WaitForResponse: true}
	}

	sessionID := conversation.SessionID(channelID)
	sess, err := s.sessions.GetOrCreateSession(ctx, sessionID, channelID)
	if err != nil {
		// The only condition allowed to short-circuit the whole pipeline:
		// without a session there is nothing safe to classify against.
		log.Printf("[bot] session bootstrap failed for channel=%s: %v", channelID, err)
		return conversation.Reply{Message: unavailableReply}
	}

	if decision := s.trySkip(ctx, msg.Text, sess); decision.Skip {
		s.recordTurn(ctx, sessionID, msg.Text, decision.Intent, decision.Reply, false)
		return conversation.Reply{Message: decision.Reply, WaitForResponse: true}
	}

	result := s.classifier.Classify(ctx, msg.Text, sess.LastIntent)

	intentLabel := result.Context
	if len(result.ActionCodes) > 0 {
		intentLabel = strconv.Itoa(result.ActionCodes[0])
	}
	if result.Context != "" {
		if err := s.sessions.UpdateSessionContext(ctx, sessionID, result.Context); err != nil {
			log.Printf("[bot] failed to persist context for session=%s: %v", sessionID, err)
		}
	}

	reply := s.buildReply(ctx, msg, sess, result, channelID)
	s.recordTurn(ctx, sessionID, msg.Text, intentLabel, reply.Message, true)
	return reply
}

// buildReply turns the classification into the final outbound payload,
// dispatching action codes when present.
func (s *Service) buildReply(ctx context.Context, msg conversation.InboundMessage, sess conversation.Session, result conversation.IntentResult, channelID string) conversation.Reply {
	if len(result.ActionCodes) == 0 {
		return conversation.Reply{
			Message:         result.ReplyMessage,
			WaitForResponse: result.WaitForResponse,
			Context:         result.Context,
		}
	}

	params, err := s.buildParams(msg, sess, channelID)
	if err != nil {
		log.Printf("[bot] parameter extraction failed for channel=%s: %v", channelID, err)
		return conversation.Reply{
			Message:         "😔 Desculpe, não consegui entender os dados enviados. Pode tentar de novo?",
			WaitForResponse: true,
			Context:         result.Context,
		}
	}

	reply := s.dispatcher.Dispatch(ctx, result.ActionCodes, params, channelID)
	reply.Context = result.Context
	return reply
}

// buildParams assembles the dispatcher parameter map. Precedence, later
// overriding earlier: session data, message-kind coordinates, then the
// always-present phone_number and raw message text.
func (s *Service) buildParams(msg conversation.InboundMessage, sess conversation.Session, channelID string) (map[string]any, error) {
	params := make(map[string]any, len(sess.Data)+4)
	for k, v := range sess.Data {
		params[k] = v
	}

	switch msg.Kind {
	case conversation.KindLocation:
		params["latitude"] = msg.Latitude
		params["longitude"] = msg.Longitude
	case conversation.KindText:
		// A text answer may arrive while a location from a previous turn is
		// cached in the context map, in whatever representation the channel
		// gateway used on the wire.
		latRaw, hasLat := msg.ContextData["latitude"]
		lonRaw, hasLon := msg.ContextData["longitude"]
		if hasLat && hasLon {
			lat, err := conversation.Float64(latRaw)
			if err != nil {
				return nil, err
			}
			lon, err := conversation.Float64(lonRaw)
			if err != nil {
				return nil, err
			}
			params["latitude"] = lat
			params["longitude"] = lon
		}
	}

	params["phone_number"] = channelID
	params["message"] = msg.Text
	return params, nil
}

func (s *Service) trySkip(ctx context.Context, text string, sess conversation.Session) session.SkipDecision {
	decision, err := s.sessions.CanSkipModel(ctx, text, sess)
	if err != nil {
		log.Printf("[bot] skip heuristic failed for session=%s: %v", sess.ID, err)
		return session.SkipDecision{}
	}
	if decision.Skip {
		if err := s.sessions.UpdateSessionContext(ctx, sess.ID, decision.Intent); err != nil {
			log.Printf("[bot] failed to persist skip context for session=%s: %v", sess.ID, err)
		}
	}
	return decision
}

func (s *Service) recordTurn(ctx context.Context, sessionID, text, intentLabel, replyText string, usedModel bool) {
	if err := s.sessions.AppendMessage(ctx, sessionID, text, intentLabel, replyText, usedModel); err != nil {
		log.Printf("[bot] failed to append message log for session=%s: %v", sessionID, err)
	}
}

// resolveChannelID returns the phone identity, falling back to the
// "session_<phone>" conversation id some gateways send instead.
func (s *Service) resolveChannelID(msg conversation.InboundMessage) string {
	if msg.ChannelID != "" {
		return msg.ChannelID
	}
	raw, ok := msg.ContextData["session_id"]
	if !ok {
		return ""
	}
	id, ok := raw.(string)
	if !ok {
		return ""
	}
	if phone, found := strings.CutPrefix(id, "session_"); found && phone != "" {
		return phone
	}
	return ""
}
