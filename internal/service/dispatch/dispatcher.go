package dispatch

import (
	"context"
	"fmt"
	"log"
	"strings"

	analysis "github.com/pedefacil/backend/internal/analysis/intent"
	"github.com/pedefacil/backend/internal/model/catalog"
	"github.com/pedefacil/backend/internal/model/conversation"
)

// HandlerFunc executes one action code against the catalog collaborators.
// Handlers are read-only: they query, format, and never write.
type HandlerFunc func(ctx context.Context, params map[string]any, channelID string) (conversation.DispatchResult, error)

type registration struct {
	handler    HandlerFunc
	needsReply bool
}

// Dispatcher maps action codes to handlers and merges their outputs into a
// single turn reply.
type Dispatcher struct {
	queries  catalog.Query
	registry map[int]registration
}

// NewDispatcher builds the action registry. The registry is keyed by the
// same codes the classifier prompt advertises; the parity between the two
// is enforced by tests.
func NewDispatcher(queries catalog.Query) *Dispatcher {
	d := &Dispatcher{queries: queries}

	handlers := map[int]HandlerFunc{
		analysis.CodeNearbyRestaurants: d.handleNearbyRestaurants,
		analysis.CodeMenuCategories:    d.handleMenuCategories,
		analysis.CodeMenuItems:         d.handleMenuItems,
		analysis.CodeOpeningHours:      d.handleOpeningHours,
		analysis.CodeOrderStatus:       d.handleOrderStatus,
		analysis.CodeOrderCancel:       d.handleOrderCancel,
		analysis.CodeOrderStart:        d.handleOrderStart,
		analysis.CodePromotions:        d.handlePromotions,
		analysis.CodeCoupons:           d.handleCoupons,
		analysis.CodeCuisines:          d.handleCuisines,
		analysis.CodeHumanHandoff:      d.handleHumanHandoff,
	}

	d.registry = make(map[int]registration, len(handlers))
	for _, spec := range analysis.Catalog() {
		handler, ok := handlers[spec.Code]
		if !ok {
			continue
		}
		d.registry[spec.Code] = registration{handler: handler, needsReply: spec.NeedsReply}
	}
	return d
}

// Codes returns every registered action code, for registry validation.
func (d *Dispatcher) Codes() []int {
	codes := make([]int, 0, len(d.registry))
	for code := range d.registry {
		codes = append(codes, code)
	}
	return codes
}

// Dispatch runs every code in order and aggregates the results: non-empty
// messages joined by a blank line in execution order, sideData merged with
// later actions overwriting earlier keys, waitForResponse raised by the
// needs-reply subset or by a handler that asked for more input.
func (d *Dispatcher) Dispatch(ctx context.Context, codes []int, params map[string]any, channelID string) conversation.Reply {
	var parts []string
	data := make(map[string]any)
	wait := false

	for _, code := range codes {
		result := d.run(ctx, code, params, channelID)

		if msg := strings.TrimSpace(result.Message); msg != "" {
			parts = append(parts, msg)
		}
		if result.WaitForResponse {
			wait = true
		}
		if reg, ok := d.registry[code]; ok && reg.needsReply {
			wait = true
		}
		for k, v := range result.SideData {
			data[k] = v
		}
	}

	reply := conversation.Reply{
		Message:         strings.Join(parts, "\n\n"),
		WaitForResponse: wait,
		Codes:           codes,
	}
	if len(data) > 0 {
		reply.Data = data
	}
	return reply
}

// run executes a single action with fault isolation: an error or panic in
// one handler is replaced by an apology and must not abort its siblings.
func (d *Dispatcher) run(ctx context.Context, code int, params map[string]any, channelID string) (result conversation.DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[dispatch] action %d panicked for channel=%s: %v", code, channelID, r)
			result = apologyResult()
		}
	}()

	reg, ok := d.registry[code]
	if !ok {
		return conversation.DispatchResult{
			Message:         "Ação não reconhecida. 🤖 Me diga de outra forma como posso ajudar!",
			WaitForResponse: true,
		}
	}

	result, err := reg.handler(ctx, params, channelID)
	if err != nil {
		log.Printf("[dispatch] action %d failed for channel=%s: %v", code, channelID, err)
		return apologyResult()
	}
	return result
}

func apologyResult() conversation.DispatchResult {
	return conversation.DispatchResult{
		Message: "😔 Desculpe, não consegui completar uma das ações agora. Tente novamente em instantes.",
	}
}

func getString(params map[string]any, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func getCoordinates(params map[string]any) (lat, lon float64, ok bool) {
	latRaw, hasLat := params["latitude"]
	lonRaw, hasLon := params["longitude"]
	if !hasLat || !hasLon {
		return 0, 0, false
	}

	lat, errLat := conversation.Float64(latRaw)
	lon, errLon := conversation.Float64(lonRaw)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
