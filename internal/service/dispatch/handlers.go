package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/pedefacil/backend/internal/model/catalog"
	"github.com/pedefacil/backend/internal/model/conversation"
)

const (
	nearbyRadiusKm       = 5.0
	openingHoursRadiusKm = 2.0
	maxNearbyResults     = 5
	maxCategories        = 20
	maxMenuItems         = 15
	maxOrders            = 5
)

// staticCuisines backs the cuisine browse when the tag catalog is empty,
// which is legitimate for a freshly provisioned tenant.
var staticCuisines = []string{
	"Brasileira", "Italiana", "Japonesa", "Nordestina",
	"Hambúrguer", "Pizza", "Vegetariana", "Sobremesas",
}

func (d *Dispatcher) handleNearbyRestaurants(ctx context.Context, params map[string]any, _ string) (conversation.DispatchResult, error) {
	lat, lon, ok := getCoordinates(params)
	if !ok {
		return conversation.DispatchResult{
			Message:         "📍 Para encontrar restaurantes próximos, me envie a sua localização!",
			WaitForResponse: true,
		}, nil
	}

	page, err := d.queries.CompaniesWithinRadius(ctx, lat, lon, nearbyRadiusKm, catalog.ListFilter{Page: 1, PageSize: 20})
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("nearby search: %w", err)
	}

	companies := page.Take(maxNearbyResults)
	if len(companies) == 0 {
		return conversation.DispatchResult{
			Message: "😕 Não encontrei restaurantes num raio de 5 km da sua localização.",
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("📍 *Restaurantes próximos:*")
	ids := make([]string, 0, len(companies))
	for i, c := range companies {
		builder.WriteString(fmt.Sprintf("\n\n%d. *%s*\n📞 %s\n🏠 %s", i+1, c.Name, c.Phone, c.Address))
		if c.Slogan != "" {
			builder.WriteString(fmt.Sprintf("\n_%s_", c.Slogan))
		}
		ids = append(ids, c.ID)
	}

	return conversation.DispatchResult{
		Message:  builder.String(),
		SideData: map[string]any{"company_ids": ids},
	}, nil
}

func (d *Dispatcher) handleOpeningHours(ctx context.Context, params map[string]any, _ string) (conversation.DispatchResult, error) {
	lat, lon, ok := getCoordinates(params)
	if !ok {
		return conversation.DispatchResult{
			Message:         "📍 Me envie a sua localização para eu verificar os horários dos restaurantes perto de você!",
			WaitForResponse: true,
		}, nil
	}

	page, err := d.queries.CompaniesWithinRadius(ctx, lat, lon, openingHoursRadiusKm, catalog.ListFilter{Page: 1, PageSize: 20})
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("opening hours search: %w", err)
	}

	companies := page.Take(maxNearbyResults)
	if len(companies) == 0 {
		return conversation.DispatchResult{
			Message: "😕 Não encontrei restaurantes num raio de 2 km da sua localização.",
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("🕐 *Horários de funcionamento:*")
	ids := make([]string, 0, len(companies))
	for _, c := range companies {
		hours := c.OpenHours
		if hours == "" {
			hours = "horário não informado"
		}
		builder.WriteString(fmt.Sprintf("\n\n*%s*\n🕐 %s", c.Name, hours))
		ids = append(ids, c.ID)
	}

	return conversation.DispatchResult{
		Message:  builder.String(),
		SideData: map[string]any{"company_ids": ids},
	}, nil
}

func (d *Dispatcher) handleMenuCategories(ctx context.Context, _ map[string]any, _ string) (conversation.DispatchResult, error) {
	page, err := d.queries.Categories(ctx, catalog.ListFilter{
		IsActive: catalog.BoolPtr(true),
		Page:     1, PageSize: maxCategories,
		SortBy: "name", SortOrder: "asc",
	})
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("categories query: %w", err)
	}

	if len(page.Items) == 0 {
		return conversation.DispatchResult{
			Message: "😕 Ainda não há categorias cadastradas no cardápio.",
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("🍽️ *Categorias disponíveis:*\n")
	ids := make([]string, 0, len(page.Items))
	for _, c := range page.Items {
		builder.WriteString(fmt.Sprintf("\n• %s", c.Name))
		ids = append(ids, c.ID)
	}
	builder.WriteString("\n\nQual categoria você quer ver?")

	return conversation.DispatchResult{
		Message:  builder.String(),
		SideData: map[string]any{"category_ids": ids},
	}, nil
}

func (d *Dispatcher) handleMenuItems(ctx context.Context, params map[string]any, _ string) (conversation.DispatchResult, error) {
	filter := catalog.MenuItemFilter{
		ListFilter: catalog.ListFilter{
			Page: 1, PageSize: maxMenuItems,
			SortBy: "name", SortOrder: "asc",
		},
		IsAvailable: catalog.BoolPtr(true),
		Tag:         getString(params, "tag"),
	}
	if categoryID := getString(params, "category_id"); categoryID != "" {
		filter.CategoryIDs = []string{categoryID}
	}

	page, err := d.queries.MenuItems(ctx, filter)
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("menu items query: %w", err)
	}

	if len(page.Items) == 0 {
		return conversation.DispatchResult{
			Message: "😕 Não encontrei pratos disponíveis com esse filtro.",
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("🍝 *Pratos disponíveis:*")
	ids := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		builder.WriteString(fmt.Sprintf("\n\n*%s* — %s", item.Name, formatCurrency(item.Price)))
		if item.Description != "" {
			builder.WriteString(fmt.Sprintf("\n_%s_", item.Description))
		}
		ids = append(ids, item.ID)
	}

	return conversation.DispatchResult{
		Message:  builder.String(),
		SideData: map[string]any{"menu_item_ids": ids},
	}, nil
}

func (d *Dispatcher) handlePromotions(ctx context.Context, _ map[string]any, _ string) (conversation.DispatchResult, error) {
	page, err := d.queries.Promotions(ctx, catalog.ListFilter{
		IsActive: catalog.BoolPtr(true),
		Page:     1, PageSize: 10,
		SortBy: "endsAt", SortOrder: "asc",
	})
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("promotions query: %w", err)
	}

	if len(page.Items) == 0 {
		return conversation.DispatchResult{
			Message: "😕 Não há promoções ativas no momento.",
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("🏷️ *Promoções ativas:*")
	ids := make([]string, 0, len(page.Items))
	for _, p := range page.Items {
		builder.WriteString(fmt.Sprintf("\n\n• *%s*\n%s (válida até %s)",
			p.Title, formatDiscount(p.Type, p.Value), formatDate(p.EndsAt)))
		ids = append(ids, p.ID)
	}

	return conversation.DispatchResult{
		Message:  builder.String(),
		SideData: map[string]any{"promotion_ids": ids},
	}, nil
}

func (d *Dispatcher) handleCoupons(ctx context.Context, _ map[string]any, _ string) (conversation.DispatchResult, error) {
	page, err := d.queries.Coupons(ctx, catalog.ListFilter{
		IsActive: catalog.BoolPtr(true),
		Page:     1, PageSize: 10,
		SortBy: "endsAt", SortOrder: "asc",
	})
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("coupons query: %w", err)
	}

	if len(page.Items) == 0 {
		return conversation.DispatchResult{
			Message: "😕 Não há cupons ativos no momento.",
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("🎟️ *Cupons ativos:*")
	ids := make([]string, 0, len(page.Items))
	for _, c := range page.Items {
		builder.WriteString(fmt.Sprintf("\n\n• *%s*\n%s (válido até %s)",
			c.Code, formatDiscount(c.Type, c.Value), formatDate(c.EndsAt)))
		ids = append(ids, c.ID)
	}

	return conversation.DispatchResult{
		Message:  builder.String(),
		SideData: map[string]any{"coupon_ids": ids},
	}, nil
}

func (d *Dispatcher) handleOrderStatus(ctx context.Context, params map[string]any, channelID string) (conversation.DispatchResult, error) {
	phone := getString(params, "phone_number")
	if phone == "" {
		phone = channelID
	}

	page, err := d.queries.Orders(ctx, catalog.OrderFilter{
		ListFilter:    catalog.ListFilter{Page: 1, PageSize: maxOrders},
		CustomerPhone: phone,
	})
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("orders query: %w", err)
	}

	orders := page.Take(maxOrders)
	if len(orders) == 0 {
		return conversation.DispatchResult{
			Message: "🛒 Você ainda não tem pedidos. Quer começar um agora?",
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("🛒 *Seus pedidos:*")
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		builder.WriteString(fmt.Sprintf("\n\n%s Pedido *%s* — %s\n%s %s · %s",
			statusEmoji(o.Status), o.ID, formatCurrency(o.Total),
			paymentEmoji(o.PaymentMethod), o.PaymentMethod, statusLabel(o.Status)))
		ids = append(ids, o.ID)
	}

	return conversation.DispatchResult{
		Message:  builder.String(),
		SideData: map[string]any{"order_ids": ids},
	}, nil
}

func (d *Dispatcher) handleOrderCancel(ctx context.Context, params map[string]any, channelID string) (conversation.DispatchResult, error) {
	phone := getString(params, "phone_number")
	if phone == "" {
		phone = channelID
	}

	page, err := d.queries.Orders(ctx, catalog.OrderFilter{
		ListFilter:    catalog.ListFilter{Page: 1, PageSize: maxOrders},
		CustomerPhone: phone,
		Status:        "Pending",
	})
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("pending orders query: %w", err)
	}

	orders := page.Take(maxOrders)
	if len(orders) == 0 {
		return conversation.DispatchResult{
			Message: "😌 Você não tem pedidos pendentes para cancelar.",
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("❌ *Pedidos que podem ser cancelados:*")
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		builder.WriteString(fmt.Sprintf("\n\n%s Pedido *%s* — %s", statusEmoji(o.Status), o.ID, formatCurrency(o.Total)))
		ids = append(ids, o.ID)
	}
	builder.WriteString("\n\nMe diga o número do pedido que você quer cancelar.")

	return conversation.DispatchResult{
		Message:  builder.String(),
		SideData: map[string]any{"order_ids": ids},
	}, nil
}

func (d *Dispatcher) handleOrderStart(_ context.Context, _ map[string]any, _ string) (conversation.DispatchResult, error) {
	return conversation.DispatchResult{
		Message:         "🛒 Vamos começar o seu pedido! Me diga o que você gostaria de comer.",
		WaitForResponse: true,
	}, nil
}

func (d *Dispatcher) handleCuisines(ctx context.Context, _ map[string]any, _ string) (conversation.DispatchResult, error) {
	page, err := d.queries.Tags(ctx, catalog.TagFilter{
		ListFilter: catalog.ListFilter{Page: 1, PageSize: maxCategories, SortBy: "name", SortOrder: "asc"},
	})
	if err != nil {
		return conversation.DispatchResult{}, fmt.Errorf("tags query: %w", err)
	}

	names := make([]string, 0, len(page.Items))
	ids := make([]string, 0, len(page.Items))
	for _, t := range page.Items {
		names = append(names, t.Name)
		ids = append(ids, t.ID)
	}
	if len(names) == 0 {
		names = staticCuisines
	}

	var builder strings.Builder
	builder.WriteString("🍜 *Tipos de cozinha:*\n")
	for _, name := range names {
		builder.WriteString(fmt.Sprintf("\n• %s", name))
	}
	builder.WriteString("\n\nQual deles você prefere?")

	result := conversation.DispatchResult{Message: builder.String()}
	if len(ids) > 0 {
		result.SideData = map[string]any{"tag_ids": ids}
	}
	return result, nil
}

func (d *Dispatcher) handleHumanHandoff(_ context.Context, _ map[string]any, _ string) (conversation.DispatchResult, error) {
	return conversation.DispatchResult{
		Message: "👤 Certo! Um dos nossos atendentes vai continuar a conversa com você em instantes.",
	}, nil
}
