package catalog

import "time"

// Seed provides a small default dataset so the service answers end-to-end
// before a real catalog backend is plugged in.
func Seed() Dataset {
	endOfMonth := time.Now().AddDate(0, 1, 0)
	return Dataset{
		Companies: []Company{
			{
				ID: "cmp-bella-massa", Name: "Bella Massa", Phone: "+55 11 91234-0001",
				Address: "Rua Augusta, 1200 - Consolação", Slogan: "A melhor massa artesanal da cidade",
				Latitude: -23.553, Longitude: -46.655, OpenHours: "11h às 23h", IsActive: true,
			},
			{
				ID: "cmp-sabor-do-norte", Name: "Sabor do Norte", Phone: "+55 11 91234-0002",
				Address: "Av. Paulista, 900 - Bela Vista", Slogan: "Comida nordestina de verdade",
				Latitude: -23.561, Longitude: -46.656, OpenHours: "10h às 22h", IsActive: true,
			},
			{
				ID: "cmp-sushi-ya", Name: "Sushi Ya", Phone: "+55 11 91234-0003",
				Address: "Rua da Glória, 523 - Liberdade", Slogan: "Tradição japonesa desde 1998",
				Latitude: -23.558, Longitude: -46.635, OpenHours: "18h às 00h", IsActive: true,
			},
			{
				ID: "cmp-burger-prime", Name: "Burger Prime", Phone: "+55 11 91234-0004",
				Address: "Rua Oscar Freire, 340 - Jardins", Slogan: "Smash burgers e milkshakes",
				Latitude: -23.562, Longitude: -46.669, OpenHours: "12h às 23h", IsActive: true,
			},
		},
		Categories: []Category{
			{ID: "cat-massas", Name: "Massas", IsActive: true},
			{ID: "cat-lanches", Name: "Lanches", IsActive: true},
			{ID: "cat-japonesa", Name: "Comida Japonesa", IsActive: true},
			{ID: "cat-nordestina", Name: "Comida Nordestina", IsActive: true},
			{ID: "cat-sobremesas", Name: "Sobremesas", IsActive: true},
			{ID: "cat-bebidas", Name: "Bebidas", IsActive: true},
		},
		MenuItems: []MenuItem{
			{ID: "itm-lasanha", CategoryID: "cat-massas", Name: "Lasanha à Bolonhesa", Description: "Camadas de massa fresca com molho da casa", Price: 48.90, IsAvailable: true, Tags: []string{"italiana"}},
			{ID: "itm-nhoque", CategoryID: "cat-massas", Name: "Nhoque ao Sugo", Price: 42.00, IsAvailable: true, Tags: []string{"italiana", "vegetariana"}},
			{ID: "itm-smash", CategoryID: "cat-lanches", Name: "Smash Duplo", Description: "Dois burgers de 90g, queijo e maionese prime", Price: 34.50, IsAvailable: true, Tags: []string{"hamburguer"}},
			{ID: "itm-baiao", CategoryID: "cat-nordestina", Name: "Baião de Dois", Price: 39.90, IsAvailable: true, Tags: []string{"nordestina"}},
			{ID: "itm-combinado", CategoryID: "cat-japonesa", Name: "Combinado 20 peças", Price: 89.00, IsAvailable: true, Tags: []string{"japonesa"}},
			{ID: "itm-pudim", CategoryID: "cat-sobremesas", Name: "Pudim de Leite", Price: 14.00, IsAvailable: true, Tags: []string{"sobremesa"}},
		},
		Tags: []Tag{
			{ID: "tag-italiana", Name: "Italiana"},
			{ID: "tag-japonesa", Name: "Japonesa"},
			{ID: "tag-nordestina", Name: "Nordestina"},
			{ID: "tag-hamburguer", Name: "Hambúrguer"},
			{ID: "tag-vegetariana", Name: "Vegetariana"},
		},
		Promotions: []Promotion{
			{ID: "promo-terca-massa", Title: "Terça da Massa", Type: DiscountPercentage, Value: 20, EndsAt: endOfMonth, IsActive: true},
			{ID: "promo-frete", Title: "Frete grátis acima de R$ 60", Type: DiscountFixed, Value: 9.90, EndsAt: endOfMonth.AddDate(0, 0, 15), IsActive: true},
		},
		Coupons: []Coupon{
			{ID: "cup-bemvindo", Code: "BEMVINDO10", Type: DiscountPercentage, Value: 10, EndsAt: endOfMonth, IsActive: true},
			{ID: "cup-15off", Code: "SABOR15", Type: DiscountFixed, Value: 15, EndsAt: endOfMonth.AddDate(0, 0, 7), IsActive: true},
		},
	}
}
