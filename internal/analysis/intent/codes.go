package intent

// Action codes are the stable integer identifiers shared between the
// classifier prompt and the dispatcher registry. Both sides are built from
// the catalog below so they cannot drift apart.
const (
	CodeNearbyRestaurants = 1001
	CodeMenuCategories    = 2001
	CodeMenuItems         = 2002
	CodeOpeningHours      = 3001
	CodeOrderStatus       = 4001
	CodeOrderCancel       = 4002
	CodeOrderStart        = 4003
	CodePromotions        = 5001
	CodeCoupons           = 5002
	CodeCuisines          = 6001
	CodeHumanHandoff      = 7001
)

// ActionSpec describes one executable action for the classifier prompt and
// for registry validation.
type ActionSpec struct {
	Code        int
	Description string
	NeedsReply  bool
}

var actionCatalog = []ActionSpec{
	{CodeNearbyRestaurants, "buscar restaurantes próximos à localização do cliente (raio de 5 km)", true},
	{CodeMenuCategories, "listar as categorias ativas do cardápio", true},
	{CodeMenuItems, "listar pratos do cardápio, opcionalmente filtrados por categoria ou tipo de cozinha", true},
	{CodeOpeningHours, "informar horário de funcionamento dos restaurantes próximos (raio de 2 km)", false},
	{CodeOrderStatus, "consultar o status dos pedidos do cliente", true},
	{CodeOrderCancel, "cancelar um pedido pendente do cliente", true},
	{CodeOrderStart, "iniciar um novo pedido", true},
	{CodePromotions, "listar as promoções ativas", false},
	{CodeCoupons, "listar os cupons de desconto ativos", false},
	{CodeCuisines, "listar os tipos de cozinha disponíveis", true},
	{CodeHumanHandoff, "encaminhar o cliente para atendimento humano", false},
}

// Catalog returns the ordered list of every known action.
func Catalog() []ActionSpec {
	return append([]ActionSpec(nil), actionCatalog...)
}
