package store

// Category identifies one of the eight fixed data groupings. The value
// doubles as the URL slug on the data routes.
type Category string

const (
	CategoryOpeningStock          Category = "opening-stock"
	CategoryThirdPartyProcurement Category = "third-party-procurement"
	CategorySales                 Category = "sales"
	CategoryOtherDairySales       Category = "other-dairy-sales"
	CategoryProducts              Category = "products"
	CategorySiloClosingBalance    Category = "silo-closing-balance"
	CategoryProductsClosingStock  Category = "products-closing-stock"
	CategoryWaitingTanker         Category = "waiting-tanker"
)

// Opening stock sub-sections.
const (
	SectionOpeningStock      = "opening_stock"
	SectionTankerTransaction = "tanker_transaction"
	SectionOwnProcurement    = "own_procurement"
)

var tableByCategory = map[Category]string{
	CategoryOpeningStock:          "opening_stock_data",
	CategoryThirdPartyProcurement: "third_party_procurement_data",
	CategorySales:                 "sales_data",
	CategoryOtherDairySales:       "other_dairy_sales_data",
	CategoryProducts:              "products_data",
	CategorySiloClosingBalance:    "silo_closing_balance_data",
	CategoryProductsClosingStock:  "products_closing_stock_data",
	CategoryWaitingTanker:         "waiting_tanker_data",
}

var validSections = map[string]struct{}{
	SectionOpeningStock:      {},
	SectionTankerTransaction: {},
	SectionOwnProcurement:    {},
}

// Categories lists every category in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryOpeningStock,
		CategoryThirdPartyProcurement,
		CategorySales,
		CategoryOtherDairySales,
		CategoryProducts,
		CategorySiloClosingBalance,
		CategoryProductsClosingStock,
		CategoryWaitingTanker,
	}
}

// ParseCategory maps a URL slug to a known category.
func ParseCategory(slug string) (Category, bool) {
	c := Category(slug)
	_, ok := tableByCategory[c]
	return c, ok
}

// HasSections reports whether the category partitions its rows by a
// section discriminator. Only opening stock does.
func (c Category) HasSections() bool {
	return c == CategoryOpeningStock
}

func (c Category) table() string {
	return tableByCategory[c]
}
