package catalog

import (
	"github.com/shopspring/decimal"

	"digital-canteen/internal/models"
)

// defaultMenu is the built-in canteen menu.
var defaultMenu = []models.MenuItem{
	{
		ID:          1,
		Name:        "Classic Burger",
		Description: "Juicy beef patty with lettuce, tomato, and cheese",
		Price:       decimal.NewFromInt(749),
		Image:       "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.NonVegetarian,
	},
	{
		ID:          2,
		Name:        "Margherita Pizza",
		Description: "Fresh mozzarella, tomato sauce, and basil",
		Price:       decimal.NewFromInt(1099),
		Image:       "https://images.unsplash.com/photo-1574071318508-1cdbab80d002?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          3,
		Name:        "Caesar Salad",
		Description: "Crisp romaine, parmesan, croutons, and Caesar dressing",
		Price:       decimal.NewFromInt(649),
		Image:       "https://images.unsplash.com/photo-1546793665-c74683f339c1?w=400&h=300&fit=crop",
		Category:    "Salad",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          4,
		Name:        "Chicken Wrap",
		Description: "Grilled chicken, vegetables, and special sauce",
		Price:       decimal.NewFromInt(849),
		Image:       "https://images.unsplash.com/photo-1626700051175-6818013e1d4f?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.NonVegetarian,
	},
	{
		ID:          5,
		Name:        "French Fries",
		Description: "Crispy golden fries with sea salt",
		Price:       decimal.NewFromInt(329),
		Image:       "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?w=400&h=300&fit=crop",
		Category:    "Side",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          6,
		Name:        "Paneer Tikka",
		Description: "Spiced cottage cheese with vegetables",
		Price:       decimal.NewFromInt(999),
		Image:       "https://images.unsplash.com/photo-1567188040759-fb8a883dc6d8?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          7,
		Name:        "Chocolate Cake",
		Description: "Rich chocolate layer cake with frosting",
		Price:       decimal.NewFromInt(499),
		Image:       "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400&h=300&fit=crop",
		Category:    "Dessert",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          8,
		Name:        "Iced Coffee",
		Description: "Cold brew coffee with ice and milk",
		Price:       decimal.NewFromInt(379),
		Image:       "https://images.unsplash.com/photo-1517487881594-2787fef5ebf7?w=400&h=300&fit=crop",
		Category:    "Beverage",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          9,
		Name:        "Butter Chicken",
		Description: "Tender chicken in creamy tomato sauce",
		Price:       decimal.NewFromInt(1199),
		Image:       "https://images.unsplash.com/photo-1603894584373-5ac82b2ae398?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.NonVegetarian,
	},
	{
		ID:          10,
		Name:        "Dal Makhani",
		Description: "Creamy black lentils with spices",
		Price:       decimal.NewFromInt(799),
		Image:       "https://images.unsplash.com/photo-1546833999-b9f581a1996d?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          11,
		Name:        "Chicken Biryani",
		Description: "Aromatic basmati rice with tender chicken",
		Price:       decimal.NewFromInt(1299),
		Image:       "https://images.unsplash.com/photo-1563379091339-03b21ab4a4f8?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.NonVegetarian,
	},
	{
		ID:          12,
		Name:        "Veg Biryani",
		Description: "Fragrant rice with mixed vegetables and spices",
		Price:       decimal.NewFromInt(899),
		Image:       "https://images.unsplash.com/photo-1642821373181-696a54913e93?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          13,
		Name:        "Masala Dosa",
		Description: "Crispy rice crepe with potato filling",
		Price:       decimal.NewFromInt(599),
		Image:       "https://images.unsplash.com/photo-1630383249896-424e482df921?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          14,
		Name:        "Tandoori Chicken",
		Description: "Chargrilled chicken with aromatic spices",
		Price:       decimal.NewFromInt(1149),
		Image:       "https://images.unsplash.com/photo-1599487488170-d11ec9c172f0?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.NonVegetarian,
	},
	{
		ID:          15,
		Name:        "Chole Bhature",
		Description: "Spicy chickpeas with fluffy fried bread",
		Price:       decimal.NewFromInt(749),
		Image:       "https://images.unsplash.com/photo-1626132647523-66f85bf49a82?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          16,
		Name:        "Fish Curry",
		Description: "Fresh fish in tangy coconut curry",
		Price:       decimal.NewFromInt(1399),
		Image:       "https://images.unsplash.com/photo-1534604973900-c43ab4c2e0ab?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.NonVegetarian,
	},
	{
		ID:          17,
		Name:        "Samosa",
		Description: "Crispy pastry filled with spiced potatoes",
		Price:       decimal.NewFromInt(249),
		Image:       "https://images.unsplash.com/photo-1601050690597-df0568f70950?w=400&h=300&fit=crop",
		Category:    "Snack",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          18,
		Name:        "Mango Lassi",
		Description: "Creamy yogurt drink with fresh mango",
		Price:       decimal.NewFromInt(299),
		Image:       "https://images.unsplash.com/photo-1589291279675-62ac00d480db?w=400&h=300&fit=crop",
		Category:    "Beverage",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          19,
		Name:        "Chicken Tikka Masala",
		Description: "Grilled chicken in rich tomato cream sauce",
		Price:       decimal.NewFromInt(1249),
		Image:       "https://images.unsplash.com/photo-1588166524941-3bf61a9c41db?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.NonVegetarian,
	},
	{
		ID:          20,
		Name:        "Palak Paneer",
		Description: "Cottage cheese in creamy spinach curry",
		Price:       decimal.NewFromInt(949),
		Image:       "https://images.unsplash.com/photo-1601050690597-df0568f70950?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          21,
		Name:        "Naan Bread",
		Description: "Soft tandoor-baked flatbread",
		Price:       decimal.NewFromInt(149),
		Image:       "https://images.unsplash.com/photo-1601050690405-a0930f7ab5d3?w=400&h=300&fit=crop",
		Category:    "Side",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          22,
		Name:        "Gulab Jamun",
		Description: "Sweet milk dumplings in sugar syrup",
		Price:       decimal.NewFromInt(399),
		Image:       "https://images.unsplash.com/photo-1589301773859-cb1e9ab7ad29?w=400&h=300&fit=crop",
		Category:    "Dessert",
		Dietary:     models.Vegetarian,
	},
	{
		ID:          23,
		Name:        "Mutton Rogan Josh",
		Description: "Tender lamb in aromatic Kashmiri gravy",
		Price:       decimal.NewFromInt(1499),
		Image:       "https://images.unsplash.com/photo-1603360946369-dc9bb6258143?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.NonVegetarian,
	},
	{
		ID:          24,
		Name:        "Aloo Gobi",
		Description: "Potato and cauliflower dry curry",
		Price:       decimal.NewFromInt(699),
		Image:       "https://images.unsplash.com/photo-1585937421612-70a008356fbe?w=400&h=300&fit=crop",
		Category:    "Main Course",
		Dietary:     models.Vegetarian,
	},
}
