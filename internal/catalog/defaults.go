package catalog

import "github.com/shopspring/decimal"

func DefaultProducts() []Product {
	return []Product{
		{ID: "concrete_bag", Name: "Concrete Mix 60lb", Unit: "bag", Price: decimal.RequireFromString("5.75"), Keywords: []string{"concrete", "cement", "concrete bag"}},
		{ID: "plywood_sheet", Name: "Plywood 3/4in 4x8", Unit: "sheet", Price: decimal.RequireFromString("42.50"), Keywords: []string{"plywood", "ply sheet", "plywood sheet"}},
		{ID: "lumber_2x4", Name: "Lumber 2x4x8 SPF", Unit: "piece", Price: decimal.RequireFromString("4.25"), Keywords: []string{"lumber", "2x4", "stud"}},
		{ID: "drywall_panel", Name: "Drywall 1/2in 4x8", Unit: "panel", Price: decimal.RequireFromString("12.40"), Keywords: []string{"drywall", "gypsum", "sheetrock"}},
		{ID: "rebar_10ft", Name: "Rebar #4 10ft", Unit: "piece", Price: decimal.RequireFromString("8.10"), Keywords: []string{"rebar", "reinforcing bar"}},
		{ID: "brick_clay", Name: "Clay Brick", Unit: "each", Price: decimal.RequireFromString("0.55"), Keywords: []string{"brick", "clay"}},
		{ID: "mortar_bag", Name: "Mortar Mix 60lb", Unit: "bag", Price: decimal.RequireFromString("6.30"), Keywords: []string{"mortar", "mortar bag"}},
		{ID: "insulation_roll", Name: "Fiberglass Insulation R-13", Unit: "roll", Price: decimal.RequireFromString("16.90"), Keywords: []string{"insulation", "fiberglass"}},
		{ID: "roof_shingle", Name: "Asphalt Shingles Bundle", Unit: "bundle", Price: decimal.RequireFromString("31.00"), Keywords: []string{"shingles", "roofing", "asphalt"}},
		{ID: "galv_nails", Name: "Galvanized Nails 1lb", Unit: "box", Price: decimal.RequireFromString("4.80"), Keywords: []string{"nails", "galvanized nails"}},
		{ID: "wood_screws", Name: "Wood Screws 1lb", Unit: "box", Price: decimal.RequireFromString("5.10"), Keywords: []string{"screws", "wood screws"}},
		{ID: "paint_gallon", Name: "Interior Paint White", Unit: "gallon", Price: decimal.RequireFromString("24.75"), Keywords: []string{"paint", "white paint"}},
		{ID: "primer_gallon", Name: "Primer Sealer", Unit: "gallon", Price: decimal.RequireFromString("21.30"), Keywords: []string{"primer", "sealer"}},
		{ID: "acrylic_caulk", Name: "Acrylic Caulk 10oz", Unit: "tube", Price: decimal.RequireFromString("3.40"), Keywords: []string{"caulk", "sealant"}},
		{ID: "pvc_pipe_10ft", Name: "PVC Pipe 3/4in 10ft", Unit: "piece", Price: decimal.RequireFromString("6.60"), Keywords: []string{"pvc", "pvc pipe"}},
		{ID: "copper_pipe_10ft", Name: "Copper Pipe 1/2in 10ft", Unit: "piece", Price: decimal.RequireFromString("32.00"), Keywords: []string{"copper", "copper pipe"}},
		{ID: "electrical_cable", Name: "NM-B Cable 12/2 50ft", Unit: "roll", Price: decimal.RequireFromString("48.00"), Keywords: []string{"cable", "romex", "wire"}},
		{ID: "duplex_outlet", Name: "Duplex Outlet 15A", Unit: "each", Price: decimal.RequireFromString("1.20"), Keywords: []string{"outlet", "receptacle"}},
		{ID: "toggle_switch", Name: "Toggle Light Switch", Unit: "each", Price: decimal.RequireFromString("1.40"), Keywords: []string{"switch", "light switch"}},
		{ID: "led_fixture", Name: "LED Ceiling Fixture", Unit: "each", Price: decimal.RequireFromString("36.00"), Keywords: []string{"led", "light fixture", "ceiling light"}},
	}
}
