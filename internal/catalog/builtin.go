package catalog

// Builtin returns the default data set used when no catalog directory is
// configured. Keys are stable identifiers; display metadata may change
// between releases without breaking saves.
func Builtin() *Catalogs {
	zones := []Zone{
		{Key: "apartment", Name: "Your Apartment", Adjacent: []string{"street"}},
		{Key: "street", Name: "Main Street", Adjacent: []string{"apartment", "office", "market", "park"}},
		{Key: "office", Name: "The Office", Adjacent: []string{"street"}},
		{Key: "market", Name: "Corner Market", Adjacent: []string{"street"}},
		{Key: "park", Name: "Riverside Park", Adjacent: []string{"street"}},
	}

	npcs := []NPC{
		{Key: "mia", Name: "Mia Calder", Home: "park"},
		{Key: "devon", Name: "Devon Reyes", Home: "office"},
		{Key: "grace", Name: "Grace Okafor", Home: "market"},
		{Key: "sam", Name: "Sam Whitlock", Home: "street"},
	}

	items := []Item{
		{Key: "sandwich", Name: "Deli Sandwich", Price: 6.50, Hunger: 25},
		{Key: "coffee", Name: "Black Coffee", Price: 3.00, Energy: 15, Mood: 5},
		{Key: "ramen", Name: "Instant Ramen", Price: 1.75, Hunger: 15, Mood: -5},
		{Key: "concert_ticket", Name: "Concert Ticket", Price: 45.00, Mood: 30, Energy: -10},
		{Key: "energy_drink", Name: "Energy Drink", Price: 4.25, Energy: 30, Hunger: -5},
	}

	stocks := []Stock{
		{Ticker: "COBOLT", Name: "Cobalt Dynamics", RefPrice: 130},
		{Ticker: "NIMBUS", Name: "Nimbus Labs", RefPrice: 95},
		{Ticker: "RUSTIC", Name: "Rustic Systems", RefPrice: 115},
		{Ticker: "PYLONS", Name: "Pylon Networks", RefPrice: 80},
		{Ticker: "VECTRA", Name: "Vectra AI", RefPrice: 165},
		{Ticker: "LUMINA", Name: "Lumina Health", RefPrice: 102},
	}

	events := []Event{
		{Key: "overtime", Name: "Pulled an all-nighter", Stats: map[string]int{"Energy": -30, "Mood": -10}, Cash: 80},
		{Key: "picnic", Name: "Picnic with Mia", Stats: map[string]int{"Mood": 20, "Hunger": 15}, NPCs: map[string]int{"mia": 10}, Cash: -12},
		{Key: "promotion", Name: "Promoted at work", Stats: map[string]int{"Mood": 25}, NPCs: map[string]int{"devon": 5}, Cash: 200},
		{Key: "groceries_spilled", Name: "Dropped the groceries", Stats: map[string]int{"Mood": -10}, Items: map[string]int{"ramen": 2}, Cash: -8},
		{Key: "found_wallet", Name: "Returned a lost wallet", Stats: map[string]int{"Mood": 10}, NPCs: map[string]int{"sam": 15}},
	}

	c := &Catalogs{
		NPCs:   make(map[string]NPC, len(npcs)),
		Items:  make(map[string]Item, len(items)),
		Stocks: make(map[string]Stock, len(stocks)),
		Events: make(map[string]Event, len(events)),
		Zones:  make(map[string]Zone, len(zones)),
	}
	for _, v := range npcs {
		c.NPCs[v.Key] = v
	}
	for _, v := range items {
		c.Items[v.Key] = v
	}
	for _, v := range stocks {
		c.Stocks[v.Ticker] = v
	}
	for _, v := range events {
		c.Events[v.Key] = v
	}
	for _, v := range zones {
		c.Zones[v.Key] = v
	}
	return c
}
