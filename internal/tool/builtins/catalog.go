// Package builtins provides the builtin travel-data tools. They are
// backed by a small static catalog so the planning engine runs end to
// end without network access; live providers slot in behind the same
// tool.Tool interface.
package builtins

// flightOffer is one catalog flight between two city codes.
type flightOffer struct {
	OfferID  string
	Carrier  string
	Number   string
	Origin   string
	Dest     string
	Departs  string
	Arrives  string
	Price    float64
	Currency string
	Cabin    string
}

// hotelEntry is one catalog hotel in a city.
type hotelEntry struct {
	HotelID  string
	Name     string
	City     string
	Rating   float64
	Price    float64
	Currency string
	Address  string
}

// trainEntry is one catalog train between two station codes.
type trainEntry struct {
	Number   string
	Name     string
	From     string
	To       string
	Departs  string
	Arrives  string
	Classes  []string
	RunsDays []string
}

// placeEntry is one catalog point of interest.
type placeEntry struct {
	PlaceID  string
	Name     string
	City     string
	Category string
	Rating   float64
	Lat      float64
	Lng      float64
}

var flightCatalog = []flightOffer{
	{OfferID: "FL-001", Carrier: "AI", Number: "AI864", Origin: "BOM", Dest: "GOI", Departs: "07:10", Arrives: "08:25", Price: 4850, Currency: "INR", Cabin: "ECONOMY"},
	{OfferID: "FL-002", Carrier: "6E", Number: "6E5231", Origin: "BOM", Dest: "GOI", Departs: "11:40", Arrives: "12:55", Price: 3990, Currency: "INR", Cabin: "ECONOMY"},
	{OfferID: "FL-003", Carrier: "UK", Number: "UK853", Origin: "DEL", Dest: "GOI", Departs: "06:00", Arrives: "08:40", Price: 7420, Currency: "INR", Cabin: "ECONOMY"},
	{OfferID: "FL-004", Carrier: "AI", Number: "AI687", Origin: "DEL", Dest: "BOM", Departs: "09:00", Arrives: "11:10", Price: 5610, Currency: "INR", Cabin: "ECONOMY"},
	{OfferID: "FL-005", Carrier: "6E", Number: "6E204", Origin: "GOI", Dest: "BOM", Departs: "18:20", Arrives: "19:35", Price: 4120, Currency: "INR", Cabin: "ECONOMY"},
	{OfferID: "FL-006", Carrier: "QP", Number: "QP1143", Origin: "BLR", Dest: "GOI", Departs: "08:55", Arrives: "10:05", Price: 3550, Currency: "INR", Cabin: "ECONOMY"},
}

var hotelCatalog = []hotelEntry{
	{HotelID: "HT-101", Name: "Taj Fort Aguada Resort", City: "Goa", Rating: 4.7, Price: 15200, Currency: "INR", Address: "Sinquerim, Candolim"},
	{HotelID: "HT-102", Name: "Cidade de Goa", City: "Goa", Rating: 4.4, Price: 9800, Currency: "INR", Address: "Vainguinim Beach, Dona Paula"},
	{HotelID: "HT-103", Name: "Hard Rock Hotel", City: "Goa", Rating: 4.2, Price: 7600, Currency: "INR", Address: "Calangute"},
	{HotelID: "HT-201", Name: "The Taj Mahal Palace", City: "Mumbai", Rating: 4.8, Price: 24500, Currency: "INR", Address: "Apollo Bunder, Colaba"},
	{HotelID: "HT-202", Name: "Trident Nariman Point", City: "Mumbai", Rating: 4.5, Price: 13900, Currency: "INR", Address: "Nariman Point"},
	{HotelID: "HT-301", Name: "The Imperial", City: "Delhi", Rating: 4.6, Price: 18700, Currency: "INR", Address: "Janpath Lane"},
}

var trainCatalog = []trainEntry{
	{Number: "10103", Name: "Mandovi Express", From: "CSMT", To: "MAO", Departs: "07:10", Arrives: "19:00", Classes: []string{"SL", "3A", "2A", "1A"}, RunsDays: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}},
	{Number: "12051", Name: "Jan Shatabdi Express", From: "CSMT", To: "MAO", Departs: "05:25", Arrives: "14:10", Classes: []string{"CC", "2S"}, RunsDays: []string{"Mon", "Wed", "Thu", "Fri", "Sat", "Sun"}},
	{Number: "12432", Name: "Trivandrum Rajdhani", From: "NZM", To: "MAO", Departs: "10:55", Arrives: "12:50", Classes: []string{"3A", "2A", "1A"}, RunsDays: []string{"Tue", "Thu", "Sun"}},
	{Number: "12009", Name: "Shatabdi Express", From: "BCT", To: "ADI", Departs: "06:20", Arrives: "12:40", Classes: []string{"CC", "EC"}, RunsDays: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}},
}

var placeCatalog = []placeEntry{
	{PlaceID: "PL-501", Name: "Baga Beach", City: "Goa", Category: "beach", Rating: 4.5, Lat: 15.5553, Lng: 73.7517},
	{PlaceID: "PL-502", Name: "Fort Aguada", City: "Goa", Category: "historic", Rating: 4.4, Lat: 15.4920, Lng: 73.7733},
	{PlaceID: "PL-503", Name: "Basilica of Bom Jesus", City: "Goa", Category: "historic", Rating: 4.6, Lat: 15.5009, Lng: 73.9116},
	{PlaceID: "PL-504", Name: "Dudhsagar Falls", City: "Goa", Category: "nature", Rating: 4.7, Lat: 15.3144, Lng: 74.3143},
	{PlaceID: "PL-601", Name: "Gateway of India", City: "Mumbai", Category: "historic", Rating: 4.6, Lat: 18.9220, Lng: 72.8347},
	{PlaceID: "PL-602", Name: "Marine Drive", City: "Mumbai", Category: "scenic", Rating: 4.5, Lat: 18.9432, Lng: 72.8236},
	{PlaceID: "PL-701", Name: "Red Fort", City: "Delhi", Category: "historic", Rating: 4.5, Lat: 28.6562, Lng: 77.2410},
	{PlaceID: "PL-702", Name: "Humayun's Tomb", City: "Delhi", Category: "historic", Rating: 4.6, Lat: 28.5933, Lng: 77.2507},
}

func (f flightOffer) toMap() map[string]any {
	return map[string]any{
		"offer_id":       f.OfferID,
		"carrier":        f.Carrier,
		"flight_number":  f.Number,
		"origin":         f.Origin,
		"destination":    f.Dest,
		"departure_time": f.Departs,
		"arrival_time":   f.Arrives,
		"price":          f.Price,
		"currency":       f.Currency,
		"cabin":          f.Cabin,
	}
}

func (h hotelEntry) toMap() map[string]any {
	return map[string]any{
		"hotel_id":        h.HotelID,
		"name":            h.Name,
		"city":            h.City,
		"rating":          h.Rating,
		"price_per_night": h.Price,
		"currency":        h.Currency,
		"address":         h.Address,
	}
}

func (t trainEntry) toMap() map[string]any {
	classes := make([]any, len(t.Classes))
	for i, c := range t.Classes {
		classes[i] = c
	}
	days := make([]any, len(t.RunsDays))
	for i, d := range t.RunsDays {
		days[i] = d
	}
	return map[string]any{
		"train_number":   t.Number,
		"train_name":     t.Name,
		"from_station":   t.From,
		"to_station":     t.To,
		"departure_time": t.Departs,
		"arrival_time":   t.Arrives,
		"classes":        classes,
		"runs_on":        days,
	}
}

func (p placeEntry) toMap() map[string]any {
	return map[string]any{
		"place_id": p.PlaceID,
		"name":     p.Name,
		"city":     p.City,
		"category": p.Category,
		"rating":   p.Rating,
		"location": map[string]any{"lat": p.Lat, "lng": p.Lng},
	}
}
