package mcp

import "encoding/json"

// Wire types for the SpaceTraders data envelope. Decoding into these trims
// responses down to the fields the tools surface; unknown remote fields are
// dropped by the decoder.

type meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type agentSummary struct {
	Symbol          string `json:"symbol"`
	Headquarters    string `json:"headquarters"`
	Credits         int64  `json:"credits"`
	StartingFaction string `json:"startingFaction"`
	ShipCount       int    `json:"shipCount"`
}

type listedAgent struct {
	AccountID string `json:"accountId"`
	agentSummary
}

type agentFunds struct {
	Credits   int64 `json:"credits"`
	ShipCount int   `json:"shipCount"`
}

type factionTrait struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type faction struct {
	Symbol       string         `json:"symbol"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Headquarters string         `json:"headquarters"`
	Traits       []factionTrait `json:"traits"`
	IsRecruiting bool           `json:"isRecruiting"`
}

// factionSummary flattens traits to their names for listings.
type factionSummary struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Headquarters string   `json:"headquarters"`
	Traits       []string `json:"traits"`
}

func summarizeFaction(f faction) factionSummary {
	names := make([]string, 0, len(f.Traits))
	for _, t := range f.Traits {
		names = append(names, t.Name)
	}
	return factionSummary{
		Symbol:       f.Symbol,
		Name:         f.Name,
		Description:  f.Description,
		Headquarters: f.Headquarters,
		Traits:       names,
	}
}

type contractPayment struct {
	OnAccepted  int64 `json:"onAccepted"`
	OnFulfilled int64 `json:"onFulfilled"`
}

type contractDeliver struct {
	TradeSymbol       string `json:"tradeSymbol"`
	DestinationSymbol string `json:"destinationSymbol"`
	UnitsRequired     int    `json:"unitsRequired"`
	UnitsFulfilled    int    `json:"unitsFulfilled"`
}

type contractTerms struct {
	Deadline string            `json:"deadline"`
	Payment  contractPayment   `json:"payment"`
	Deliver  []contractDeliver `json:"deliver"`
}

type contract struct {
	ID               string        `json:"id"`
	FactionSymbol    string        `json:"factionSymbol"`
	Type             string        `json:"type"`
	Terms            contractTerms `json:"terms"`
	Accepted         bool          `json:"accepted"`
	Fulfilled        bool          `json:"fulfilled"`
	DeadlineToAccept string        `json:"deadlineToAccept"`
}

type waypointRef struct {
	Symbol       string `json:"symbol"`
	Type         string `json:"type"`
	SystemSymbol string `json:"systemSymbol"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
}

type navRoute struct {
	Destination   waypointRef `json:"destination"`
	Origin        waypointRef `json:"origin"`
	Arrival       string      `json:"arrival"`
	DepartureTime string      `json:"departureTime"`
}

type shipNav struct {
	Status         string   `json:"status"`
	SystemSymbol   string   `json:"systemSymbol"`
	WaypointSymbol string   `json:"waypointSymbol"`
	Route          navRoute `json:"route"`
}

// routeInfo is the outward shape of a route, with the origin presented as
// the departure point.
type routeInfo struct {
	Destination   waypointRef `json:"destination"`
	Departure     waypointRef `json:"departure"`
	Arrival       string      `json:"arrival"`
	DepartureTime string      `json:"departureTime"`
}

type navStatus struct {
	Status         string    `json:"status"`
	WaypointSymbol string    `json:"waypointSymbol"`
	Route          routeInfo `json:"route"`
}

func summarizeNav(nav shipNav) navStatus {
	return navStatus{
		Status:         nav.Status,
		WaypointSymbol: nav.WaypointSymbol,
		Route: routeInfo{
			Destination:   nav.Route.Destination,
			Departure:     nav.Route.Origin,
			Arrival:       nav.Route.Arrival,
			DepartureTime: nav.Route.DepartureTime,
		},
	}
}

type fuelConsumed struct {
	Amount    int    `json:"amount"`
	Timestamp string `json:"timestamp"`
}

type shipFuel struct {
	Current  int          `json:"current"`
	Capacity int          `json:"capacity"`
	Consumed fuelConsumed `json:"consumed"`
}

type fuelLevel struct {
	Current  int `json:"current"`
	Capacity int `json:"capacity"`
}

type cargoItem struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       int    `json:"units"`
}

type shipCargo struct {
	Capacity  int         `json:"capacity"`
	Units     int         `json:"units"`
	Inventory []cargoItem `json:"inventory"`
}

type slimCargoItem struct {
	Symbol string `json:"symbol"`
	Units  int    `json:"units"`
}

// slimCargo lists inventory by symbol and units only, for tools where the
// cargo hold is a side effect rather than the subject.
type slimCargo struct {
	Capacity  int             `json:"capacity"`
	Units     int             `json:"units"`
	Inventory []slimCargoItem `json:"inventory"`
}

type cargoCount struct {
	Capacity int `json:"capacity"`
	Units    int `json:"units"`
}

type shipCooldown struct {
	ShipSymbol       string `json:"shipSymbol"`
	TotalSeconds     int    `json:"totalSeconds"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Expiration       string `json:"expiration,omitempty"`
}

type shipRegistration struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// shipListing is the condensed fleet view: where each ship is and how full
// its hold is.
type shipListing struct {
	Symbol       string           `json:"symbol"`
	Registration shipRegistration `json:"registration"`
	Nav          struct {
		Status   string `json:"status"`
		Location string `json:"location"`
	} `json:"nav"`
	Cargo cargoCount `json:"cargo"`
}

type fleetShip struct {
	Symbol       string           `json:"symbol"`
	Registration shipRegistration `json:"registration"`
	Nav          shipNav          `json:"nav"`
	Cargo        cargoCount       `json:"cargo"`
}

func summarizeShip(ship fleetShip) shipListing {
	listing := shipListing{
		Symbol:       ship.Symbol,
		Registration: ship.Registration,
		Cargo:        ship.Cargo,
	}
	listing.Nav.Status = ship.Nav.Status
	listing.Nav.Location = ship.Nav.WaypointSymbol
	return listing
}

// shipDetails passes the interesting ship sections through untouched.
type shipDetails struct {
	Symbol       string          `json:"symbol"`
	Registration json.RawMessage `json:"registration"`
	Nav          json.RawMessage `json:"nav"`
	Crew         json.RawMessage `json:"crew"`
	Frame        json.RawMessage `json:"frame"`
	Reactor      json.RawMessage `json:"reactor"`
	Engine       json.RawMessage `json:"engine"`
	Modules      json.RawMessage `json:"modules"`
	Mounts       json.RawMessage `json:"mounts"`
	Cargo        json.RawMessage `json:"cargo"`
	Fuel         json.RawMessage `json:"fuel"`
}

type purchasedShip struct {
	Symbol       string           `json:"symbol"`
	Registration shipRegistration `json:"registration"`
	Nav          shipNav          `json:"nav"`
	Frame        struct {
		Symbol         string `json:"symbol"`
		ModuleSlots    int    `json:"moduleSlots"`
		MountingPoints int    `json:"mountingPoints"`
		FuelCapacity   int    `json:"fuelCapacity"`
	} `json:"frame"`
	Reactor struct {
		Symbol      string `json:"symbol"`
		PowerOutput int    `json:"powerOutput"`
	} `json:"reactor"`
	Engine struct {
		Symbol string `json:"symbol"`
		Speed  int    `json:"speed"`
	} `json:"engine"`
	Modules json.RawMessage `json:"modules"`
	Mounts  json.RawMessage `json:"mounts"`
	Cargo   cargoCount      `json:"cargo"`
}

type shipyardTransaction struct {
	WaypointSymbol string `json:"waypointSymbol"`
	ShipSymbol     string `json:"shipSymbol"`
	Price          int64  `json:"price"`
	AgentSymbol    string `json:"agentSymbol"`
}

type marketTransaction struct {
	WaypointSymbol string `json:"waypointSymbol"`
	TradeSymbol    string `json:"tradeSymbol"`
	Type           string `json:"type"`
	Units          int    `json:"units"`
	PricePerUnit   int64  `json:"pricePerUnit"`
	TotalPrice     int64  `json:"totalPrice"`
}

type refuelTransaction struct {
	TotalPrice   int64 `json:"totalPrice"`
	Units        int   `json:"units"`
	PricePerUnit int64 `json:"pricePerUnit"`
}

type extraction struct {
	ShipSymbol string `json:"shipSymbol"`
	Yield      struct {
		Symbol string `json:"symbol"`
		Units  int    `json:"units"`
	} `json:"yield"`
}

type refineYield struct {
	TradeSymbol string `json:"tradeSymbol"`
	Units       int    `json:"units"`
}

type waypoint struct {
	Symbol       string          `json:"symbol"`
	Type         string          `json:"type"`
	SystemSymbol string          `json:"systemSymbol"`
	X            int             `json:"x"`
	Y            int             `json:"y"`
	Orbitals     json.RawMessage `json:"orbitals"`
	Traits       []factionTrait  `json:"traits"`
	Chart        json.RawMessage `json:"chart"`
	Faction      *struct {
		Symbol string `json:"symbol"`
	} `json:"faction"`
}

// waypointListing flattens the controlling faction to its symbol.
type waypointListing struct {
	Symbol       string          `json:"symbol"`
	Type         string          `json:"type"`
	SystemSymbol string          `json:"systemSymbol"`
	X            int             `json:"x"`
	Y            int             `json:"y"`
	Orbitals     json.RawMessage `json:"orbitals"`
	Traits       []factionTrait  `json:"traits"`
	Faction      *string         `json:"faction"`
}

func summarizeWaypoint(wp waypoint) waypointListing {
	listing := waypointListing{
		Symbol:       wp.Symbol,
		Type:         wp.Type,
		SystemSymbol: wp.SystemSymbol,
		X:            wp.X,
		Y:            wp.Y,
		Orbitals:     wp.Orbitals,
		Traits:       wp.Traits,
	}
	if wp.Faction != nil {
		listing.Faction = &wp.Faction.Symbol
	}
	return listing
}

type chartRecord struct {
	WaypointSymbol string `json:"waypointSymbol"`
	SubmittedBy    string `json:"submittedBy"`
	SubmittedOn    string `json:"submittedOn"`
}

type scannedSystem struct {
	Symbol       string `json:"symbol"`
	SectorSymbol string `json:"sectorSymbol"`
	Type         string `json:"type"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Distance     int    `json:"distance"`
}

type scannedShip struct {
	Symbol       string `json:"symbol"`
	Registration struct {
		Name          string `json:"name"`
		Role          string `json:"role"`
		FactionSymbol string `json:"factionSymbol"`
	} `json:"registration"`
	Nav struct {
		SystemSymbol   string `json:"systemSymbol"`
		WaypointSymbol string `json:"waypointSymbol"`
		Status         string `json:"status"`
	} `json:"nav"`
	Frame struct {
		Symbol string `json:"symbol"`
	} `json:"frame"`
}

type tradeGood struct {
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
	Supply        string `json:"supply"`
	PurchasePrice int64  `json:"purchasePrice"`
	SellPrice     int64  `json:"sellPrice"`
}

type tradeItem struct {
	Symbol string `json:"symbol"`
}

type market struct {
	Symbol       string              `json:"symbol"`
	Exports      []tradeItem         `json:"exports"`
	Imports      []tradeItem         `json:"imports"`
	Exchange     []tradeItem         `json:"exchange"`
	Transactions []marketTransaction `json:"transactions"`
	TradeGoods   []tradeGood         `json:"tradeGoods"`
}

// marketView lists traded goods by symbol and caps transactions to the most
// recent few.
type marketView struct {
	Symbol       string              `json:"symbol"`
	Exports      []string            `json:"exports"`
	Imports      []string            `json:"imports"`
	Exchange     []string            `json:"exchange"`
	Transactions []marketTransaction `json:"transactions"`
	TradeGoods   []tradeGood         `json:"tradeGoods"`
}

const marketTransactionLimit = 5

func summarizeMarket(m market) marketView {
	symbols := func(items []tradeItem) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.Symbol)
		}
		return out
	}
	transactions := m.Transactions
	if transactions == nil {
		transactions = []marketTransaction{}
	}
	if len(transactions) > marketTransactionLimit {
		transactions = transactions[:marketTransactionLimit]
	}
	if m.TradeGoods == nil {
		m.TradeGoods = []tradeGood{}
	}
	return marketView{
		Symbol:       m.Symbol,
		Exports:      symbols(m.Exports),
		Imports:      symbols(m.Imports),
		Exchange:     symbols(m.Exchange),
		Transactions: transactions,
		TradeGoods:   m.TradeGoods,
	}
}

type shipyardShip struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Supply        string `json:"supply"`
	PurchasePrice int64  `json:"purchasePrice"`
	Frame         struct {
		Symbol         string `json:"symbol"`
		Name           string `json:"name"`
		Description    string `json:"description"`
		ModuleSlots    int    `json:"moduleSlots"`
		MountingPoints int    `json:"mountingPoints"`
		FuelCapacity   int    `json:"fuelCapacity"`
	} `json:"frame"`
	Reactor struct {
		Symbol      string `json:"symbol"`
		Name        string `json:"name"`
		Description string `json:"description"`
		PowerOutput int    `json:"powerOutput"`
	} `json:"reactor"`
	Engine struct {
		Symbol      string `json:"symbol"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Speed       int    `json:"speed"`
	} `json:"engine"`
	Modules json.RawMessage `json:"modules"`
	Mounts  json.RawMessage `json:"mounts"`
	Crew    json.RawMessage `json:"crew"`
}

type shipyard struct {
	Symbol           string          `json:"symbol"`
	ShipTypes        json.RawMessage `json:"shipTypes"`
	ModificationsFee int64           `json:"modificationsFee"`
	Ships            []shipyardShip  `json:"ships"`
}

type shipyardView struct {
	Symbol        string          `json:"symbol"`
	ShipTypes     json.RawMessage `json:"shipTypes"`
	Modifications struct {
		Fee int64 `json:"fee"`
	} `json:"modifications"`
	Ships []shipyardShip `json:"ships"`
}

func summarizeShipyard(y shipyard) shipyardView {
	view := shipyardView{
		Symbol:    y.Symbol,
		ShipTypes: y.ShipTypes,
		Ships:     y.Ships,
	}
	if view.Ships == nil {
		view.Ships = []shipyardShip{}
	}
	view.Modifications.Fee = y.ModificationsFee
	return view
}
