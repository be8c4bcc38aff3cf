package site

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidewater/internal/content"
)

// PagesCollection 是单文档落地页所在的集合。
const PagesCollection = "pages"

const (
	SlugIslandGetaways = "island-getaways"
	SlugWhaleWatching  = "whale-watching"
	SlugSeaCucumber    = "sea-cucumber"
	SlugTrainJourneys  = "train-journeys"
	SlugLuxuryStays    = "luxury-stays"
)

// Destination 是海岛目的地。
type Destination struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BestTime    string `json:"bestTime"`
	ImageURL    string `json:"imageUrl"`
}

func (d Destination) EntryID() string { return d.ID }

// IslandGetaways 是海岛度假页。
type IslandGetaways struct {
	Landing
	Islands  []Destination `json:"islands"`
	Packages []PricingTier `json:"packages"`
}

// Season 描述观鲸季节。
type Season struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Peak  string `json:"peak"`
}

// Species 是可观赏的物种。
type Species struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (s Species) EntryID() string { return s.ID }

// WhaleWatching 是观鲸页。
type WhaleWatching struct {
	Landing
	Season  Season       `json:"season"`
	Tours   []Experience `json:"tours"`
	Species []Species    `json:"species"`
}

// SeaCucumber 是海参体验页。
type SeaCucumber struct {
	Landing
	Experiences []Experience  `json:"experiences"`
	Benefits    []Highlight   `json:"benefits"`
	Pricing     []PricingTier `json:"pricing"`
}

// TrainRoute 是火车线路。
type TrainRoute struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

func (r TrainRoute) EntryID() string { return r.ID }

// Validate 实现 validation.Validatable。
func (r TrainRoute) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.From, validation.Required),
		validation.Field(&r.To, validation.Required),
		validation.Field(&r.Price, validation.Min(0.0)),
	)
}

// Stop 是行程中的一站。
type Stop struct {
	ID          string `json:"id"`
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s Stop) EntryID() string { return s.ID }

// TrainJourneys 是火车旅行页。
type TrainJourneys struct {
	Landing
	Routes    []TrainRoute `json:"routes"`
	Itinerary []Stop       `json:"itinerary"`
}

// Property 是别墅或酒店。
type Property struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	Location      string   `json:"location"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	ImageURL      string   `json:"imageUrl"`
}

func (p Property) EntryID() string { return p.ID }

// Validate 实现 validation.Validatable。
func (p Property) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Kind, validation.In("villa", "hotel")),
		validation.Field(&p.PricePerNight, validation.Min(0.0)),
	)
}

// LuxuryStays 是豪华住宿页。
type LuxuryStays struct {
	Landing
	Properties []Property  `json:"properties"`
	Perks      []Highlight `json:"perks"`
}

func islandGetawaysSchema() *content.Schema[IslandGetaways] {
	lists, records := landingSections(func(p *IslandGetaways) *Landing { return &p.Landing })
	return &content.Schema[IslandGetaways]{
		Collection: PagesCollection,
		DocumentID: SlugIslandGetaways,
		Title:      "海岛度假",
		Default:    DefaultIslandGetaways,
		Lists: append(lists,
			content.ListSection[IslandGetaways, Destination]{
				Key:    "islands",
				Prefix: "island",
				Items:  func(p *IslandGetaways) *[]Destination { return &p.Islands },
				New:    func(id string) Destination { return Destination{ID: id} },
			},
			content.ListSection[IslandGetaways, PricingTier]{
				Key:    "packages",
				Prefix: "pkg",
				Items:  func(p *IslandGetaways) *[]PricingTier { return &p.Packages },
				New:    func(id string) PricingTier { return PricingTier{ID: id, Currency: "USD", Includes: []string{}} },
			},
		),
		Records: records,
		Validate: func(p *IslandGetaways) error {
			return validation.ValidateStruct(p,
				validation.Field(&p.Landing),
				validation.Field(&p.Packages),
			)
		},
	}
}

func whaleWatchingSchema() *content.Schema[WhaleWatching] {
	lists, records := landingSections(func(p *WhaleWatching) *Landing { return &p.Landing })
	return &content.Schema[WhaleWatching]{
		Collection: PagesCollection,
		DocumentID: SlugWhaleWatching,
		Title:      "观鲸之旅",
		Default:    DefaultWhaleWatching,
		Lists: append(lists,
			content.ListSection[WhaleWatching, Experience]{
				Key:    "tours",
				Prefix: "tour",
				Editor: content.ListEditor[Experience]{Min: 1, Label: "观鲸行程"},
				Items:  func(p *WhaleWatching) *[]Experience { return &p.Tours },
				New:    func(id string) Experience { return Experience{ID: id} },
			},
			content.ListSection[WhaleWatching, Species]{
				Key:    "species",
				Prefix: "species",
				Items:  func(p *WhaleWatching) *[]Species { return &p.Species },
				New:    func(id string) Species { return Species{ID: id} },
			},
		),
		Records: append(records, content.RecordSection[WhaleWatching]{
			Key:   "season",
			Field: func(p *WhaleWatching) any { return &p.Season },
		}),
		Validate: func(p *WhaleWatching) error {
			return validation.ValidateStruct(p,
				validation.Field(&p.Landing),
				validation.Field(&p.Tours, validation.Required.Error("至少需要一个观鲸行程")),
			)
		},
	}
}

func seaCucumberSchema() *content.Schema[SeaCucumber] {
	lists, records := landingSections(func(p *SeaCucumber) *Landing { return &p.Landing })
	return &content.Schema[SeaCucumber]{
		Collection: PagesCollection,
		DocumentID: SlugSeaCucumber,
		Title:      "海参体验",
		Default:    DefaultSeaCucumber,
		Lists: append(lists,
			content.ListSection[SeaCucumber, Experience]{
				Key:    "experiences",
				Prefix: "exp",
				Items:  func(p *SeaCucumber) *[]Experience { return &p.Experiences },
				New:    func(id string) Experience { return Experience{ID: id} },
			},
			content.ListSection[SeaCucumber, Highlight]{
				Key:    "benefits",
				Prefix: "benefit",
				Items:  func(p *SeaCucumber) *[]Highlight { return &p.Benefits },
				New:    func(id string) Highlight { return Highlight{ID: id} },
			},
			content.ListSection[SeaCucumber, PricingTier]{
				Key:    "pricing",
				Prefix: "price",
				Items:  func(p *SeaCucumber) *[]PricingTier { return &p.Pricing },
				New:    func(id string) PricingTier { return PricingTier{ID: id, Currency: "USD", Includes: []string{}} },
			},
		),
		Records: records,
		Validate: func(p *SeaCucumber) error {
			return validation.ValidateStruct(p,
				validation.Field(&p.Landing),
				validation.Field(&p.Experiences),
				validation.Field(&p.Pricing),
			)
		},
	}
}

func trainJourneysSchema() *content.Schema[TrainJourneys] {
	lists, records := landingSections(func(p *TrainJourneys) *Landing { return &p.Landing })
	return &content.Schema[TrainJourneys]{
		Collection: PagesCollection,
		DocumentID: SlugTrainJourneys,
		Title:      "火车旅行",
		Default:    DefaultTrainJourneys,
		Lists: append(lists,
			content.ListSection[TrainJourneys, TrainRoute]{
				Key:    "routes",
				Prefix: "route",
				Editor: content.ListEditor[TrainRoute]{Min: 1, Label: "线路"},
				Items:  func(p *TrainJourneys) *[]TrainRoute { return &p.Routes },
				New:    func(id string) TrainRoute { return TrainRoute{ID: id} },
			},
			content.ListSection[TrainJourneys, Stop]{
				Key:    "itinerary",
				Prefix: "stop",
				Items:  func(p *TrainJourneys) *[]Stop { return &p.Itinerary },
				New:    func(id string) Stop { return Stop{ID: id} },
			},
		),
		Records: records,
		Validate: func(p *TrainJourneys) error {
			return validation.ValidateStruct(p,
				validation.Field(&p.Landing),
				validation.Field(&p.Routes, validation.Required.Error("至少需要一条线路")),
			)
		},
	}
}

func luxuryStaysSchema() *content.Schema[LuxuryStays] {
	lists, records := landingSections(func(p *LuxuryStays) *Landing { return &p.Landing })
	return &content.Schema[LuxuryStays]{
		Collection: PagesCollection,
		DocumentID: SlugLuxuryStays,
		Title:      "豪华住宿",
		Default:    DefaultLuxuryStays,
		Lists: append(lists,
			content.ListSection[LuxuryStays, Property]{
				Key:    "properties",
				Prefix: "property",
				Items:  func(p *LuxuryStays) *[]Property { return &p.Properties },
				New:    func(id string) Property { return Property{ID: id, Kind: "villa", Amenities: []string{}} },
			},
			content.ListSection[LuxuryStays, Highlight]{
				Key:    "perks",
				Prefix: "perk",
				Items:  func(p *LuxuryStays) *[]Highlight { return &p.Perks },
				New:    func(id string) Highlight { return Highlight{ID: id} },
			},
		),
		Records: records,
		Validate: func(p *LuxuryStays) error {
			return validation.ValidateStruct(p,
				validation.Field(&p.Landing),
				validation.Field(&p.Properties),
			)
		},
	}
}
