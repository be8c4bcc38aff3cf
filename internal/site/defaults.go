package site

// 默认内容在每次调用时重新构造，调用方可以随意修改返回值。

func defaultSEO(title, description string, keywords ...string) SEO {
	return SEO{MetaTitle: title, MetaDescription: description, Keywords: append([]string{}, keywords...)}
}

// DefaultIslandGetaways 返回海岛度假页的默认内容。
func DefaultIslandGetaways() IslandGetaways {
	return IslandGetaways{
		Landing: Landing{
			Hero: Hero{
				Title:    "Island Getaways",
				Subtitle: "White sand, warm water and nothing on the schedule",
				Badge:    "All-inclusive",
				CTALabel: "Plan my escape",
			},
			HeroImages: []Image{
				{ID: "hero-1", URL: "/images/islands/hero.jpg", Alt: "Lagoon at sunset"},
			},
			Overview: Overview{
				Heading: "Your island, your pace",
				Body:    "Hand-picked islands with private transfers, snorkelling trips and slow mornings.",
			},
			Gallery: []Image{
				{ID: "img-1", URL: "/images/islands/reef.jpg", Alt: "Coral reef", Caption: "House reef snorkelling"},
				{ID: "img-2", URL: "/images/islands/villa.jpg", Alt: "Overwater villa"},
			},
			FAQs: []FAQ{
				{ID: "faq-1", Question: "When is the best time to travel?", Answer: "November to April brings the calmest seas."},
				{ID: "faq-2", Question: "Are transfers included?", Answer: "Yes, airport and inter-island transfers are included."},
			},
			SEO: defaultSEO("Island Getaways | Tidewater Travel", "Private island holidays with transfers and curated experiences.", "island holiday", "beach"),
		},
		Islands: []Destination{
			{ID: "island-1", Name: "Praslin", Description: "Granite boulders and quiet coves.", BestTime: "April to May", ImageURL: "/images/islands/praslin.jpg"},
		},
		Packages: []PricingTier{
			{ID: "pkg-1", Name: "Seven nights", Price: 2400, Currency: "USD", Includes: []string{"Flights", "Transfers", "Breakfast"}},
		},
	}
}

// DefaultWhaleWatching 返回观鲸页的默认内容。
func DefaultWhaleWatching() WhaleWatching {
	return WhaleWatching{
		Landing: Landing{
			Hero: Hero{
				Title:    "Whale Watching",
				Subtitle: "Meet the giants of the southern ocean",
				Badge:    "Seasonal",
				CTALabel: "Book a boat trip",
			},
			HeroImages: []Image{
				{ID: "hero-1", URL: "/images/whales/hero.jpg", Alt: "Humpback breaching"},
			},
			Overview: Overview{
				Heading: "Eye to eye with whales",
				Body:    "Small boats, marine biologist guides and respectful viewing distances.",
			},
			Gallery: []Image{
				{ID: "img-1", URL: "/images/whales/tail.jpg", Alt: "Whale tail fluke"},
			},
			FAQs: []FAQ{
				{ID: "faq-1", Question: "Will we see whales?", Answer: "Sightings are not guaranteed, but in peak season they are very likely."},
				{ID: "faq-2", Question: "Is it suitable for children?", Answer: "Children from six years old are welcome."},
			},
			SEO: defaultSEO("Whale Watching Tours | Tidewater Travel", "Guided whale watching boat trips in peak migration season.", "whale watching"),
		},
		Season: Season{Start: "June", End: "November", Peak: "September"},
		Tours: []Experience{
			{ID: "tour-1", Title: "Morning boat trip", Description: "Two hours on the bay with a marine guide.", Duration: "2 hours", Price: 95, ImageURL: "/images/whales/boat.jpg"},
		},
		Species: []Species{
			{ID: "species-1", Name: "Southern right whale", Description: "Often seen close to shore with calves."},
			{ID: "species-2", Name: "Humpback whale", Description: "Known for breaching and long songs."},
		},
	}
}

// DefaultSeaCucumber 返回海参体验页的默认内容。
func DefaultSeaCucumber() SeaCucumber {
	return SeaCucumber{
		Landing: Landing{
			Hero: Hero{
				Title:    "Sea Cucumber Experiences",
				Subtitle: "Farm visits, tastings and the story behind a delicacy",
				CTALabel: "Reserve a visit",
			},
			HeroImages: []Image{
				{ID: "hero-1", URL: "/images/sea-cucumber/hero.jpg", Alt: "Sea cucumber farm at low tide"},
			},
			Overview: Overview{
				Heading: "From lagoon to table",
				Body:    "Walk the tidal pens with local farmers and finish with a chef-led tasting.",
			},
			Gallery: []Image{},
			FAQs: []FAQ{
				{ID: "faq-1", Question: "Do I need to swim?", Answer: "No, the farm walk is at low tide in shallow water."},
			},
			SEO: defaultSEO("Sea Cucumber Experiences | Tidewater Travel", "Sea cucumber farm tours and tastings with local growers.", "sea cucumber", "food tour"),
		},
		Experiences: []Experience{
			{ID: "exp-1", Title: "Farm walk", Description: "Guided walk through the tidal pens.", Duration: "90 minutes", Price: 45},
			{ID: "exp-2", Title: "Chef tasting", Description: "Five small plates with paired tea.", Duration: "1 hour", Price: 60},
		},
		Benefits: []Highlight{
			{ID: "benefit-1", Title: "Sustainable farming", Description: "Pens are rotated to protect the seagrass.", Icon: "leaf"},
		},
		Pricing: []PricingTier{
			{ID: "price-1", Name: "Walk and taste", Price: 95, Currency: "USD", Includes: []string{"Guide", "Tasting", "Hotel pickup"}},
		},
	}
}

// DefaultTrainJourneys 返回火车旅行页的默认内容。
func DefaultTrainJourneys() TrainJourneys {
	return TrainJourneys{
		Landing: Landing{
			Hero: Hero{
				Title:    "Train Journeys",
				Subtitle: "Slow travel across mountains and coastline",
				Badge:    "First class",
				CTALabel: "Choose a route",
			},
			HeroImages: []Image{
				{ID: "hero-1", URL: "/images/trains/hero.jpg", Alt: "Train crossing a viaduct"},
			},
			Overview: Overview{
				Heading: "The journey is the destination",
				Body:    "Sleeper cabins, dining cars and panoramic windows on every route.",
			},
			Gallery: []Image{
				{ID: "img-1", URL: "/images/trains/dining.jpg", Alt: "Dining car"},
			},
			FAQs: []FAQ{
				{ID: "faq-1", Question: "How much luggage can I bring?", Answer: "Two suitcases per guest fit in the cabin."},
			},
			SEO: defaultSEO("Luxury Train Journeys | Tidewater Travel", "Scenic rail journeys with sleeper cabins and fine dining.", "train journey"),
		},
		Routes: []TrainRoute{
			{ID: "route-1", Name: "Coastal Explorer", From: "Cape Town", To: "Port Elizabeth", Duration: "2 days", Price: 1450, Description: "Ocean views and vineyard stops."},
		},
		Itinerary: []Stop{
			{ID: "stop-1", Day: 1, Title: "Departure", Description: "Board in the afternoon and dine as the sun sets."},
			{ID: "stop-2", Day: 2, Title: "Garden Route", Description: "Morning stop for a forest walk."},
		},
	}
}

// DefaultLuxuryStays 返回豪华住宿页的默认内容。
func DefaultLuxuryStays() LuxuryStays {
	return LuxuryStays{
		Landing: Landing{
			Hero: Hero{
				Title:    "Luxury Stays",
				Subtitle: "Private villas and boutique hotels, personally inspected",
				CTALabel: "Find a villa",
			},
			HeroImages: []Image{
				{ID: "hero-1", URL: "/images/stays/hero.jpg", Alt: "Infinity pool villa"},
			},
			Overview: Overview{
				Heading: "Stay somewhere unforgettable",
				Body:    "Every property is visited by our team before it is listed.",
			},
			Gallery: []Image{},
			FAQs: []FAQ{
				{ID: "faq-1", Question: "Is a deposit required?", Answer: "A 30% deposit secures the booking."},
			},
			SEO: defaultSEO("Luxury Villas and Hotels | Tidewater Travel", "Inspected luxury villas and boutique hotels.", "luxury villa", "boutique hotel"),
		},
		Properties: []Property{
			{ID: "property-1", Name: "Villa Azure", Kind: "villa", Location: "Mahé", PricePerNight: 850, Amenities: []string{"Private pool", "Chef"}, ImageURL: "/images/stays/azure.jpg"},
		},
		Perks: []Highlight{
			{ID: "perk-1", Title: "Concierge", Description: "A local host on call for the whole stay.", Icon: "bell"},
		},
	}
}
