package catalog

var defaultActions = []Action{
	// Pice
	{
		Key:      "rakija",
		Name:     "Rakija",
		Category: CategoryPice,
		Cost:     10,
		Self:     Effect{Alcometer: 15, Respect: 3, Stomak: 5},
		Opponent: Effect{Respect: -8},
		Jitter:   3,
		Flavor: []string{
			"{actor} obara čašicu rakije i gleda {opponent} pravo u oči.",
			"{actor} naručuje dupli ljutu, {opponent} se pravi da ne vidi.",
		},
	},
	{
		Key:      "pivo",
		Name:     "Pivo",
		Category: CategoryPice,
		Cost:     5,
		Self:     Effect{Alcometer: 8, Respect: 1, Stomak: 10},
		Opponent: Effect{Respect: -4},
		Jitter:   2,
		Flavor: []string{
			"{actor} iskapi kriglu piva u jednom dahu.",
			"{actor} kucne flašom o sto i nazdravi {opponent}.",
		},
	},
	{
		Key:      "vinjak",
		Name:     "Vinjak",
		Category: CategoryPice,
		Cost:     15,
		Self:     Effect{Alcometer: 20, Respect: 5},
		Opponent: Effect{Respect: -12},
		Jitter:   4,
		Flavor: []string{
			"{actor} naruči vinjak kao pravi gospodin, {opponent} gubi obraz.",
		},
	},
	{
		Key:      "tura_za_sve",
		Name:     "Tura za sve",
		Category: CategoryPice,
		Cost:     30,
		Self:     Effect{Alcometer: 10, Respect: 12},
		Opponent: Effect{Alcometer: 10, Respect: -6},
		Flavor: []string{
			"{actor} časti celu kafanu! I {opponent} mora da popije.",
		},
	},

	// Hrana
	{
		Key:      "burek",
		Name:     "Burek",
		Category: CategoryHrana,
		Cost:     8,
		Self:     Effect{Alcometer: -10, Respect: 1, Stomak: 25},
		Flavor: []string{
			"{actor} smaže burek sa sirom i malo se otrezni.",
		},
	},
	{
		Key:      "cevapi",
		Name:     "Ćevapi",
		Category: CategoryHrana,
		Cost:     12,
		Self:     Effect{Alcometer: -15, Respect: 3, Stomak: 35},
		Opponent: Effect{Respect: -2},
		Flavor: []string{
			"{actor} jede deset u pola sa lukom, {opponent} samo gleda.",
		},
	},
	{
		Key:      "tursija",
		Name:     "Turšija",
		Category: CategoryHrana,
		Cost:     4,
		Self:     Effect{Alcometer: -5, Stomak: 10},
		Flavor: []string{
			"{actor} hrska turšiju između dve ture.",
		},
	},

	// Specijal
	{
		Key:      "zdravica",
		Name:     "Zdravica",
		Category: CategorySpecijal,
		Cost:     0,
		Self:     Effect{Respect: 2},
		Opponent: Effect{Respect: -5},
		Jitter:   2,
		Flavor: []string{
			"{actor} ustaje i drži zdravicu, {opponent} nema šta da doda.",
			"{actor} diže čašu: \"Za domaćina!\" {opponent} kasni sa odgovorom.",
		},
	},
	{
		Key:      "pesma_za_stolom",
		Name:     "Pesma za stolom",
		Category: CategorySpecijal,
		Cost:     20,
		MaxUses:  1,
		Self:     Effect{Respect: 10},
		Opponent: Effect{Respect: -10},
		Flavor: []string{
			"{actor} plaća tamburaše da sviraju pod prozorom, {opponent} ne zna reči.",
		},
	},
	{
		Key:      "lomljenje_casa",
		Name:     "Lomljenje čaša",
		Category: CategorySpecijal,
		Cost:     0,
		MaxUses:  1,
		Self:     Effect{Respect: -5},
		Opponent: Effect{Respect: -15},
		Flavor: []string{
			"{actor} razbija čašu o pod! Kafana ćuti, {opponent} je zatečen.",
		},
	},
	{
		Key:      "hladna_voda",
		Name:     "Čaša hladne vode",
		Category: CategorySpecijal,
		Cost:     0,
		MaxUses:  2,
		Self:     Effect{Alcometer: -20, Stomak: 5},
		Flavor: []string{
			"{actor} traži čašu hladne vode i dolazi sebi.",
		},
	},
}

// Default returns the standard kafana catalog
func Default() *Catalog {
	return MustNew(defaultActions...)
}
