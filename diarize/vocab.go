package diarize

// Vocabulary holds the keyword lists driving semantic role correction for
// service-center calls. Terms are matched case-insensitively on word
// boundaries; multi-word terms match as phrases.
type Vocabulary struct {
	// Manager terms: greetings, scheduling, pricing, repair and
	// company-identifying vocabulary used by the service side.
	Manager []string
	// Client terms: first-person phrasing, vehicle symptoms, scheduling
	// questions phrased as a customer.
	Client []string
	// CarBrands strongly indicate the customer side; they also count as
	// Client terms during role scoring.
	CarBrands []string
	// SplitPhrases are manager questions that, embedded mid-segment in a
	// client-labeled segment, mark a hidden turn boundary.
	SplitPhrases []string
	// Acknowledgements are short reply tokens protected from sandwich
	// smoothing, since they are plausible real dialogue turns.
	Acknowledgements []string
}

// DefaultVocabulary returns the built-in English service-center keyword
// lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Manager: []string{
			"service", "center", "technician", "mechanic", "advisor",
			"company", "workshop", "garage",
			"appointment", "schedule", "booking", "available", "slot",
			"opening", "date",
			"cost", "price", "dollars", "estimate", "quote",
			"diagnostic", "inspection", "repair",
			"parts", "order", "ready", "pickup",
			"paperwork", "sign", "invoice", "payment", "warranty",
			"hello", "good morning", "good afternoon", "good evening",
			"how can i help", "let me check", "i will find out",
			"call you back", "clarify",
		},
		Client: []string{
			"my", "mine", "car", "vehicle",
			"knocking", "rattling", "broke down", "won't start", "stalls",
			"noise", "squeaking", "leaking", "grinding",
			"mileage", "year", "model", "make", "vin", "plate",
			"when", "how much", "can i", "drop off", "pick it up",
			"take a look", "check it", "fix it", "replace",
		},
		CarBrands: []string{
			"lada", "kia", "hyundai", "toyota", "nissan", "volkswagen",
			"skoda", "mazda", "ford", "opel", "renault", "citroen",
			"peugeot", "honda", "suzuki", "mitsubishi", "mercedes", "bmw",
			"audi", "lexus", "infiniti", "volvo", "land rover", "jaguar",
			"porsche", "subaru", "fiat", "jeep", "dodge", "chrysler",
			"cadillac", "chevrolet", "chery", "haval", "geely", "changan",
			"exeed", "omoda",
		},
		SplitPhrases: []string{
			"what car", "what kind of car", "which car",
			"what year", "what mileage",
			"what is your name", "what's your name",
			"what time works", "when is convenient", "when would you like",
		},
		Acknowledgements: []string{
			"yes", "no", "yeah", "yep", "okay", "ok", "alright",
			"sure", "thanks", "thank you", "please", "uh huh", "got it",
		},
	}
}
