package profile

// SeedDemo creates the two demo profiles used by the walkthrough:
// a health-conscious user and a premium-dining user, each with enough
// history to exercise the last-three rendering in prompts.
func SeedDemo(s *Store) []Profile {
	alice := s.Upsert("alice_001", "Alice Johnson",
		[]string{"vegan", "organic", "low-calorie", "fitness", "health-conscious"},
		[]string{
			"bought_acai_bowl",
			"attended_yoga_class",
			"read_nutrition_blog",
			"purchased_smoothie",
			"joined_gym",
		},
	)
	bob := s.Upsert("bob_001", "Bob Smith",
		[]string{"premium_cuts", "fine_dining", "wine_pairing", "luxury", "beef_lover"},
		[]string{
			"bought_ribeye_steak",
			"attended_wine_tasting",
			"purchased_champagne",
			"booked_fine_dining",
			"bought_truffle_oil",
		},
	)
	return []Profile{alice, bob}
}
