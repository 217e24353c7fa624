package traits

import "tacticshub/pkg/models"

type TierStyle struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

var tierStyles = map[models.Tier]TierStyle{
	models.TierBronze:      {Hex: "#CD7F32", Name: "Bronze"},
	models.TierLightBronze: {Hex: "#E6B85C", Name: "Light Bronze"},
	models.TierSilver:      {Hex: "#C0C0C0", Name: "Silver"},
	models.TierGold:        {Hex: "#FFD700", Name: "Gold"},
	models.TierPlatinum:    {Hex: "#E5E4E2", Name: "Platinum"},
}

// Style returns the display colour and label for a tier.
func Style(t models.Tier) (TierStyle, bool) {
	s, ok := tierStyles[t]
	return s, ok
}
