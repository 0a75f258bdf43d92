package weather

import "encoding/json"

// RiskLevel is the ordinal heat-risk classification of a temperature reading.
// Levels are ordered by ascending severity.
type RiskLevel int

const (
	RiskNormal RiskLevel = iota
	RiskInconfortable
	RiskTresInconfortable
	RiskDangereux
	RiskTresDangereux
)

var riskLevelCodes = [...]string{
	RiskNormal:            "normal",
	RiskInconfortable:     "inconfortable",
	RiskTresInconfortable: "tres_inconfortable",
	RiskDangereux:         "dangereux",
	RiskTresDangereux:     "tres_dangereux",
}

// Code returns the stable identifier persisted and exposed over the API.
func (l RiskLevel) Code() string {
	if l < 0 || int(l) >= len(riskLevelCodes) {
		return riskLevelCodes[RiskNormal]
	}
	return riskLevelCodes[l]
}

func (l RiskLevel) String() string { return l.Code() }

func (l RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Code())
}

// RiskAssessment is the full classification of a temperature reading: the
// level plus its fixed presentation metadata and health recommendations.
type RiskAssessment struct {
	Level           RiskLevel `json:"level"`
	Color           string    `json:"color"`
	Label           string    `json:"label"`
	Description     string    `json:"description"`
	Recommendations []string  `json:"recommendations"`
}

// riskBrackets holds the inclusive lower temperature bound of each level,
// ordered from the most severe level downward so that a temperature equal to
// a bound classifies into the higher bracket.
var riskBrackets = []struct {
	bound      float64
	assessment RiskAssessment
}{
	{45, RiskAssessment{
		Level:       RiskTresDangereux,
		Color:       "#8B0000",
		Label:       "Très Dangereux",
		Description: "Risque extrême de coup de chaleur",
		Recommendations: []string{
			"Évitez absolument toute exposition au soleil",
			"Restez dans un environnement climatisé",
			"Hydratez-vous constamment",
			"Consultez un médecin en cas de malaise",
		},
	}},
	{40, RiskAssessment{
		Level:       RiskDangereux,
		Color:       "#FF4500",
		Label:       "Dangereux",
		Description: "Risque élevé de problèmes de santé",
		Recommendations: []string{
			"Limitez les activités extérieures",
			"Portez des vêtements légers et clairs",
			"Buvez de l'eau régulièrement",
			"Cherchez l'ombre et la fraîcheur",
		},
	}},
	{35, RiskAssessment{
		Level:       RiskTresInconfortable,
		Color:       "#FF8C00",
		Label:       "Très Inconfortable",
		Description: "Inconfort thermique important",
		Recommendations: []string{
			"Évitez les efforts physiques intenses",
			"Hydratez-vous fréquemment",
			"Portez un chapeau et des lunettes",
			"Privilégiez les heures fraîches",
		},
	}},
	{30, RiskAssessment{
		Level:       RiskInconfortable,
		Color:       "#FFA500",
		Label:       "Inconfortable",
		Description: "Chaleur notable, précautions recommandées",
		Recommendations: []string{
			"Buvez suffisamment d'eau",
			"Évitez l'exposition prolongée au soleil",
			"Portez des vêtements adaptés",
		},
	}},
}

var riskNormal = RiskAssessment{
	Level:       RiskNormal,
	Color:       "#32CD32",
	Label:       "Normal",
	Description: "Conditions météorologiques normales",
	Recommendations: []string{
		"Conditions normales",
		"Hydratation régulière recommandée",
	},
}

// ClassifyHeatRisk maps a temperature in °C to its heat-risk assessment.
// Pure and deterministic; any finite value is accepted, temperatures below
// 30°C (including negatives) classify as normal.
func ClassifyHeatRisk(tempC float64) RiskAssessment {
	for _, b := range riskBrackets {
		if tempC >= b.bound {
			return b.assessment
		}
	}
	return riskNormal
}

// ClassifyHeatRiskReading classifies a possibly missing reading, preferring
// the measured temperature and falling back to the apparent temperature.
// When both are missing the reading cannot meet any threshold and is normal.
func ClassifyHeatRiskReading(temperature, apparentTemperature *float64) RiskAssessment {
	switch {
	case temperature != nil:
		return ClassifyHeatRisk(*temperature)
	case apparentTemperature != nil:
		return ClassifyHeatRisk(*apparentTemperature)
	default:
		return riskNormal
	}
}
