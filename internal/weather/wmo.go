package weather

// WeatherCodeInfo is the human-readable interpretation of a WMO weather code.
type WeatherCodeInfo struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Severity    string `json:"severity"`
}

var unknownWeatherCode = WeatherCodeInfo{
	Description: "Conditions inconnues",
	Icon:        "❓",
	Severity:    "normal",
}

// wmoCodes maps WMO weather codes to descriptions. Codes not present here
// (reserved or unused by Open-Meteo) fall back to unknownWeatherCode.
var wmoCodes = map[int]WeatherCodeInfo{
	0:  {Description: "Ciel dégagé", Icon: "☀️", Severity: "normal"},
	1:  {Description: "Principalement dégagé", Icon: "🌤️", Severity: "normal"},
	2:  {Description: "Partiellement nuageux", Icon: "⛅", Severity: "normal"},
	3:  {Description: "Couvert", Icon: "☁️", Severity: "normal"},
	45: {Description: "Brouillard", Icon: "🌫️", Severity: "normal"},
	48: {Description: "Brouillard givrant", Icon: "🌫️", Severity: "normal"},
	51: {Description: "Bruine légère", Icon: "🌦️", Severity: "normal"},
	53: {Description: "Bruine modérée", Icon: "🌦️", Severity: "normal"},
	55: {Description: "Bruine dense", Icon: "🌦️", Severity: "normal"},
	61: {Description: "Pluie légère", Icon: "🌧️", Severity: "normal"},
	63: {Description: "Pluie modérée", Icon: "🌧️", Severity: "normal"},
	65: {Description: "Pluie forte", Icon: "🌧️", Severity: "normal"},
	80: {Description: "Averses légères", Icon: "🌦️", Severity: "normal"},
	81: {Description: "Averses modérées", Icon: "🌦️", Severity: "normal"},
	82: {Description: "Averses violentes", Icon: "⛈️", Severity: "warning"},
	95: {Description: "Orage", Icon: "⛈️", Severity: "warning"},
	96: {Description: "Orage avec grêle légère", Icon: "⛈️", Severity: "warning"},
	99: {Description: "Orage avec grêle forte", Icon: "⛈️", Severity: "danger"},
}

// DescribeWeatherCode interprets a WMO weather code. Unknown codes map to a
// default entry, never an error. A nil code (missing in the provider payload)
// is treated as unknown.
func DescribeWeatherCode(code *int) WeatherCodeInfo {
	if code == nil {
		return unknownWeatherCode
	}
	if info, ok := wmoCodes[*code]; ok {
		return info
	}
	return unknownWeatherCode
}
