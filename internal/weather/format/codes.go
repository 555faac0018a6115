package format

import "math"

const unknownCondition = "Bilinmeyen hava durumu"

// WMO weather interpretation codes.
var conditions = map[int]string{
	0:  "Açık gökyüzü",
	1:  "Çoğunlukla açık",
	2:  "Parçalı bulutlu",
	3:  "Kapalı",
	45: "Sis",
	48: "Dondurucu sis",
	51: "Hafif çisenti",
	53: "Orta çisenti",
	55: "Yoğun çisenti",
	56: "Hafif dondurucu çisenti",
	57: "Yoğun dondurucu çisenti",
	61: "Hafif yağmur",
	63: "Orta yağmur",
	65: "Şiddetli yağmur",
	66: "Hafif dondurucu yağmur",
	67: "Şiddetli dondurucu yağmur",
	71: "Hafif kar yağışı",
	73: "Orta kar yağışı",
	75: "Şiddetli kar yağışı",
	77: "Kar taneleri",
	80: "Hafif sağanak",
	81: "Orta sağanak",
	82: "Şiddetli sağanak",
	85: "Hafif kar sağanağı",
	86: "Şiddetli kar sağanağı",
	95: "Gök gürültülü fırtına",
	96: "Hafif dolu ile gök gürültülü fırtına",
	99: "Şiddetli dolu ile gök gürültülü fırtına",
}

// Condition returns the Turkish description of a weather code.
func Condition(code int) string {
	if desc, ok := conditions[code]; ok {
		return desc
	}
	return unknownCondition
}

var compass = [16]string{
	"Kuzey", "Kuzey-Kuzeydoğu", "Kuzeydoğu", "Doğu-Kuzeydoğu",
	"Doğu", "Doğu-Güneydoğu", "Güneydoğu", "Güney-Güneydoğu",
	"Güney", "Güney-Güneybatı", "Güneybatı", "Batı-Güneybatı",
	"Batı", "Batı-Kuzeybatı", "Kuzeybatı", "Kuzey-Kuzeybatı",
}

// WindDirection maps degrees to one of 16 compass points. Any finite
// value is accepted, including negatives and values above 360.
func WindDirection(degrees float64) string {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return compass[0]
	}
	i := int(math.Mod(math.Round(degrees/22.5), 16))
	if i < 0 {
		i += 16
	}
	return compass[i]
}
