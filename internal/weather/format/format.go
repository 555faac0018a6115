// Package format renders weather snapshots as Turkish text. Every value is
// rounded to an integer except coordinates, which keep two decimals.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/8adimka/Go_Weather_Assistant/internal/weather"
)

const (
	NoCurrentData = "Güncel hava durumu verisi bulunamadı."
	NoHourlyData  = "Saatlik tahmin verisi bulunamadı."
	NoDailyData   = "Günlük tahmin verisi bulunamadı."

	maxHourlyLines = 24
)

var (
	weekdays = [7]string{"Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}
	months   = [12]string{"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran", "Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"}
)

// Current renders the current conditions block.
func Current(s *weather.Snapshot) string {
	if s == nil || s.Current == nil {
		return NoCurrentData
	}
	c := s.Current

	dayOrNight := "Gece"
	if c.IsDay {
		dayOrNight = "Gündüz"
	}

	var b strings.Builder
	b.WriteString("🌤️ Güncel Hava Durumu\n")
	b.WriteString(position(s))
	fmt.Fprintf(&b, "🕐 Zaman: %s\n", c.Time)
	fmt.Fprintf(&b, "🌡️ Sıcaklık: %d°C (Hissedilen: %d°C)\n", round(c.Temperature), round(c.ApparentTemperature))
	fmt.Fprintf(&b, "☁️ Durum: %s\n", Condition(c.WeatherCode))
	fmt.Fprintf(&b, "💧 Nem: %d%%\n", round(c.RelativeHumidity))
	fmt.Fprintf(&b, "🌧️ Yağış: %dmm\n", round(c.Precipitation))
	fmt.Fprintf(&b, "💨 Rüzgar: %d km/h %s yönünden\n", round(c.WindSpeed), WindDirection(c.WindDirection))
	fmt.Fprintf(&b, "💨 Rüzgar Hızı (Ani): %d km/h\n", round(c.WindGusts))
	fmt.Fprintf(&b, "☁️ Bulutluluk: %d%%\n", round(c.CloudCover))
	fmt.Fprintf(&b, "🔽 Basınç: %d hPa\n", round(c.PressureMSL))
	fmt.Fprintf(&b, "🌅 %s", dayOrNight)
	return b.String()
}

// Hourly renders at most 24 lines, one per hour.
func Hourly(s *weather.Snapshot) string {
	if s == nil || s.Hourly == nil {
		return NoHourlyData
	}
	h := s.Hourly

	var b strings.Builder
	b.WriteString("📊 24 Saatlik Hava Durumu Tahmini\n")
	b.WriteString(position(s))
	b.WriteString("\n")

	for i := 0; i < min(maxHourlyLines, h.Len()); i++ {
		fmt.Fprintf(&b, "%s: %d°C, %s, Nem: %d%%, Yağış: %dmm (%d%%)\n",
			clock(h.Time[i]),
			round(h.Temperature[i]),
			Condition(h.WeatherCode[i]),
			round(h.RelativeHumidity[i]),
			round(h.Precipitation[i]),
			round(h.PrecipitationProbability[i]))
	}
	return b.String()
}

// Daily renders one record per day in the block.
func Daily(s *weather.Snapshot) string {
	if s == nil || s.Daily == nil {
		return NoDailyData
	}
	d := s.Daily

	var b strings.Builder
	b.WriteString("📅 7 Günlük Hava Durumu Tahmini\n")
	b.WriteString(position(s))
	b.WriteString("\n")

	for i := 0; i < d.Len(); i++ {
		fmt.Fprintf(&b, "%s:\n", date(d.Time[i]))
		fmt.Fprintf(&b, "  🌡️ %d°C - %d°C\n", round(d.TemperatureMin[i]), round(d.TemperatureMax[i]))
		fmt.Fprintf(&b, "  ☁️ %s\n", Condition(d.WeatherCode[i]))
		fmt.Fprintf(&b, "  🌧️ Yağış: %dmm (%d%%)\n", round(d.PrecipitationSum[i]), round(d.PrecipitationProbabilityMax[i]))
		fmt.Fprintf(&b, "  💨 Rüzgar: %d km/h\n\n", round(d.WindSpeedMax[i]))
	}
	return b.String()
}

func position(s *weather.Snapshot) string {
	return fmt.Sprintf("📍 Konum: %.2f°, %.2f°\n", s.Latitude, s.Longitude)
}

func round(v float64) int {
	return int(math.Round(v))
}

// clock turns a local ISO timestamp ("2024-05-01T14:00") into "14:00".
func clock(ts string) string {
	t, err := time.Parse("2006-01-02T15:04", ts)
	if err != nil {
		return ts
	}
	return t.Format("15:04")
}

// date turns "2024-05-01" into "1 Mayıs Çarşamba".
func date(ds string) string {
	t, err := time.Parse(time.DateOnly, ds)
	if err != nil {
		return ds
	}
	return fmt.Sprintf("%d %s %s", t.Day(), months[t.Month()-1], weekdays[t.Weekday()])
}
