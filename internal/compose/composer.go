package compose

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"telegram-weather-stylist/internal/models"
	"telegram-weather-stylist/internal/weather"
)

const (
	adviceMaxTokens  = 120
	insightMaxTokens = 60
)

type ProfileStore interface {
	GetProfile(chatID int64) (*models.Profile, error)
}

type WeatherProvider interface {
	FetchCurrent(ctx context.Context, city string) (*weather.Current, error)
}

type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int32) (string, error)
}

type Sender interface {
	Send(chatID int64, text string) error
}

// Composer builds and sends the weather report for one user. It keeps no
// state of its own; everything comes from the profile store and providers.
type Composer struct {
	profiles ProfileStore
	weather  WeatherProvider
	gen      TextGenerator
	sender   Sender
	log      *zap.Logger
}

func New(profiles ProfileStore, w WeatherProvider, gen TextGenerator, sender Sender, log *zap.Logger) *Composer {
	return &Composer{profiles: profiles, weather: w, gen: gen, sender: sender, log: log}
}

// Summary renders the one-line conditions summary, temperatures rounded to
// the nearest degree.
func Summary(city, description string, temp, feelsLike float64) string {
	return fmt.Sprintf("In %s %s, %d°C (feels like %d°C).",
		city, capitalize(description), int(math.Round(temp)), int(math.Round(feelsLike)))
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Deliver sends the composed report to the chat. A missing profile is a
// no-op. A weather failure produces exactly one "unavailable" message; a
// generation failure only degrades its own section.
func (c *Composer) Deliver(ctx context.Context, chatID int64) error {
	p, err := c.profiles.GetProfile(chatID)
	if err != nil {
		return fmt.Errorf("read profile %d: %w", chatID, err)
	}
	if p == nil {
		return nil
	}

	cur, err := c.weather.FetchCurrent(ctx, p.City)
	if err != nil {
		c.log.Warn("weather fetch failed", zap.Int64("chat_id", chatID), zap.String("city", p.City), zap.Error(err))
		return c.sender.Send(chatID, "Could not fetch the weather right now. Try again later.")
	}

	var sb strings.Builder
	sb.WriteString("🌦 ")
	sb.WriteString(Summary(cur.City, cur.Description, cur.Temp, cur.FeelsLike))

	sb.WriteString("\n\n👕 What to wear:\n")
	sb.WriteString(c.clothingAdvice(ctx, cur, p))

	if p.WantsInsight() {
		sb.WriteString("\n\n🔮 Daily insight:\n")
		sb.WriteString(c.dailyInsight(ctx))
	}

	return c.sender.Send(chatID, sb.String())
}

func (c *Composer) clothingAdvice(ctx context.Context, cur *weather.Current, p *models.Profile) string {
	prompt := fmt.Sprintf(
		"Weather: %s, temperature: %.1f°C.\nGender: %s, clothing style: %s.\n"+
			"Give short advice (max 3 sentences) with emoji on what to wear for this weather.",
		cur.Description, cur.Temp, p.Gender, p.Style)

	out, err := c.gen.Generate(ctx, prompt, adviceMaxTokens)
	if err != nil {
		c.log.Warn("advice generation failed", zap.Int64("chat_id", p.ChatID), zap.Error(err))
		return "Could not generate a recommendation: " + err.Error()
	}
	return out
}

func (c *Composer) dailyInsight(ctx context.Context) string {
	prompt := "Write a positive insight for the day, no more than 2 sentences, with emoji."

	out, err := c.gen.Generate(ctx, prompt, insightMaxTokens)
	if err != nil {
		c.log.Warn("insight generation failed", zap.Error(err))
		return "Could not generate an insight: " + err.Error()
	}
	return out
}
