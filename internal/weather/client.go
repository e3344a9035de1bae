package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Current is the slice of an OpenWeatherMap response the bot cares about.
type Current struct {
	City        string
	Description string
	Temp        float64
	FeelsLike   float64
}

type Client struct {
	baseURL string
	apiKey  string
	lang    string
	http    *http.Client
}

func NewClient(baseURL, apiKey, lang string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		lang:    lang,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type owmResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
}

// FetchCurrent requests current conditions for the city, metric units.
// Any non-200 answer is an error; callers treat it as "weather unavailable".
func (c *Client) FetchCurrent(ctx context.Context, city string) (*Current, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", c.lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather request for %q: status %d", city, resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("weather response: %w", err)
	}
	if len(body.Weather) == 0 {
		return nil, fmt.Errorf("weather response for %q: no conditions", city)
	}

	return &Current{
		City:        body.Name,
		Description: body.Weather[0].Description,
		Temp:        body.Main.Temp,
		FeelsLike:   body.Main.FeelsLike,
	}, nil
}
