package buildin

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/myproject/weather-agent/agent/tools"
	"github.com/tidwall/gjson"
)

var logger = xlog.NewPackageLogger("github.com/myproject/weather-agent/agent/tools", "buildin")

const (
	// FailedToFetchWeather is returned in place of any weather lookup error.
	FailedToFetchWeather = "Failed to Fetch Weather Data"

	DefaultWeatherBaseURL = "http://api.weatherapi.com"
)

// WeatherClient fetches the current temperature from weatherapi.com.
type WeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type WeatherOption func(*WeatherClient)

func WithAPIKey(apiKey string) WeatherOption {
	return func(c *WeatherClient) {
		c.apiKey = apiKey
	}
}

// WithBaseURL overrides the provider URL; empty keeps the default.
func WithBaseURL(baseURL string) WeatherOption {
	return func(c *WeatherClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(client *http.Client) WeatherOption {
	return func(c *WeatherClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewWeatherClient(opts ...WeatherOption) *WeatherClient {
	c := &WeatherClient{
		baseURL:    DefaultWeatherBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TemperatureC returns the current temperature in celsius for city.
func (c *WeatherClient) TemperatureC(ctx context.Context, city string) (float64, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", city)
	weatherURL := c.baseURL + "/v1/current.json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, weatherURL, nil)
	if err != nil {
		return 0, errors.Wrap(err, "build request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "weather request")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, errors.Errorf("weather http status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.Wrap(err, "read response")
	}
	if !gjson.ValidBytes(body) {
		return 0, errors.New("invalid weather response")
	}
	temp := gjson.GetBytes(body, "current.temp_c")
	if temp.Type != gjson.Number {
		return 0, errors.New("current.temp_c not found in weather response")
	}
	return temp.Float(), nil
}

// GetWeatherByCityName returns "<celsius>°C" or FailedToFetchWeather.
// It never returns an error.
func (c *WeatherClient) GetWeatherByCityName(ctx context.Context, city string) (string, error) {
	celsius, err := c.TemperatureC(ctx, city)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"tool", tools.ToolGetWeatherByCityName,
			"city", city,
			"err", err.Error(),
		)
		return FailedToFetchWeather, nil
	}
	return FormatCelsius(celsius), nil
}

// FormatCelsius prints the value in its shortest form, e.g. 33°C, 33.5°C.
func FormatCelsius(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°C"
}

func NewGetWeatherTool(opts ...WeatherOption) tools.Tool {
	client := NewWeatherClient(opts...)
	return tools.New(
		tools.ToolGetWeatherByCityName,
		client.GetWeatherByCityName,
		tools.WithDescription("getWeatherByCityName is a function that accepts city name as string and returns the weather in celsius."),
		tools.WithParameters(tools.ObjectSchema(map[string]any{
			"city": tools.StringProperty("City name."),
		}, "city")),
	)
}
