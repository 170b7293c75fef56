package buildin_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myproject/weather-agent/agent/tools"
	"github.com/myproject/weather-agent/agent/tools/buildin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetWeather(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/current.json", r.URL.Path)
		assert.Equal(t, "testkey", r.URL.Query().Get("key"))

		switch r.URL.Query().Get("q") {
		case "Dhaka":
			_, _ = w.Write([]byte(`{"location":{"name":"Dhaka"},"current":{"temp_c":33.0,"temp_f":91.4}}`))
		case "Barisal":
			_, _ = w.Write([]byte(`{"current":{"temp_c":31.5}}`))
		case "New York":
			_, _ = w.Write([]byte(`{"current":{"temp_c":-2}}`))
		case "Missing":
			_, _ = w.Write([]byte(`{"current":{"temp_f":91.4}}`))
		case "Text":
			_, _ = w.Write([]byte(`{"current":{"temp_c":"hot"}}`))
		case "Garbage":
			_, _ = w.Write([]byte(`<html>oops</html>`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
		}
	}))
	defer server.Close()

	tool := buildin.NewGetWeatherTool(
		buildin.WithAPIKey("testkey"),
		buildin.WithBaseURL(server.URL),
		buildin.WithHTTPClient(server.Client()),
	)
	assert.Equal(t, tools.ToolGetWeatherByCityName, tool.Name)
	assert.Equal(t, "function getWeatherByCityName(city : string) : string", tool.Signature())

	tcs := []struct {
		city string
		exp  string
	}{
		{"Dhaka", "33°C"},
		{"Barisal", "31.5°C"},
		{"New York", "-2°C"},
		{"Missing", buildin.FailedToFetchWeather},
		{"Text", buildin.FailedToFetchWeather},
		{"Garbage", buildin.FailedToFetchWeather},
		{"Unknown", buildin.FailedToFetchWeather},
	}
	for _, tc := range tcs {
		t.Run(tc.city, func(t *testing.T) {
			res, err := tool.Call(context.Background(), tc.city)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, res)
		})
	}
}

func Test_GetWeather_NetworkError(t *testing.T) {
	// a closed listener gives a connection refused error
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	tool := buildin.NewGetWeatherTool(buildin.WithBaseURL("http://" + addr))
	res, err := tool.Call(context.Background(), "Unknown")
	require.NoError(t, err)
	assert.Equal(t, "Failed to Fetch Weather Data", res)
}

func Test_GetWeather_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"temp_c":20}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := buildin.NewWeatherClient(buildin.WithBaseURL(server.URL))
	_, err := client.TemperatureC(ctx, "Dhaka")
	require.Error(t, err)

	res, err := client.GetWeatherByCityName(ctx, "Dhaka")
	require.NoError(t, err)
	assert.Equal(t, buildin.FailedToFetchWeather, res)
}

func Test_FormatCelsius(t *testing.T) {
	assert.Equal(t, "33°C", buildin.FormatCelsius(33))
	assert.Equal(t, "0°C", buildin.FormatCelsius(0))
	assert.Equal(t, "12.25°C", buildin.FormatCelsius(12.25))
}
