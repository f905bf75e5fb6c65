// Package vin decodes vehicle identification numbers through the NHTSA
// vPIC public API.
package vin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://vpic.nhtsa.dot.gov/api"

var (
	ErrInvalidVIN   = errors.New("invalid VIN")
	ErrDecodeFailed = errors.New("VIN decode failed")
)

// VINs are 17 characters and never contain I, O or Q.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// DecodedVehicle carries the subset of vPIC fields the storefront shows.
// Nullable pointers keep absent values as JSON null.
type DecodedVehicle struct {
	VIN          string  `json:"vin"`
	Make         *string `json:"make"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	Trim         *string `json:"trim"`
	Engine       *string `json:"engine"`
	Transmission *string `json:"transmission"`
	BodyStyle    *string `json:"bodyStyle"`
	Fuel         *string `json:"fuel"`
	Manufacturer *string `json:"manufacturer"`
	PlantCountry *string `json:"plantCountry"`
	VehicleType  *string `json:"vehicleType"`
}

type vpicResult struct {
	Make                 string `json:"Make"`
	Model                string `json:"Model"`
	ModelYear            string `json:"ModelYear"`
	Trim                 string `json:"Trim"`
	EngineModel          string `json:"EngineModel"`
	EngineCylinders      string `json:"EngineCylinders"`
	EngineConfiguration  string `json:"EngineConfiguration"`
	TransmissionStyle    string `json:"TransmissionStyle"`
	TransmissionSpeeds   string `json:"TransmissionSpeeds"`
	BodyClass            string `json:"BodyClass"`
	FuelTypePrimary      string `json:"FuelTypePrimary"`
	ManufacturerName     string `json:"ManufacturerName"`
	PlantCountry         string `json:"PlantCountry"`
	VehicleType          string `json:"VehicleType"`
}

type vpicResponse struct {
	Results []vpicResult `json:"Results"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Decode validates and uppercases the VIN before calling vPIC. Upstream
// failures come back wrapped in ErrDecodeFailed.
func (c *Client) Decode(ctx context.Context, vin string) (*DecodedVehicle, error) {
	const op = "vin.Client.Decode"

	vin = strings.ToUpper(strings.TrimSpace(vin))
	if !vinPattern.MatchString(vin) {
		return nil, ErrInvalidVIN
	}

	url := fmt.Sprintf("%s/vehicles/DecodeVinValuesExtended/%s?format=json", c.baseURL, vin)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrDecodeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: NHTSA API error: %d", op, ErrDecodeFailed, resp.StatusCode)
	}

	var payload vpicResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrDecodeFailed, err)
	}

	var res vpicResult
	if len(payload.Results) > 0 {
		res = payload.Results[0]
	}

	decoded := &DecodedVehicle{
		VIN:          vin,
		Make:         nonEmpty(res.Make),
		Model:        nonEmpty(res.Model),
		Trim:         nonEmpty(res.Trim),
		Engine:       firstNonEmpty(res.EngineModel, res.EngineCylinders, res.EngineConfiguration),
		Transmission: firstNonEmpty(res.TransmissionStyle, res.TransmissionSpeeds),
		BodyStyle:    nonEmpty(res.BodyClass),
		Fuel:         nonEmpty(res.FuelTypePrimary),
		Manufacturer: nonEmpty(res.ManufacturerName),
		PlantCountry: nonEmpty(res.PlantCountry),
		VehicleType:  nonEmpty(res.VehicleType),
	}
	if res.ModelYear != "" {
		if year, err := strconv.Atoi(res.ModelYear); err == nil {
			decoded.Year = &year
		}
	}
	return decoded, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v != "" {
			return &v
		}
	}
	return nil
}
