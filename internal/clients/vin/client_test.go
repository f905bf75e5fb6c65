package vin_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/partsfinda/partsfinda-api/internal/clients/vin"
	"github.com/stretchr/testify/assert"
)

const testVIN = "1HGBH41JXMN109186"

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func TestDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vehicles/DecodeVinValuesExtended/"+testVIN, r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"Results":[{
			"Make":"HONDA","Model":"Accord","ModelYear":"1991","Trim":"EX",
			"EngineModel":"F22A1","TransmissionStyle":"Automatic",
			"BodyClass":"Sedan","FuelTypePrimary":"Gasoline",
			"ManufacturerName":"HONDA OF AMERICA MFG., INC.",
			"PlantCountry":"UNITED STATES (USA)","VehicleType":"PASSENGER CAR"
		}]}`)
	}))
	defer srv.Close()

	client := vin.New(srv.URL, time.Second)
	decoded, err := client.Decode(context.Background(), testVIN)

	assert.NoError(t, err)
	assert.Equal(t, testVIN, decoded.VIN)
	assert.Equal(t, "HONDA", strVal(decoded.Make))
	assert.Equal(t, "Accord", strVal(decoded.Model))
	if assert.NotNil(t, decoded.Year) {
		assert.Equal(t, 1991, *decoded.Year)
	}
	assert.Equal(t, "F22A1", strVal(decoded.Engine))
	assert.Equal(t, "Automatic", strVal(decoded.Transmission))
	assert.Equal(t, "Sedan", strVal(decoded.BodyStyle))
	assert.Equal(t, "Gasoline", strVal(decoded.Fuel))
}

func TestDecode_LowercaseIsUppercased(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/"+testVIN))
		fmt.Fprint(w, `{"Results":[{"Make":"HONDA"}]}`)
	}))
	defer srv.Close()

	client := vin.New(srv.URL, time.Second)
	decoded, err := client.Decode(context.Background(), "  "+strings.ToLower(testVIN)+" ")

	assert.NoError(t, err)
	assert.Equal(t, testVIN, decoded.VIN)
}

func TestDecode_EngineFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Results":[{"EngineCylinders":"4","TransmissionSpeeds":"5"}]}`)
	}))
	defer srv.Close()

	client := vin.New(srv.URL, time.Second)
	decoded, err := client.Decode(context.Background(), testVIN)

	assert.NoError(t, err)
	assert.Equal(t, "4", strVal(decoded.Engine))
	assert.Equal(t, "5", strVal(decoded.Transmission))
	assert.Nil(t, decoded.Make)
	assert.Nil(t, decoded.Year)
}

func TestDecode_InvalidVIN(t *testing.T) {
	client := vin.New("http://127.0.0.1:1", time.Second)

	for _, raw := range []string{
		"",
		"SHORT",
		"1HGBH41JXMN10918",   // 16 chars
		"1HGBH41JXMN1091865", // 18 chars
		"IHGBH41JXMN109186",  // contains I
		"OHGBH41JXMN109186",  // contains O
		"QHGBH41JXMN109186",  // contains Q
	} {
		_, err := client.Decode(context.Background(), raw)
		assert.ErrorIs(t, err, vin.ErrInvalidVIN, raw)
	}
}

func TestDecode_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := vin.New(srv.URL, time.Second)
	_, err := client.Decode(context.Background(), testVIN)

	assert.ErrorIs(t, err, vin.ErrDecodeFailed)
}

func TestDecode_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Results":[]}`)
	}))
	defer srv.Close()

	client := vin.New(srv.URL, time.Second)
	decoded, err := client.Decode(context.Background(), testVIN)

	assert.NoError(t, err)
	assert.Equal(t, testVIN, decoded.VIN)
	assert.Nil(t, decoded.Make)
}
