// Command npnt-verify verifies a permission artifact file against a trust
// bundle and prints the authorized geofence and flight parameters.
// Usage: go run ./cmd/npnt-verify -artifact permart.xml -certs issuer.pem
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	libnpnt "github.com/skylarkdrones/heimdall-libnpnt"
)

type output struct {
	Fence struct {
		Vertices    []vertex `json:"vertices"`
		MaxAltitude float64  `json:"maxAltitude"`
	} `json:"fence"`
	FlightParams struct {
		UINNo       string    `json:"uinNo"`
		ADCNumber   string    `json:"adcNumber"`
		FICNumber   string    `json:"ficNumber"`
		FlightStart time.Time `json:"flightStart"`
		FlightEnd   time.Time `json:"flightEnd"`
	} `json:"flightParams"`
}

type vertex struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func main() {
	artifactPath := flag.String("artifact", "", "Path to the permission artifact XML file")
	certsPath := flag.String("certs", "", "Path to a PEM bundle of trusted issuer certificates")
	keyPath := flag.String("key", "", "Path to a PEM RSA public key (alternative to -certs)")
	base64Encoded := flag.Bool("base64", false, "Artifact file is base64-encoded")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *artifactPath == "" || (*certsPath == "" && *keyPath == "") {
		flag.Usage()
		os.Exit(2)
	}

	logger := newLogger(*verbose)
	defer logger.Sync() //nolint:errcheck

	cfg := libnpnt.Config{Logger: logger}
	if *certsPath != "" {
		certs, err := libnpnt.LoadTrustedCertificates(*certsPath)
		if err != nil {
			log.Fatalf("Failed to load certificates: %v", err)
		}
		cfg.TrustedCerts = certs
	}
	if *keyPath != "" {
		key, err := libnpnt.LoadRSAPublicKey(*keyPath)
		if err != nil {
			log.Fatalf("Failed to load public key: %v", err)
		}
		cfg.TrustedKeys = append(cfg.TrustedKeys, key)
	}

	data, err := os.ReadFile(*artifactPath)
	if err != nil {
		log.Fatalf("Failed to read artifact: %v", err)
	}

	handle := libnpnt.New(cfg)
	if err := handle.SetPermissionArtifact(data, *base64Encoded); err != nil {
		logger.Error("artifact rejected",
			zap.String("code", libnpnt.CodeOf(err).String()),
			zap.Error(err))
		os.Exit(1)
	}

	fence, _ := handle.Fence()
	params, _ := handle.FlightParams()

	var out output
	out.Fence.MaxAltitude = fence.MaxAltitude
	for _, v := range fence.Vertices {
		out.Fence.Vertices = append(out.Fence.Vertices, vertex{v.Latitude, v.Longitude})
	}
	out.FlightParams.UINNo = params.UINNo
	out.FlightParams.ADCNumber = params.ADCNumber
	out.FlightParams.FICNumber = params.FICNumber
	out.FlightParams.FlightStart = params.FlightStart.UTC()
	out.FlightParams.FlightEnd = params.FlightEnd.UTC()

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
	fmt.Println(string(encoded))
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}
