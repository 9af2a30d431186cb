package constants

import "os"

func GetIndexDir() string {
	path := os.Getenv("INDEX_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetChartDir() string {
	path := os.Getenv("CHART_PATH")
	if path != "" {
		return path
	}

	panic("CHART_PATH environment variable is not set!")
}

func HasChartDir() bool {
	return os.Getenv("CHART_PATH") != ""
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetMetadataTable() string {
	table := os.Getenv("DYNAMODB_TABLE")
	if table != "" {
		return table
	}
	return "harp-metadata"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// ticks per quarter beat
const Resolution = 480 * 14

const BaseBarTick = Resolution * 4

const KeyForRest = "00"

// #STOP lengths are counted in 1/192 of a 4/4 bar regardless of the measure scale
const StopResolution = 192

const DefaultBPM = 128.0

// 2 base-36 digits
const MaxKey = 36*36 - 1

const CatalogFilename = "catalog.dat"
