// Package config provides configuration loading for the dashboard.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//  1. Default values (Default)
//  2. YAML file (config.yaml, configs/config.yaml, or ECOM_CONFIG_FILE)
//  3. Environment variables (ECOM_*)
//
// # Environment Variables
//
// Nested sections map to underscore-joined names:
//
//	ECOM_SERVER_PORT=8080
//	ECOM_DATA_DIR=/srv/dashboard/analysispart3
//	ECOM_DATA_SOURCE=sheets
//	ECOM_DATA_SPREADSHEET_ID=1AbC...
//	ECOM_LOGGING_LEVEL=debug
//
// # Catalog
//
// The list of product workbooks defaults to the built-in catalog. Setting
// data.catalog_file points the loader at a YAML list of sources instead
// (see LoadCatalog).
package config
