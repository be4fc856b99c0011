// Package config provides centralized configuration management for prodboard.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from a .env file
//	2. A YAML configuration file (prodboard.yaml, configs/prodboard.yaml or
//	   the file named by PRODBOARD_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PRODBOARD_<SECTION>_<KEY>:
//
//	PRODBOARD_SERVER_PORT=8080
//	PRODBOARD_SOURCES_ORDERS=https://example.com/orders.csv
//	PRODBOARD_SOURCES_LABOR=/data/mod.xlsx#MOD
//	PRODBOARD_PROJECTION_FREELANCER_DAILY_RATE=90
//	PRODBOARD_LOGGING_LEVEL=debug
//
// # Source Locations
//
// Every source location is an http(s) URL, a file:// URL or a plain file path.
// Locations ending in .xlsx are read as workbooks; a sheet can be selected
// with a '#Sheet' suffix, otherwise the first sheet is used.
package config
