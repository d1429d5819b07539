// Package config loads suburbprice configuration.
//
// Sources are applied in order: YAML file (with ${VAR} expansion), .env
// file, SUBURBPRICE_* environment overrides, then defaults. The result is
// checked by Validate and by the embedded CUE schema.
//
// Example config file:
//
//	timezone: Australia/Adelaide
//	store:
//	  driver: sqlite
//	  path: data/suburbprice.db
//	ingest:
//	  min_interval_days: 6
//	export:
//	  dir: data
//	  prefix: realestatedata
//	range:
//	  max_range: true
package config
