// Package file provides the TOML-backed ConfigStore.
//
// The file mirrors the settings sections:
//
//	[run]        namespace, workers, report_format
//	[aligner]    provider, timeout_seconds, max_consecutive_faults
//	[embedding]  provider, model, base_url, api_key, requests_per_second
//	[filter]     processors, retain
package file
