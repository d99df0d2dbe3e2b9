// Package file provides file-based adapters for the run's inputs and outputs.
//
// # Adapters
//
//   - RawSource: reads fresq_raw_<suffix>.json[.gz] from the data directory
//   - DocumentSink: writes fresq_formatted_<suffix>.jsonl and
//     fresq_faults_<suffix>.log to the output directory
//
// Both optionally use an ObjectStore: the raw source downloads a missing
// input, and the sink uploads what it wrote.
package file
