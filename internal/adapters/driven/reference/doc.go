// Package reference loads the file-based reference datasets: the enrollment
// census (semicolon-separated CSV), the occupational registry and the
// job-code taxonomy (JSON). Any file may be gzip-compressed, detected by
// its .gz extension.
//
// An empty path disables a dataset: it loads as empty. A configured path
// that cannot be read or parsed fails the load.
package reference
