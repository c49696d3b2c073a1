// Package auth stores the optional wago.tools API token. A Manager tries
// the system keychain first, then an encrypted file under the user config
// directory, and finally the ADTFETCH_TOKEN environment variable.
package auth
