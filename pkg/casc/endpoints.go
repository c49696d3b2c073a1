package casc

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the wago.tools CASC file-delivery API
const DefaultBaseURL = "https://wago.tools/api/casc"

// FileURL builds the download URL for a CASC file ID
func FileURL(baseURL string, id int) string {
	return fmt.Sprintf("%s/%d?download", strings.TrimRight(baseURL, "/"), id)
}
