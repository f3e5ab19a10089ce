package sheets

import (
	"fmt"
	"net/url"
	"strings"
)

// ExportURL turns a spreadsheet editor link into its CSV export link:
//
//	https://docs.google.com/spreadsheets/d/<id>/edit?gid=42#gid=42
//	https://docs.google.com/spreadsheets/d/<id>/export?format=csv&gid=42
//
// The gid is taken from the query, or from the fragment when the query has
// none. URLs that do not end in /edit (published links, plain CSV files) are
// returned unchanged. Only http and https are accepted.
func ExportURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("sheets: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("sheets: url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("sheets: url %q: missing host", raw)
	}

	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(path, "/edit") {
		return u.String(), nil
	}

	gid := u.Query().Get("gid")
	if gid == "" {
		if frag, err := url.ParseQuery(u.Fragment); err == nil {
			gid = frag.Get("gid")
		}
	}

	q := url.Values{}
	q.Set("format", "csv")
	if gid != "" {
		q.Set("gid", gid)
	}
	u.Path = strings.TrimSuffix(path, "/edit") + "/export"
	u.RawPath = ""
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}
