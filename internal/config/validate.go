package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"sheetsync/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "store.kind",
// "ddl.build.items"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// StoreKinds are the store kinds the binary ships dialects for.
var StoreKinds = []string{"sqlite", "postgres", "mssql", "mysql"}

// Validate performs static checks over a decoded Config. It does not mutate
// c and does not touch the network or the store.
func Validate(c *Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "job must not be empty; it labels metrics and logs"})
	}
	issues = append(issues, validateStore(c.Store)...)
	issues = append(issues, validateSources(c.Sources)...)
	issues = append(issues, validateLoad(c.Load)...)
	issues = append(issues, validateDDL(c.DDL)...)
	issues = append(issues, validateHTTP(c.HTTP)...)
	issues = append(issues, validateLog(c.Log)...)
	issues = append(issues, validateMetrics(c.Metrics)...)

	return issues
}

func validateStore(s Store) []Issue {
	var issues []Issue

	if !contains(StoreKinds, s.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "store.kind",
			Message:  fmt.Sprintf("unknown store kind %q; accepted: %s", s.Kind, strings.Join(StoreKinds, ", ")),
		})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "store.dsn", "store.dsn must not be empty"})
	}
	return issues
}

func validateSources(srcs Sources) []Issue {
	var issues []Issue

	if len(srcs) == 0 {
		issues = append(issues, Issue{SeverityWarning, "sources", "no sources configured; load will have nothing to read"})
		return issues
	}

	seen := make(map[string]string, len(srcs))
	for _, s := range srcs {
		path := "sources." + s.Name
		if strings.TrimSpace(s.Name) == "" {
			issues = append(issues, Issue{SeverityError, "sources", "source name must not be empty"})
			continue
		}
		if prev, dup := seen[strings.ToLower(s.Name)]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("source %q differs from %q only by case; most stores treat them as one table", s.Name, prev),
			})
		}
		seen[strings.ToLower(s.Name)] = s.Name

		u, err := url.Parse(strings.TrimSpace(s.URL))
		switch {
		case strings.TrimSpace(s.URL) == "":
			issues = append(issues, Issue{SeverityError, path, "source url must not be empty"})
		case err != nil:
			issues = append(issues, Issue{SeverityError, path, fmt.Sprintf("invalid url: %v", err)})
		case u.Scheme != "http" && u.Scheme != "https":
			issues = append(issues, Issue{SeverityError, path, "source url must be http or https"})
		}
	}
	return issues
}

func validateLoad(l LoadOptions) []Issue {
	if l.IndexColumn != "" && strings.TrimSpace(l.IndexColumn) == "" {
		return []Issue{{SeverityError, "load.index_column", "index_column must not be blank"}}
	}
	return nil
}

func validateDDL(d DDL) []Issue {
	var issues []Issue

	ops := make([]string, 0, len(d))
	for op := range d {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	for _, op := range ops {
		list := d[op]
		path := "ddl." + op
		parsed, err := schema.ParseOperation(op)
		if err != nil {
			issues = append(issues, Issue{SeverityError, path, err.Error()})
			continue
		}
		if !parsed.IsDDL() {
			issues = append(issues, Issue{SeverityError, path, fmt.Sprintf("operation %s does not take ddl statements", op)})
			continue
		}
		if len(list) == 0 {
			issues = append(issues, Issue{SeverityWarning, path, "no statements; this operation will fail at run time"})
		}
		for _, st := range list {
			if strings.TrimSpace(st.SQL) == "" {
				issues = append(issues, Issue{SeverityError, path + "." + st.Table, "statement must not be empty"})
			}
		}
	}
	for _, op := range schema.DDLOperations {
		if _, ok := d[string(op)]; !ok {
			issues = append(issues, Issue{SeverityWarning, "ddl." + string(op), "not configured; `run " + string(op) + "` will fail"})
		}
	}
	if !HasErrors(issues) {
		if _, err := (&Config{DDL: d}).Registry(); err != nil {
			issues = append(issues, Issue{SeverityError, "ddl", err.Error()})
		}
	}
	return issues
}

func validateHTTP(h HTTP) []Issue {
	if h.Timeout < 0 {
		return []Issue{{SeverityError, "http.timeout", "timeout must not be negative"}}
	}
	return nil
}

func validateLog(l Log) []Issue {
	var issues []Issue
	if !contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(l.Level)) {
		issues = append(issues, Issue{SeverityError, "log.level", fmt.Sprintf("unknown level %q; accepted: debug, info, warn, error", l.Level)})
	}
	if l.SeqURL != "" {
		if u, err := url.Parse(l.SeqURL); err != nil || u.Host == "" {
			issues = append(issues, Issue{SeverityError, "log.seq_url", "seq_url must be an absolute URL"})
		}
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch strings.ToLower(m.Backend) {
	case "none", "datadog":
		return nil
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			return []Issue{{SeverityError, "metrics.pushgateway_url", "pushgateway backend requires pushgateway_url"}}
		}
		return nil
	default:
		return []Issue{{SeverityError, "metrics.backend", fmt.Sprintf("unknown metrics backend %q; accepted: none, pushgateway, datadog", m.Backend)}}
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
