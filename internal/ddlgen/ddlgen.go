// Package ddlgen drafts the ddl section of the config file from the current
// contents of the configured sources. Column types are inferred the same way
// the store writer infers them during load.
package ddlgen

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"sheetsync/internal/dataset"
	"sheetsync/internal/ddl"
	"sheetsync/internal/schema"
	"sheetsync/internal/storage"
)

// Draft holds generated statements per DDL operation.
type Draft struct {
	Build []schema.Statement
	Drop  []schema.Statement
}

// Generate drafts one guarded CREATE TABLE per dataset, in order, and the
// matching DROP TABLE IF EXISTS statements in reverse order.
func Generate(set dataset.Set, d storage.Dialect, indexColumn string) (Draft, error) {
	var out Draft
	for _, ds := range set {
		td, _, err := storage.TableDefFor(ds, d, indexColumn)
		if err != nil {
			return Draft{}, fmt.Errorf("ddlgen: %s: %w", ds.Name, err)
		}
		create, err := ddl.CreateTable(td, d.Quote)
		if err != nil {
			return Draft{}, fmt.Errorf("ddlgen: %w", err)
		}
		out.Build = append(out.Build, schema.Statement{Table: ds.Name, SQL: d.CreateIfAbsent(ds.Name, create)})
	}
	for i := len(set) - 1; i >= 0; i-- {
		name := set[i].Name
		out.Drop = append(out.Drop, schema.Statement{Table: name, SQL: ddl.DropTableIfExists(name, d.Quote)})
	}
	return out, nil
}

// YAML renders the draft as a top-level "ddl:" mapping that config.Decode
// reads back in the same order. Multi-line statements use literal blocks.
func (dr Draft) YAML() ([]byte, error) {
	ops := &yaml.Node{Kind: yaml.MappingNode}
	ops.Content = append(ops.Content, str("build"), statements(dr.Build))
	ops.Content = append(ops.Content, str("drop"), statements(dr.Drop))
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str("ddl"), ops}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("ddlgen: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("ddlgen: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func statements(stmts []schema.Statement) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, st := range stmts {
		v := str(st.SQL)
		if strings.Contains(st.SQL, "\n") {
			v.Style = yaml.LiteralStyle
		}
		m.Content = append(m.Content, str(st.Table), v)
	}
	return m
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
