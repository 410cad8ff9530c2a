package dispatch

import (
	"context"
	"encoding/json"

	"github.com/koustreak/vschema/internal/capability"
	"github.com/koustreak/vschema/internal/logger"
	"github.com/koustreak/vschema/internal/request"
	"github.com/koustreak/vschema/internal/sqlnode"
)

// Summary is a flat description of a decoded request.
type Summary struct {
	Type            request.RequestType `json:"type"`
	Schema          string              `json:"schema"`
	AdapterNotes    string              `json:"adapterNotes,omitempty"`
	Tables          []string            `json:"tables,omitempty"`
	SQL             string              `json:"sql,omitempty"`
	RequestedTables []string            `json:"requestedTables,omitempty"`
	Properties      map[string]string   `json:"properties,omitempty"`
	Capabilities    []string            `json:"capabilities,omitempty"`
}

// Summarize describes req. caps is reported for getCapabilities requests.
func Summarize(req request.AdapterRequest, caps capability.Capabilities) Summary {
	info := req.SchemaMetadataInfo()
	s := Summary{
		Type:         req.Type(),
		Schema:       info.Name,
		AdapterNotes: info.AdapterNotes,
	}
	switch r := req.(type) {
	case *request.Pushdown:
		for _, t := range r.InvolvedTables {
			s.Tables = append(s.Tables, t.Describe())
		}
		s.SQL = sqlnode.Render(r.Statement.Root())
	case *request.SetProperties:
		s.Properties = r.MergedProperties()
	case *request.Refresh:
		s.RequestedTables = r.RequestedTables
	case *request.GetCapabilities:
		s.Capabilities = caps.Tokens()
	case *request.CreateVirtualSchema, *request.DropVirtualSchema:
		s.Properties = info.Properties
	}
	return s
}

// DescribeAdapter answers every request with its JSON Summary. It declares
// every known capability.
type DescribeAdapter struct {
	log  *logger.Logger
	caps capability.Capabilities
}

// NewDescribeAdapter is the Factory of DescribeAdapter.
func NewDescribeAdapter(log *logger.Logger) Adapter {
	return &DescribeAdapter{log: log, caps: capability.All()}
}

func (a *DescribeAdapter) Handle(_ context.Context, _ any, req request.AdapterRequest) (string, error) {
	s := Summarize(req, a.caps)
	out, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	a.log.With().Int("tables", len(s.Tables)).Logger().Info("request described")
	return string(out), nil
}
